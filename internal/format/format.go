// Package format holds small presentation helpers shared by the services:
// phone numbers, rounded amounts, and the date ranges behind usage graphs.
package format

import (
	"math"
	"strings"
)

// DefaultStep is the rounding step used when RoundToNearest gets step <= 0.
const DefaultStep = 5

// PhoneNumber keeps a leading '+' and the digits of phone, and turns a
// leading international "00" prefix into '+'. "00" on its own is kept.
func PhoneNumber(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if strings.HasPrefix(out, "00") && len(out) > 2 {
		return "+" + out[2:]
	}
	return out
}

// RoundToNearest rounds amount to a multiple of step. An amount whose
// rounded value is already a multiple is returned rounded; anything else
// moves to the multiple nearest to amount + step/2, which in practice rounds
// up.
func RoundToNearest(amount float64, step int) float64 {
	if step <= 0 {
		step = DefaultStep
	}
	rounded := math.Round(amount)
	if int64(rounded)%int64(step) == 0 {
		return rounded
	}
	s := float64(step)
	return math.Round((amount+s/2)/s) * s
}

func FloorAmount(amount float64) int {
	return int(math.Floor(amount))
}

func CeilAmount(amount float64) int {
	return int(math.Ceil(amount))
}

// DebugOnly returns err outside production and nil in production, for error
// details that must not reach production clients.
func DebugOnly(production bool, err error) error {
	if production {
		return nil
	}
	return err
}
