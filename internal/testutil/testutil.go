// Package testutil holds helpers shared by the test suites: random fixture
// data and batch assertions over handler status codes.
package testutil

import (
	"math/rand/v2"
	"net/http"
	"testing"
)

var specialities = []string{
	"cardiologie",
	"neurochirurgie",
	"dermatologie",
	"endocrinologie",
	"geriatrie",
	"gynecologie",
	"hematologie",
	"radiologie",
	"radiotherapie",
	"rhumatologie",
	"psychiatrie",
	"pneumologie",
	"pediatrie",
	"orthopedie",
	"ophtalmologie",
	"obstetrique",
	"oncologie",
	"odontologie",
	"neurologie",
	"hepatologie",
	"infectiologie",
	"neonatologie",
	"nephrologie",
	"chirurgie",
}

// Specialities returns a copy of the full speciality list.
func Specialities() []string {
	out := make([]string, len(specialities))
	copy(out, specialities)
	return out
}

// RandomSpecialities returns between one and all specialities, shuffled and
// without repetition. A nil r uses the global source.
func RandomSpecialities(r *rand.Rand) []string {
	shuffled := Specialities()
	intN := rand.IntN
	shuffle := rand.Shuffle
	if r != nil {
		intN = r.IntN
		shuffle = r.Shuffle
	}

	n := intN(len(shuffled)) + 1
	shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

// Batch runs do for every parameter and checks the returned status: 200 for
// each of allowed, 403 for each of forbidden.
func Batch[P any](t testing.TB, do func(P) int, allowed, forbidden []P) {
	t.Helper()
	BatchStatus(t, do, allowed, http.StatusOK, forbidden, http.StatusForbidden)
}

// BatchStatus is Batch with explicit status codes.
func BatchStatus[P any](t testing.TB, do func(P) int, ok []P, okStatus int, rejected []P, rejectStatus int) {
	t.Helper()
	for _, p := range ok {
		if got := do(p); got != okStatus {
			t.Errorf("param %v: expected status %d, got %d", p, okStatus, got)
		}
	}
	for _, p := range rejected {
		if got := do(p); got != rejectStatus {
			t.Errorf("param %v: expected status %d, got %d", p, rejectStatus, got)
		}
	}
}
