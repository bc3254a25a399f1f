// Package errcode is the closed catalog of user-facing error kinds. Each Code
// carries a stable translation key ("errors.max-file-size", ...) that the
// presentation layer resolves to localized text; nothing here does the
// resolving.
package errcode

import (
	"encoding/json"
	"fmt"
)

// Code identifies one error kind. The zero value is Unknown.
type Code int

var byKey = func() map[string]Code {
	m := make(map[string]Code, len(catalog))
	for _, e := range catalog {
		m[e.key] = e.code
	}
	return m
}()

func init() {
	for i, e := range catalog {
		if int(e.code) != i {
			panic(fmt.Sprintf("errcode: catalog entry %d holds code %d", i, e.code))
		}
	}
	if len(catalog) != int(maxCode) {
		panic("errcode: catalog does not cover every code")
	}
}

// Key returns the translation key of c, or the Unknown key for values
// outside the catalog.
func (c Code) Key() string {
	if c < 0 || c >= maxCode {
		return catalog[Unknown].key
	}
	return catalog[c].key
}

func (c Code) String() string {
	return c.Key()
}

// Parse looks a translation key up in the catalog.
func Parse(key string) (Code, bool) {
	c, ok := byKey[key]
	return c, ok
}

// All returns every known code except Unknown, in catalog order.
func All() []Code {
	out := make([]Code, 0, len(catalog)-1)
	for _, e := range catalog[1:] {
		out = append(out, e.code)
	}
	return out
}

func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Key())
}

func (c *Code) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err != nil {
		return err
	}
	parsed, ok := Parse(key)
	if !ok {
		return fmt.Errorf("unknown error key %q", key)
	}
	*c = parsed
	return nil
}
