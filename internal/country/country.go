// Package country translates ISO 3166-1 alpha-2 country codes into display
// names. The tables are built at init and never mutated, so lookups are safe
// for concurrent use.
package country

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	French  = "fr"
	English = "en"
)

var (
	ErrUnsupportedLanguage = errors.New("language not available for translation")
	ErrUnknownCountry      = errors.New("no translation for country")
)

var translations = map[string]map[string]string{
	French:  french,
	English: english,
}

// Languages returns the supported language codes in sorted order.
func Languages() []string {
	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Translate returns the name of the country identified by code in the given
// language. Both arguments are matched case-insensitively.
func Translate(code, lang string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	table, ok := translations[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	code = strings.ToLower(strings.TrimSpace(code))
	name, ok := table[code]
	if !ok {
		return "", fmt.Errorf("%w %q in %q", ErrUnknownCountry, code, lang)
	}
	return name, nil
}

func InEnglish(code string) (string, error) {
	return Translate(code, English)
}

func InFrench(code string) (string, error) {
	return Translate(code, French)
}
