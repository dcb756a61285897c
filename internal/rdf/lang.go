package rdf

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLang is the language of the default item in an alt-text array.
const DefaultLang = "x-default"

// NormalizeLang returns the canonical BCP 47 form of an xml:lang value.
// Values that do not parse are returned unchanged.
func NormalizeLang(tag string) string {
	tag = strings.TrimSpace(tag)
	if strings.EqualFold(tag, DefaultLang) {
		return DefaultLang
	}
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}

func validLang(tag string) bool {
	if strings.EqualFold(tag, DefaultLang) {
		return true
	}
	_, err := language.Parse(tag)
	return err == nil
}
