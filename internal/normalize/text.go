package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

var lowerCaser = cases.Lower(language.Und)

// foldWidth narrows full-width runes (occasionally present in vendor
// exports produced by East Asian-locale spreadsheet tools) to their
// standard ASCII form.
func foldWidth(s string) string {
	return width.Fold.String(s)
}

// foldText lower-cases and trims a raw vendor string using locale-aware
// case folding plus full-width normalization, rather than strings.ToLower,
// so a feature-type or clock-position cell exported from a non-US-locale
// tool still matches the canonical alias tables below.
func foldText(s string) string {
	return strings.TrimSpace(lowerCaser.String(foldWidth(s)))
}
