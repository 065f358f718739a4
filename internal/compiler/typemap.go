package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tordrt/erd2prisma/internal/model"
)

// strategyDefaults maps a PK strategy to its default clause
var strategyDefaults = map[model.Strategy]string{
	model.StrategyAutoincrement: "@default(autoincrement())",
	model.StrategyUUID:          "@default(uuid())",
	model.StrategyCUID:          "@default(cuid())",
}

// MapType returns the schema type name for an editor type token.
// Unknown tokens, including enum names, pass through unchanged.
func MapType(token string) string {
	return model.ParseType(token).Base()
}

// ModelName derives the generated model name of a table: its display name
// (or id when the name is empty) with the first code point upper-cased.
func ModelName(t model.Table) string {
	return capitalize(displayName(t))
}

func displayName(t model.Table) string {
	if t.Name == "" {
		return t.ID
	}
	return t.Name
}

// fieldStem is the lower-cased name used for generated relation fields
func fieldStem(t model.Table) string {
	return strings.ToLower(displayName(t))
}

func pluralize(stem string) string {
	return stem + "s"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	// Casers are stateful, so each call gets its own
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

// timestampKey strips separators and case so created_at, Created-At and
// "created at" compare equal.
func timestampKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

var timestampLines = map[string]string{
	"createdat": "  createdAt DateTime? @default(now())",
	"updatedat": "  updatedAt DateTime? @default(now()) @updatedAt",
}
