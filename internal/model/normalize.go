package model

import (
	"regexp"
	"strings"
)

var identifierUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeIdentifier trims s and replaces every character that is not a
// letter, digit or underscore with an underscore.
func SanitizeIdentifier(s string) string {
	return identifierUnsafe.ReplaceAllString(strings.TrimSpace(s), "_")
}

// NormalizeEnumValues sanitizes values and drops empties and duplicates,
// keeping first-seen order.
func NormalizeEnumValues(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		safe := SanitizeIdentifier(v)
		if safe == "" || seen[safe] {
			continue
		}
		seen[safe] = true
		out = append(out, safe)
	}
	return out
}

// NormalizeField enforces the primary key invariant: a PK is unique and
// never nullable.
func NormalizeField(f Field) Field {
	if f.PK {
		f.Unique = true
		f.Nullable = false
	}
	return f
}

// PrimaryKeyIndex returns the index of the first PK field, or -1
func PrimaryKeyIndex(fields []Field) int {
	for i, f := range fields {
		if f.PK {
			return i
		}
	}
	return -1
}
