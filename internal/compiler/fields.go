package compiler

import (
	"strings"

	"github.com/tordrt/erd2prisma/internal/model"
)

// renderField renders one declared field line. primary marks the field
// acting as the table's primary key; any later pk field renders as a
// plain column. The primary key is always rendered required, even when
// stored nullable, since Prisma rejects optional ids; Validate reports
// that case as nullable-primary-key.
func renderField(f model.Field, primary bool, enums map[string]model.Enum) string {
	ref := model.ParseType(f.Type)
	typ := ref.Base()

	if ref.Scalar == model.ScalarDateTime {
		if line, ok := timestampLines[timestampKey(f.Name)]; ok {
			return line
		}
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(f.Name)
	b.WriteString(" ")
	b.WriteString(typ)
	if f.Nullable && !primary {
		b.WriteString("?")
	}

	hasDefault := false
	if primary {
		b.WriteString(" @id")
		if clause, ok := strategyDefaults[ref.Strategy]; ok {
			b.WriteString(" ")
			b.WriteString(clause)
			hasDefault = true
		}
	}

	if !hasDefault {
		if e, ok := enums[typ]; ok && len(e.Values) > 0 {
			b.WriteString(" @default(")
			b.WriteString(e.Values[0])
			b.WriteString(")")
		}
	}

	if f.Unique && !primary {
		b.WriteString(" @unique")
	}

	return b.String()
}

// sourceKey returns the field a foreign key references: the first pk field
// or a synthetic Int id.
func sourceKey(t model.Table) model.Field {
	if i := model.PrimaryKeyIndex(t.Fields); i >= 0 {
		return t.Fields[i]
	}
	return model.Field{Name: "id", Type: string(model.ScalarInt), PK: true}
}
