package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/erd2prisma/internal/compiler"
	"github.com/tordrt/erd2prisma/internal/model"
)

// MarkdownFormatter formats a design as a readable markdown preview
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the design in markdown format
func (f *MarkdownFormatter) Format(s model.Snapshot) error {
	_, _ = fmt.Fprintln(f.writer, "# ERD Design")
	_, _ = fmt.Fprintln(f.writer)

	if len(s.Enums) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Enums")
		_, _ = fmt.Fprintln(f.writer)
		for _, e := range s.Enums {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", e.Name, strings.Join(e.Values, " | "))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	for _, table := range s.Tables {
		f.FormatTable(f.writer, table, s)
	}
	return nil
}

// FormatTable writes one table section (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(w io.Writer, table model.Table, s model.Snapshot) {
	_, _ = fmt.Fprintf(w, "## %s\n\n", compiler.ModelName(table))
	f.FormatFields(w, table.Fields)
	f.FormatRelations(w, table, s)
}

// FormatFields writes the field list of a table
func (f *MarkdownFormatter) FormatFields(w io.Writer, fields []model.Field) {
	_, _ = fmt.Fprintln(w, "### Fields")
	_, _ = fmt.Fprintln(w)

	if len(fields) == 0 {
		_, _ = fmt.Fprintln(w, "_No fields_")
		_, _ = fmt.Fprintln(w)
		return
	}

	pk := model.PrimaryKeyIndex(fields)
	for i, field := range fields {
		constraintStr := formatConstraints(field, i == pk)
		if constraintStr != "" {
			_, _ = fmt.Fprintf(w, "- **%s:** %s, %s\n", field.Name, field.Type, constraintStr)
		} else {
			_, _ = fmt.Fprintf(w, "- **%s:** %s\n", field.Name, field.Type)
		}
	}
	_, _ = fmt.Fprintln(w)
}

// FormatRelations writes the outgoing relations of a table
func (f *MarkdownFormatter) FormatRelations(w io.Writer, table model.Table, s model.Snapshot) {
	var lines []string
	for _, rel := range s.Relations {
		if rel.SourceTableID != table.ID {
			continue
		}
		target, ok := s.FindTable(rel.TargetTableID)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("- → %s (%s)", compiler.ModelName(*target), FormatCardinality(rel.Cardinality)))
	}
	if len(lines) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w, "### Relations")
	_, _ = fmt.Fprintln(w)
	for _, line := range lines {
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintln(w)
}

// FormatCardinality describes a cardinality with its short label
func FormatCardinality(c model.Cardinality) string {
	c = c.OrDefault()
	return fmt.Sprintf("%s, %s", c.Label(), c)
}

func formatConstraints(field model.Field, primary bool) string {
	var constraints []string

	if primary {
		constraints = append(constraints, "PK")
	}

	if field.Unique && !primary {
		constraints = append(constraints, "UNIQUE")
	}

	if field.Nullable && !primary {
		constraints = append(constraints, "NULL")
	}

	return strings.Join(constraints, ", ")
}
