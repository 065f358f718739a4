package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/erd2prisma/internal/compiler"
	"github.com/tordrt/erd2prisma/internal/model"
)

const (
	FormatPrisma   = "prisma"
	FormatMarkdown = "markdown"
)

// MultiFileFormatter writes a design to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "prisma" or "markdown"
	Provider     string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format, provider string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
		Provider:     provider,
	}
}

// Format writes the design to multiple files.
//
// Prisma output is a schema folder: schema.prisma holds the generator,
// datasource and enums, and every model gets <Model>.prisma. Markdown
// output is _overview.md plus <Model>.md per table.
func (f *MultiFileFormatter) Format(s model.Snapshot) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if f.OutputFormat == FormatMarkdown {
		return f.formatMarkdown(s)
	}
	return f.formatPrisma(s)
}

func (f *MultiFileFormatter) formatPrisma(s model.Snapshot) error {
	result := compiler.CompileSnapshot(s, compiler.Options{Provider: f.Provider})

	var head strings.Builder
	head.WriteString(result.Header)
	for i, e := range result.Enums {
		if i > 0 {
			head.WriteString("\n")
		}
		head.WriteString(e.Text)
	}
	if err := f.writeFile(DefaultSchemaFile, head.String()); err != nil {
		return fmt.Errorf("failed to write %s: %w", DefaultSchemaFile, err)
	}

	// Models sharing a name share a file so nothing is silently dropped
	var order []string
	models := make(map[string][]string)
	for _, m := range result.Models {
		if _, seen := models[m.Name]; !seen {
			order = append(order, m.Name)
		}
		models[m.Name] = append(models[m.Name], m.Text)
	}
	for _, name := range order {
		file, err := modelFileName(name, ".prisma")
		if err != nil {
			return err
		}
		if err := f.writeFile(file, strings.Join(models[name], "\n")); err != nil {
			return fmt.Errorf("failed to write model file for %s: %w", name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) formatMarkdown(s model.Snapshot) error {
	if err := f.writeOverview(s); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	// Tables sharing a model name share a file, like the Prisma output
	var order []string
	groups := make(map[string][]model.Table)
	for _, table := range s.Tables {
		name := compiler.ModelName(table)
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], table)
	}

	for _, name := range order {
		if err := f.writeTableFile(name, groups[name], s); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", name, err)
		}
	}

	return nil
}

// modelFileName maps a model name to a file name directly inside the output
// directory. Path separators become underscores.
func modelFileName(name, ext string) (string, error) {
	stem := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, name)

	file := stem + ext
	if !filepath.IsLocal(file) {
		return "", fmt.Errorf("model name %q cannot be used as a file name", name)
	}
	return file, nil
}

func (f *MultiFileFormatter) writeFile(name, content string) error {
	return os.WriteFile(filepath.Join(f.OutputDir, name), []byte(content), 0644)
}

// writeOverview writes the overview file
func (f *MultiFileFormatter) writeOverview(s model.Snapshot) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview.md"))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, _ = fmt.Fprintf(file, "# ERD Overview\n\n")
	_, _ = fmt.Fprintf(file, "Each model has a corresponding file: `<Model>.md`\n\n")

	if len(s.Enums) > 0 {
		_, _ = fmt.Fprintf(file, "## Enums\n\n")
		for _, e := range s.Enums {
			_, _ = fmt.Fprintf(file, "- **%s:** %s\n", e.Name, strings.Join(e.Values, " | "))
		}
		_, _ = fmt.Fprintf(file, "\n")
	}

	_, _ = fmt.Fprintf(file, "## Models\n\n")

	// Sort models alphabetically
	sortedTables := make([]model.Table, len(s.Tables))
	copy(sortedTables, s.Tables)
	sort.SliceStable(sortedTables, func(i, j int) bool {
		return compiler.ModelName(sortedTables[i]) < compiler.ModelName(sortedTables[j])
	})

	for _, table := range sortedTables {
		_, _ = fmt.Fprintf(file, "- **%s**", compiler.ModelName(table))

		// Show outgoing relationships
		var targets []string
		for _, rel := range s.Relations {
			if rel.SourceTableID != table.ID {
				continue
			}
			if target, ok := s.FindTable(rel.TargetTableID); ok {
				targets = append(targets, compiler.ModelName(*target))
			}
		}
		if len(targets) > 0 {
			_, _ = fmt.Fprintf(file, " (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintf(file, "\n")
	}

	return nil
}

// writeTableFile writes the tables of one model name to their own file
func (f *MultiFileFormatter) writeTableFile(name string, tables []model.Table, s model.Snapshot) error {
	fileName, err := modelFileName(name, ".md")
	if err != nil {
		return err
	}
	file, err := os.Create(filepath.Join(f.OutputDir, fileName))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	mdFormatter := NewMarkdownFormatter(file)
	for _, table := range tables {
		mdFormatter.FormatTable(file, table, s)

		// Add incoming relationships
		incomingRels := findIncomingRelations(table.ID, s)
		if len(incomingRels) > 0 {
			_, _ = fmt.Fprintf(file, "### Referenced by\n\n")
			for _, rel := range incomingRels {
				_, _ = fmt.Fprintf(file, "- %s (%s)\n", rel.SourceModel, FormatCardinality(rel.Cardinality))
			}
			_, _ = fmt.Fprintln(file)
		}
	}

	return nil
}

// IncomingRelation represents a relation pointing at a table
type IncomingRelation struct {
	SourceModel string
	TargetModel string
	Cardinality model.Cardinality
}

// findIncomingRelations finds all relations targeting tableID
func findIncomingRelations(tableID string, s model.Snapshot) []IncomingRelation {
	var incoming []IncomingRelation

	for _, rel := range s.Relations {
		if rel.TargetTableID != tableID {
			continue
		}
		source, ok := s.FindTable(rel.SourceTableID)
		if !ok {
			continue
		}
		target, _ := s.FindTable(rel.TargetTableID)
		incoming = append(incoming, IncomingRelation{
			SourceModel: compiler.ModelName(*source),
			TargetModel: compiler.ModelName(*target),
			Cardinality: rel.Cardinality,
		})
	}

	return incoming
}
