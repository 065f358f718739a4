// Package compiler turns a model snapshot into Prisma schema text.
//
// Compilation is pure: the output depends only on the snapshot and the
// datasource provider, the input is never modified, and no state survives
// between calls. Malformed input degrades instead of failing: dangling
// relations are skipped, tables without a primary key get a synthetic
// "id Int" for foreign keys, and unknown type tokens pass through verbatim.
// Everything that was tolerated is reported in Result.Diagnostics.
package compiler

import (
	"fmt"
	"strings"

	"github.com/tordrt/erd2prisma/internal/model"
)

// DefaultProvider is the datasource provider used when none is given
const DefaultProvider = "postgresql"

const headerTemplate = `generator client {
  provider = "prisma-client-js"
}

datasource db {
  provider = "%s"
  url      = env("DATABASE_URL")
}

`

// Options configures a compilation
type Options struct {
	// Provider is the datasource provider, e.g. "postgresql", "mysql" or
	// "sqlite". Empty means DefaultProvider. The value is not checked.
	Provider string
}

// Block is one rendered enum or model declaration
type Block struct {
	Name string
	Text string
}

// Result holds the compiled schema and its parts
type Result struct {
	// Schema is the full schema text
	Schema string
	// Header is the generator and datasource section
	Header string
	// Enums holds one block per registered enum, in registration order
	Enums []Block
	// Models holds one block per table, in table order
	Models []Block
	// Diagnostics lists everything the compiler had to tolerate
	Diagnostics []Diagnostic
}

// Compile renders the schema for the given model parts
func Compile(tables []model.Table, relations []model.Relation, enums []model.Enum, provider string) string {
	s := model.Snapshot{Tables: tables, Relations: relations, Enums: enums}
	return CompileSnapshot(s, Options{Provider: provider}).Schema
}

// CompileSnapshot renders the schema for a snapshot and reports diagnostics
func CompileSnapshot(s model.Snapshot, opts Options) Result {
	provider := opts.Provider
	if provider == "" {
		provider = DefaultProvider
	}

	enumIndex := make(map[string]model.Enum, len(s.Enums))
	for _, e := range s.Enums {
		if _, exists := enumIndex[e.Name]; !exists {
			enumIndex[e.Name] = e
		}
	}

	tables := make(map[string]*model.Table, len(s.Tables))
	byTable := make(map[string]*modelBlock, len(s.Tables))
	blocks := make([]*modelBlock, 0, len(s.Tables))

	for i := range s.Tables {
		table := &s.Tables[i]
		block := &modelBlock{tableID: table.ID, name: ModelName(*table)}
		pk := model.PrimaryKeyIndex(table.Fields)
		for j, f := range table.Fields {
			block.fields = append(block.fields, renderField(f, j == pk, enumIndex))
		}
		blocks = append(blocks, block)

		// Duplicate ids resolve to the first table
		if _, exists := tables[table.ID]; !exists {
			tables[table.ID] = table
			byTable[table.ID] = block
		}
	}

	for _, r := range s.Relations {
		applyRelation(r, tables, byTable)
	}

	result := Result{
		Header:      fmt.Sprintf(headerTemplate, provider),
		Diagnostics: Validate(s),
	}
	for _, e := range s.Enums {
		result.Enums = append(result.Enums, Block{Name: e.Name, Text: renderEnum(e)})
	}
	for _, b := range blocks {
		result.Models = append(result.Models, Block{Name: b.name, Text: renderModel(b)})
		result.Diagnostics = append(result.Diagnostics, fieldCollisions(b)...)
	}
	result.Schema = assemble(result)

	return result
}

func renderEnum(e model.Enum) string {
	var b strings.Builder
	b.WriteString("enum ")
	b.WriteString(e.Name)
	b.WriteString(" {\n")
	for _, v := range e.Values {
		b.WriteString("  ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func renderModel(m *modelBlock) string {
	var b strings.Builder
	b.WriteString("model ")
	b.WriteString(m.name)
	b.WriteString(" {\n")
	for _, line := range m.fields {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, line := range m.relationFields {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func assemble(r Result) string {
	var b strings.Builder
	b.WriteString(r.Header)

	for i, e := range r.Enums {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(e.Text)
	}
	if len(r.Enums) > 0 && len(r.Models) > 0 {
		b.WriteString("\n")
	}

	for i, m := range r.Models {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.Text)
	}

	return b.String()
}
