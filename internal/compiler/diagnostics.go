package compiler

import (
	"fmt"
	"strings"

	"github.com/tordrt/erd2prisma/internal/model"
)

// Code identifies a kind of tolerated input problem
type Code string

const (
	CodeDanglingRelation    Code = "dangling-relation"
	CodeSelfRelation        Code = "self-relation"
	CodeMissingPrimaryKey   Code = "missing-primary-key"
	CodeMultiplePrimaryKeys Code = "multiple-primary-keys"
	CodeNullablePrimaryKey  Code = "nullable-primary-key"
	CodeStrategyWithoutPK   Code = "strategy-without-primary-key"
	CodeUnknownType         Code = "unknown-type"
	CodeDuplicateModel      Code = "duplicate-model"
	CodeDuplicateTableID    Code = "duplicate-table-id"
	CodeDuplicateEnum       Code = "duplicate-enum"
	CodeEmptyEnum           Code = "empty-enum"
	CodeDuplicateField      Code = "duplicate-field"
	CodeUnknownCardinality  Code = "unknown-cardinality"
)

// Diagnostic describes one problem the compiler worked around
type Diagnostic struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	TableID    string `json:"tableId,omitempty"`
	RelationID string `json:"relationId,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Validate checks the invariants the editor is expected to maintain and
// reports every violation. It never changes the snapshot.
func Validate(s model.Snapshot) []Diagnostic {
	var diags []Diagnostic

	enums := make(map[string]bool, len(s.Enums))
	for _, e := range s.Enums {
		if enums[e.Name] {
			diags = append(diags, Diagnostic{
				Code:    CodeDuplicateEnum,
				Message: fmt.Sprintf("enum %s is registered more than once; the first registration is used for defaults", e.Name),
			})
		}
		enums[e.Name] = true
		if len(e.Values) == 0 {
			diags = append(diags, Diagnostic{
				Code:    CodeEmptyEnum,
				Message: fmt.Sprintf("enum %s has no values", e.Name),
			})
		}
	}

	ids := make(map[string]bool, len(s.Tables))
	models := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if ids[t.ID] {
			diags = append(diags, Diagnostic{
				Code:    CodeDuplicateTableID,
				Message: fmt.Sprintf("table id %s is used more than once; relations resolve to the first", t.ID),
				TableID: t.ID,
			})
		}
		ids[t.ID] = true

		name := ModelName(t)
		if models[name] {
			diags = append(diags, Diagnostic{
				Code:    CodeDuplicateModel,
				Message: fmt.Sprintf("model %s is declared more than once", name),
				TableID: t.ID,
			})
		}
		models[name] = true

		diags = append(diags, validateFields(t, enums)...)
	}

	for _, r := range s.Relations {
		diags = append(diags, validateRelation(s, r)...)
	}

	return diags
}

func validateFields(t model.Table, enums map[string]bool) []Diagnostic {
	var diags []Diagnostic
	name := ModelName(t)

	pk := model.PrimaryKeyIndex(t.Fields)
	for i, f := range t.Fields {
		ref := model.ParseType(f.Type)

		if f.PK && i != pk {
			diags = append(diags, Diagnostic{
				Code:    CodeMultiplePrimaryKeys,
				Message: fmt.Sprintf("%s.%s is marked as primary key but %s.%s comes first; it is rendered as a plain field", name, f.Name, name, t.Fields[pk].Name),
				TableID: t.ID,
			})
		}
		if i == pk && f.Nullable {
			diags = append(diags, Diagnostic{
				Code:    CodeNullablePrimaryKey,
				Message: fmt.Sprintf("primary key %s.%s is marked nullable; it is rendered as required", name, f.Name),
				TableID: t.ID,
			})
		}
		if ref.IsStrategy() && i != pk {
			diags = append(diags, Diagnostic{
				Code:    CodeStrategyWithoutPK,
				Message: fmt.Sprintf("%s.%s uses %s without being the primary key; no default is generated", name, f.Name, f.Type),
				TableID: t.ID,
			})
		}
		if ref.IsNamed() && !enums[ref.Name] {
			diags = append(diags, Diagnostic{
				Code:    CodeUnknownType,
				Message: fmt.Sprintf("%s.%s has unknown type %q; it is emitted verbatim", name, f.Name, f.Type),
				TableID: t.ID,
			})
		}
	}

	return diags
}

func validateRelation(s model.Snapshot, r model.Relation) []Diagnostic {
	var diags []Diagnostic

	src, srcOK := s.FindTable(r.SourceTableID)
	_, tgtOK := s.FindTable(r.TargetTableID)
	if !srcOK || !tgtOK {
		return append(diags, Diagnostic{
			Code:       CodeDanglingRelation,
			Message:    fmt.Sprintf("relation %s -> %s references a missing table and is skipped", r.SourceTableID, r.TargetTableID),
			RelationID: r.ID,
		})
	}

	if r.SourceTableID == r.TargetTableID {
		diags = append(diags, Diagnostic{
			Code:       CodeSelfRelation,
			Message:    fmt.Sprintf("relation %s connects table %s to itself", r.ID, ModelName(*src)),
			RelationID: r.ID,
		})
	}

	cardinality, ok := r.Cardinality.Resolve()
	if !ok {
		return append(diags, Diagnostic{
			Code:       CodeUnknownCardinality,
			Message:    fmt.Sprintf("relation %s has unknown cardinality %q and is skipped", r.ID, r.Cardinality),
			RelationID: r.ID,
		})
	}

	if cardinality != model.ManyToMany && model.PrimaryKeyIndex(src.Fields) < 0 {
		diags = append(diags, Diagnostic{
			Code:       CodeMissingPrimaryKey,
			Message:    fmt.Sprintf("%s has no primary key; foreign keys reference a synthetic id Int", ModelName(*src)),
			TableID:    src.ID,
			RelationID: r.ID,
		})
	}

	return diags
}

// fieldCollisions reports generated models that declare a field name twice
func fieldCollisions(b *modelBlock) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[string]bool)

	lines := append(append([]string(nil), b.fields...), b.relationFields...)
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name := parts[0]
		if seen[name] {
			diags = append(diags, Diagnostic{
				Code:    CodeDuplicateField,
				Message: fmt.Sprintf("model %s declares field %s more than once", b.name, name),
				TableID: b.tableID,
			})
		}
		seen[name] = true
	}

	return diags
}
