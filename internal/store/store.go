// Package store holds the editable ERD model and enforces the invariants
// the editor guarantees: one primary key per table that is always unique
// and non-null, strategy types only on primary keys, no self relations,
// sanitized enums, and relations that never outlive their tables.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tordrt/erd2prisma/internal/model"
)

// DefaultTableName is used when a table is added without a name
const DefaultTableName = "Table"

// primaryKeyType is the type a field switches to when it becomes the key
const primaryKeyType = "Int_autoinc"

// IDGenerator produces identifiers for new tables and relations
type IDGenerator func() string

// Option configures a Store
type Option func(*Store)

// WithIDGenerator replaces the uuid based id generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// WithDocument seeds the store with an existing document
func WithDocument(doc model.Document) Option {
	return func(s *Store) {
		s.doc = normalizeDocument(doc)
	}
}

// Store is a concurrency safe in-memory ERD model
type Store struct {
	mu        sync.RWMutex
	doc       model.Document
	newID     IDGenerator
	observers []func(model.Document)

	// notifyMu keeps observer calls in mutation order
	notifyMu sync.Mutex
}

// FieldPatch is a partial field update. Nil members are left unchanged.
type FieldPatch struct {
	Name     *string `json:"name,omitempty"`
	Type     *string `json:"type,omitempty"`
	PK       *bool   `json:"pk,omitempty"`
	Unique   *bool   `json:"unique,omitempty"`
	Nullable *bool   `json:"nullable,omitempty"`
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		doc:   model.EmptyDocument(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultFields returns the fields of a freshly added table
func DefaultFields() []model.Field {
	return []model.Field{
		{Name: "UniqueID", Type: primaryKeyType, PK: true, Unique: true},
	}
}

// OnChange registers fn to be called with a copy of the document after
// every successful mutation. Calls arrive in mutation order; fn must not
// mutate the store.
func (s *Store) OnChange(fn func(model.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a deep copy of the current model
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Snapshot.Clone()
}

// Document returns a deep copy of the model and its canvas layout
func (s *Store) Document() model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Replace swaps the whole document
func (s *Store) Replace(doc model.Document) {
	_ = s.mutate(func(d *model.Document) error {
		*d = normalizeDocument(doc)
		return nil
	})
}

// Reset clears the canvas
func (s *Store) Reset() {
	_ = s.mutate(func(d *model.Document) error {
		*d = model.EmptyDocument()
		return nil
	})
}

// SetViewport records the canvas pan and zoom
func (s *Store) SetViewport(v model.Viewport) {
	_ = s.mutate(func(d *model.Document) error {
		d.Viewport = v
		return nil
	})
}

// AddTable appends a table. An empty name becomes DefaultTableName and a
// nil field list becomes DefaultFields.
func (s *Store) AddTable(name string, fields []model.Field, pos model.Position) (model.Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTableName
	}
	if fields == nil {
		fields = DefaultFields()
	}

	var added model.Table
	err := s.mutate(func(d *model.Document) error {
		normalized, err := normalizeFields(fields, d.Enums)
		if err != nil {
			return err
		}
		added = model.Table{
			ID:       s.newID(),
			Name:     name,
			Fields:   normalized,
			Position: pos,
			Expanded: true,
		}
		d.Tables = append(d.Tables, added)
		return nil
	})
	if err != nil {
		return model.Table{}, err
	}
	added.Fields = append([]model.Field(nil), added.Fields...)
	return added, nil
}

// RenameTable sets a table's display name
func (s *Store) RenameTable(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("table name cannot be empty: %w", ErrInvalidName)
	}
	return s.withTable(id, func(_ *model.Document, t *model.Table) error {
		t.Name = name
		return nil
	})
}

// DeleteTable removes a table and every relation touching it
func (s *Store) DeleteTable(id string) error {
	return s.mutate(func(d *model.Document) error {
		idx := tableIndex(d, id)
		if idx < 0 {
			return fmt.Errorf("table %s: %w", id, ErrTableNotFound)
		}
		d.Tables = append(d.Tables[:idx], d.Tables[idx+1:]...)

		kept := d.Relations[:0]
		for _, r := range d.Relations {
			if r.SourceTableID != id && r.TargetTableID != id {
				kept = append(kept, r)
			}
		}
		d.Relations = kept
		return nil
	})
}

// MoveTable sets a table's canvas position
func (s *Store) MoveTable(id string, pos model.Position) error {
	return s.withTable(id, func(_ *model.Document, t *model.Table) error {
		t.Position = pos
		return nil
	})
}

// ToggleTable flips a table between its expanded and collapsed view
func (s *Store) ToggleTable(id string) error {
	return s.withTable(id, func(_ *model.Document, t *model.Table) error {
		t.Expanded = !t.Expanded
		return nil
	})
}

// AddField appends a field to a table and returns its index. A zero
// field gets DefaultFieldType.
func (s *Store) AddField(tableID string, f model.Field) (int, error) {
	index := -1
	err := s.withTable(tableID, func(d *model.Document, t *model.Table) error {
		if f.Type == "" {
			f.Type = model.DefaultFieldType
		}
		if err := checkType(f, d.Enums); err != nil {
			return err
		}
		if f.PK {
			clearPrimaryKeys(t.Fields)
		}
		t.Fields = append(t.Fields, model.NormalizeField(f))
		index = len(t.Fields) - 1
		return nil
	})
	return index, err
}

// UpdateField applies a partial update to the field at index.
//
// Marking a field as primary key demotes any other primary key in the
// table, switches the field to Int_autoinc unless the patch names a type,
// and forces it unique and non-null. Unmarking it drops a strategy type
// back to its base type.
func (s *Store) UpdateField(tableID string, index int, patch FieldPatch) error {
	return s.withTable(tableID, func(d *model.Document, t *model.Table) error {
		if index < 0 || index >= len(t.Fields) {
			return fmt.Errorf("field %d of table %s: %w", index, tableID, ErrFieldNotFound)
		}
		f := t.Fields[index]

		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.PK != nil && *patch.PK != f.PK {
			f.PK = *patch.PK
			if f.PK && patch.Type == nil {
				f.Type = primaryKeyType
			}
			if !f.PK {
				f.Type = baseType(f.Type)
			}
		}
		if patch.Type != nil {
			f.Type = *patch.Type
			if f.Type == "" {
				f.Type = model.DefaultFieldType
			}
		}
		if patch.Unique != nil {
			f.Unique = *patch.Unique
		}
		if patch.Nullable != nil {
			f.Nullable = *patch.Nullable
		}

		if err := checkType(f, d.Enums); err != nil {
			return err
		}
		if f.PK {
			clearPrimaryKeys(t.Fields)
		}
		t.Fields[index] = model.NormalizeField(f)
		return nil
	})
}

// DeleteField removes the field at index
func (s *Store) DeleteField(tableID string, index int) error {
	return s.withTable(tableID, func(_ *model.Document, t *model.Table) error {
		if index < 0 || index >= len(t.Fields) {
			return fmt.Errorf("field %d of table %s: %w", index, tableID, ErrFieldNotFound)
		}
		t.Fields = append(t.Fields[:index], t.Fields[index+1:]...)
		return nil
	})
}

// Connect adds a relation from source to target. An empty cardinality
// means one-to-many.
func (s *Store) Connect(sourceID, targetID string, c model.Cardinality) (model.Relation, error) {
	card, err := parseCardinality(c)
	if err != nil {
		return model.Relation{}, err
	}

	var added model.Relation
	err = s.mutate(func(d *model.Document) error {
		if err := checkEndpoints(d, "", sourceID, targetID); err != nil {
			return err
		}
		added = model.Relation{
			ID:            s.newID(),
			SourceTableID: sourceID,
			TargetTableID: targetID,
			Cardinality:   card,
		}
		d.Relations = append(d.Relations, added)
		return nil
	})
	if err != nil {
		return model.Relation{}, err
	}
	return added, nil
}

// Reconnect moves an existing relation to new endpoints
func (s *Store) Reconnect(relationID, sourceID, targetID string) error {
	return s.withRelation(relationID, func(d *model.Document, r *model.Relation) error {
		if err := checkEndpoints(d, relationID, sourceID, targetID); err != nil {
			return err
		}
		r.SourceTableID = sourceID
		r.TargetTableID = targetID
		return nil
	})
}

// SetCardinality changes a relation's cardinality
func (s *Store) SetCardinality(relationID string, c model.Cardinality) error {
	card, err := parseCardinality(c)
	if err != nil {
		return err
	}
	return s.withRelation(relationID, func(_ *model.Document, r *model.Relation) error {
		r.Cardinality = card
		return nil
	})
}

// DeleteRelation removes a relation
func (s *Store) DeleteRelation(id string) error {
	return s.mutate(func(d *model.Document) error {
		for i := range d.Relations {
			if d.Relations[i].ID == id {
				d.Relations = append(d.Relations[:i], d.Relations[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("relation %s: %w", id, ErrRelationNotFound)
	})
}

// AddEnum registers an enum. The name and values are sanitized and the
// values deduplicated before they are stored.
func (s *Store) AddEnum(name string, values []string) (model.Enum, error) {
	e, err := buildEnum(name, values)
	if err != nil {
		return model.Enum{}, err
	}

	err = s.mutate(func(d *model.Document) error {
		if _, exists := d.FindEnum(e.Name); exists {
			return fmt.Errorf("enum %s: %w", e.Name, ErrDuplicateEnum)
		}
		d.Enums = append(d.Enums, e)
		return nil
	})
	if err != nil {
		return model.Enum{}, err
	}
	e.Values = append([]string(nil), e.Values...)
	return e, nil
}

// UpdateEnum replaces the values of an existing enum
func (s *Store) UpdateEnum(name string, values []string) (model.Enum, error) {
	normalized := model.NormalizeEnumValues(values)
	if len(normalized) == 0 {
		return model.Enum{}, fmt.Errorf("enum %s: %w", name, ErrInvalidEnum)
	}

	var updated model.Enum
	err := s.mutate(func(d *model.Document) error {
		e, ok := d.FindEnum(name)
		if !ok {
			return fmt.Errorf("enum %s: %w", name, ErrEnumNotFound)
		}
		e.Values = normalized
		updated = model.Enum{Name: e.Name, Values: append([]string(nil), normalized...)}
		return nil
	})
	return updated, err
}

// DeleteEnum removes an enum and reverts every field typed with it to
// DefaultFieldType.
func (s *Store) DeleteEnum(name string) error {
	return s.mutate(func(d *model.Document) error {
		idx := -1
		for i := range d.Enums {
			if d.Enums[i].Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("enum %s: %w", name, ErrEnumNotFound)
		}
		d.Enums = append(d.Enums[:idx], d.Enums[idx+1:]...)

		for i := range d.Tables {
			for j := range d.Tables[i].Fields {
				if d.Tables[i].Fields[j].Type == name {
					d.Tables[i].Fields[j].Type = model.DefaultFieldType
				}
			}
		}
		return nil
	})
}

// mutate runs fn under the write lock and notifies observers on success
func (s *Store) mutate(fn func(*model.Document) error) error {
	s.mu.Lock()
	work := s.doc.Clone()
	if err := fn(&work); err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = work
	doc := s.doc.Clone()
	observers := append(([]func(model.Document))(nil), s.observers...)
	s.notifyMu.Lock()
	s.mu.Unlock()

	defer s.notifyMu.Unlock()
	for _, notify := range observers {
		notify(doc)
	}
	return nil
}

func (s *Store) withTable(id string, fn func(*model.Document, *model.Table) error) error {
	return s.mutate(func(d *model.Document) error {
		t, ok := d.FindTable(id)
		if !ok {
			return fmt.Errorf("table %s: %w", id, ErrTableNotFound)
		}
		return fn(d, t)
	})
}

func (s *Store) withRelation(id string, fn func(*model.Document, *model.Relation) error) error {
	return s.mutate(func(d *model.Document) error {
		for i := range d.Relations {
			if d.Relations[i].ID == id {
				return fn(d, &d.Relations[i])
			}
		}
		return fmt.Errorf("relation %s: %w", id, ErrRelationNotFound)
	})
}

func tableIndex(d *model.Document, id string) int {
	for i := range d.Tables {
		if d.Tables[i].ID == id {
			return i
		}
	}
	return -1
}

// checkEndpoints validates a new or moved relation. skipID excludes the
// relation being moved from the duplicate check.
func checkEndpoints(d *model.Document, skipID, sourceID, targetID string) error {
	if sourceID == targetID {
		return fmt.Errorf("table %s: %w", sourceID, ErrSelfRelation)
	}
	if _, ok := d.FindTable(sourceID); !ok {
		return fmt.Errorf("source table %s: %w", sourceID, ErrTableNotFound)
	}
	if _, ok := d.FindTable(targetID); !ok {
		return fmt.Errorf("target table %s: %w", targetID, ErrTableNotFound)
	}
	for _, r := range d.Relations {
		if r.ID != skipID && r.SourceTableID == sourceID && r.TargetTableID == targetID {
			return fmt.Errorf("%s -> %s: %w", sourceID, targetID, ErrDuplicateRelation)
		}
	}
	return nil
}

func parseCardinality(c model.Cardinality) (model.Cardinality, error) {
	if c == "" {
		return model.DefaultCardinality, nil
	}
	card, err := model.ParseCardinality(string(c))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCardinality, err)
	}
	return card, nil
}

func buildEnum(name string, values []string) (model.Enum, error) {
	safe := model.SanitizeIdentifier(name)
	normalized := model.NormalizeEnumValues(values)
	if safe == "" || len(normalized) == 0 {
		return model.Enum{}, ErrInvalidEnum
	}
	if ref := model.ParseType(safe); !ref.IsNamed() {
		return model.Enum{}, fmt.Errorf("%s is a built-in type: %w", safe, ErrInvalidName)
	}
	return model.Enum{Name: safe, Values: normalized}, nil
}

// checkType accepts primitives, registered enums, and strategy types on a
// primary key.
func checkType(f model.Field, enums []model.Enum) error {
	ref := model.ParseType(f.Type)
	if ref.IsStrategy() && !f.PK {
		return fmt.Errorf("field %s: %w", f.Name, ErrStrategyRequiresPK)
	}
	if ref.IsNamed() {
		for _, e := range enums {
			if e.Name == ref.Name {
				return nil
			}
		}
		return fmt.Errorf("field %s type %q: %w", f.Name, f.Type, ErrUnknownType)
	}
	return nil
}

// clearPrimaryKeys demotes every primary key in fields
func clearPrimaryKeys(fields []model.Field) {
	for i := range fields {
		if fields[i].PK {
			fields[i].PK = false
			fields[i].Type = baseType(fields[i].Type)
		}
	}
}

// baseType drops a primary key strategy from a type token
func baseType(token string) string {
	ref := model.ParseType(token)
	if ref.IsStrategy() {
		return ref.Base()
	}
	return token
}

// normalizeFields validates a new table's fields. Only the first primary
// key survives.
func normalizeFields(fields []model.Field, enums []model.Enum) ([]model.Field, error) {
	out := make([]model.Field, 0, len(fields))
	seenPK := false
	for _, f := range fields {
		if f.Type == "" {
			f.Type = model.DefaultFieldType
		}
		if f.PK && seenPK {
			f.PK = false
			f.Type = baseType(f.Type)
		}
		if err := checkType(f, enums); err != nil {
			return nil, err
		}
		seenPK = seenPK || f.PK
		out = append(out, model.NormalizeField(f))
	}
	return out, nil
}

// normalizeDocument copies doc and fills nil collections so the document
// always serializes with empty lists.
func normalizeDocument(doc model.Document) model.Document {
	out := doc.Clone()
	for i := range out.Tables {
		if out.Tables[i].Fields == nil {
			out.Tables[i].Fields = []model.Field{}
		}
	}
	if out.Viewport.Zoom == 0 {
		out.Viewport.Zoom = 1
	}
	return out
}
