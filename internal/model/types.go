package model

// Snapshot is the immutable input of one schema compilation
type Snapshot struct {
	Tables    []Table    `json:"tables" yaml:"tables"`
	Relations []Relation `json:"relations" yaml:"relations"`
	Enums     []Enum     `json:"enums" yaml:"enums"`
}

// Document is the persisted editor state: the model plus canvas layout
type Document struct {
	Snapshot `yaml:",inline"`
	Viewport Viewport `json:"viewport" yaml:"viewport"`
}

// Table represents a modeled entity placed on the canvas
type Table struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Fields   []Field  `json:"fields" yaml:"fields"`
	Position Position `json:"position" yaml:"position,omitempty"`
	Expanded bool     `json:"expanded" yaml:"expanded,omitempty"`
}

// Field represents a table column
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	PK       bool   `json:"pk" yaml:"pk,omitempty"`
	Unique   bool   `json:"unique" yaml:"unique,omitempty"`
	Nullable bool   `json:"nullable" yaml:"nullable,omitempty"`
}

// Relation is a directed edge between two tables. The source side owns
// the primary key the generated foreign key points at.
type Relation struct {
	ID            string      `json:"id" yaml:"id"`
	SourceTableID string      `json:"source" yaml:"source"`
	TargetTableID string      `json:"target" yaml:"target"`
	Cardinality   Cardinality `json:"relationType" yaml:"relationType"`
}

// Enum is a named closed set of values usable as a field type
type Enum struct {
	Name   string   `json:"name" yaml:"name"`
	Values []string `json:"values" yaml:"values"`
}

// Position is a table's location on the canvas
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Viewport is the canvas pan and zoom
type Viewport struct {
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
	Zoom float64 `json:"zoom" yaml:"zoom"`
}

// EmptyDocument returns the state of a fresh canvas
func EmptyDocument() Document {
	return Document{
		Snapshot: Snapshot{
			Tables:    []Table{},
			Relations: []Relation{},
			Enums:     []Enum{},
		},
		Viewport: Viewport{Zoom: 1},
	}
}

// FindTable returns the first table with the given id
func (s *Snapshot) FindTable(id string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].ID == id {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// FindEnum returns the first enum registered under name
func (s *Snapshot) FindEnum(name string) (*Enum, bool) {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Tables:    make([]Table, len(s.Tables)),
		Relations: make([]Relation, len(s.Relations)),
		Enums:     make([]Enum, len(s.Enums)),
	}
	for i, t := range s.Tables {
		fields := make([]Field, len(t.Fields))
		copy(fields, t.Fields)
		t.Fields = fields
		out.Tables[i] = t
	}
	copy(out.Relations, s.Relations)
	for i, e := range s.Enums {
		values := make([]string, len(e.Values))
		copy(values, e.Values)
		e.Values = values
		out.Enums[i] = e
	}
	return out
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	return Document{Snapshot: d.Snapshot.Clone(), Viewport: d.Viewport}
}
