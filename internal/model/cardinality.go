package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Cardinality describes how many rows on each side of a relation match
type Cardinality string

const (
	OneToOne   Cardinality = "one-to-one"
	OneToMany  Cardinality = "one-to-many"
	ManyToMany Cardinality = "many-to-many"
)

// DefaultCardinality is the cardinality of a freshly drawn edge
const DefaultCardinality = OneToMany

// ParseCardinality accepts the wire names plus the 1:1, 1:N and N:N labels
func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-to-one", "onetoone", "1:1":
		return OneToOne, nil
	case "one-to-many", "onetomany", "1:n":
		return OneToMany, nil
	case "many-to-many", "manytomany", "n:n", "n:m":
		return ManyToMany, nil
	default:
		return "", fmt.Errorf("unknown cardinality %q", s)
	}
}

// Resolve maps an empty cardinality to DefaultCardinality. ok is false
// for a non-empty value ParseCardinality rejects.
func (c Cardinality) Resolve() (resolved Cardinality, ok bool) {
	if strings.TrimSpace(string(c)) == "" {
		return DefaultCardinality, true
	}
	parsed, err := ParseCardinality(string(c))
	if err != nil {
		return "", false
	}
	return parsed, true
}

// OrDefault maps empty or unrecognized values to DefaultCardinality
func (c Cardinality) OrDefault() Cardinality {
	parsed, err := ParseCardinality(string(c))
	if err != nil {
		return DefaultCardinality
	}
	return parsed
}

// Label returns the short form shown on the edge
func (c Cardinality) Label() string {
	switch c.OrDefault() {
	case OneToOne:
		return "1:1"
	case ManyToMany:
		return "N:N"
	default:
		return "1:N"
	}
}

// UnmarshalJSON tolerates any spelling ParseCardinality accepts and keeps
// unknown strings for the compiler to default.
func (c *Cardinality) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = normalizeCardinality(s)
	return nil
}

// UnmarshalYAML applies the same normalization to model files
func (c *Cardinality) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*c = normalizeCardinality(s)
	return nil
}

func normalizeCardinality(s string) Cardinality {
	if parsed, err := ParseCardinality(s); err == nil {
		return parsed
	}
	return Cardinality(s)
}
