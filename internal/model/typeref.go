package model

// Scalar is a primitive storage type of the target schema language
type Scalar string

const (
	ScalarString   Scalar = "String"
	ScalarInt      Scalar = "Int"
	ScalarFloat    Scalar = "Float"
	ScalarBoolean  Scalar = "Boolean"
	ScalarDateTime Scalar = "DateTime"
	ScalarJSON     Scalar = "Json"
	ScalarBytes    Scalar = "Bytes"
)

// Strategy is how a primary key value is generated
type Strategy string

const (
	StrategyNone          Strategy = ""
	StrategyAutoincrement Strategy = "autoincrement"
	StrategyCUID          Strategy = "cuid"
	StrategyUUID          Strategy = "uuid"
)

// DefaultFieldType is the type a field falls back to when its enum is removed
const DefaultFieldType = "String"

// TypeRef is a parsed field type token. Exactly one shape applies:
// a primitive (Scalar set), a PK strategy (Scalar and Strategy set),
// or a named type such as an enum (Name set).
type TypeRef struct {
	Scalar   Scalar
	Strategy Strategy
	Name     string
}

// typeTokens maps editor type tokens to their parsed form
var typeTokens = map[string]TypeRef{
	"String":      {Scalar: ScalarString},
	"Int":         {Scalar: ScalarInt},
	"Float":       {Scalar: ScalarFloat},
	"Boolean":     {Scalar: ScalarBoolean},
	"DateTime":    {Scalar: ScalarDateTime},
	"Json":        {Scalar: ScalarJSON},
	"Bytes":       {Scalar: ScalarBytes},
	"Int_autoinc": {Scalar: ScalarInt, Strategy: StrategyAutoincrement},
	"String_cuid": {Scalar: ScalarString, Strategy: StrategyCUID},
	"String_uuid": {Scalar: ScalarString, Strategy: StrategyUUID},
}

// PrimitiveTokens lists the plain scalar tokens in editor order
var PrimitiveTokens = []string{"String", "Int", "Float", "Boolean", "DateTime", "Json", "Bytes"}

// StrategyTokens lists the PK strategy tokens in editor order
var StrategyTokens = []string{"Int_autoinc", "String_cuid", "String_uuid"}

// ParseType parses a type token. Tokens outside the fixed table are
// kept verbatim as named types.
func ParseType(token string) TypeRef {
	if ref, ok := typeTokens[token]; ok {
		return ref
	}
	return TypeRef{Name: token}
}

// IsStrategy reports whether the type carries a PK generation strategy
func (t TypeRef) IsStrategy() bool {
	return t.Strategy != StrategyNone
}

// IsNamed reports whether the type is an enum or unknown name
func (t TypeRef) IsNamed() bool {
	return t.Scalar == ""
}

// Base returns the schema type name used in field declarations
func (t TypeRef) Base() string {
	if t.IsNamed() {
		return t.Name
	}
	return string(t.Scalar)
}

// Token returns the editor token for the type
func (t TypeRef) Token() string {
	if t.IsNamed() {
		return t.Name
	}
	for token, ref := range typeTokens {
		if ref == t {
			return token
		}
	}
	return string(t.Scalar)
}

// IsStrategyToken reports whether token names a PK strategy type
func IsStrategyToken(token string) bool {
	return ParseType(token).IsStrategy()
}
