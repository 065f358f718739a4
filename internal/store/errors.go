package store

import "errors"

// Sentinel errors returned by Store mutations
var (
	ErrTableNotFound      = errors.New("table not found")
	ErrFieldNotFound      = errors.New("field not found")
	ErrRelationNotFound   = errors.New("relation not found")
	ErrEnumNotFound       = errors.New("enum not found")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidEnum        = errors.New("enum needs a name and at least one value")
	ErrDuplicateEnum      = errors.New("enum already exists")
	ErrSelfRelation       = errors.New("a table cannot relate to itself")
	ErrDuplicateRelation  = errors.New("relation already exists")
	ErrInvalidCardinality = errors.New("invalid cardinality")
	ErrUnknownType        = errors.New("unknown field type")
	ErrStrategyRequiresPK = errors.New("primary key strategy type on a non primary key field")
)
