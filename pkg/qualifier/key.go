package qualifier

import (
	as "github.com/aerospike/aerospike-client-go/v7"
)

// KeyField is the reserved metadata field name addressing the record's
// primary key instead of a bin.
const KeyField = "__key"

// NewKeyQualifier builds an equality qualifier on the record's primary key.
// A query supplying exactly one key qualifier is served by a direct key
// lookup instead of a secondary-index query.
func NewKeyQualifier(value as.Value) (*Qualifier, error) {
	return New(KeyField, EQ, value)
}

// IsKeyQualifier reports whether q is a primary-key equality qualifier.
func IsKeyQualifier(q *Qualifier) bool {
	return q != nil && q.operation == EQ && q.field == KeyField
}

// MakeKey builds the primary key addressed by a key qualifier within the
// given namespace and set.
func (q *Qualifier) MakeKey(namespace, set string) (*as.Key, as.Error) {
	return as.NewKey(namespace, set, q.value1)
}
