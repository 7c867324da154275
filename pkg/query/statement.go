package query

import (
	as "github.com/aerospike/aerospike-client-go/v7"

	"github.com/jnopnop/spring-data-aerospike/pkg/index"
	"github.com/jnopnop/spring-data-aerospike/pkg/qualifier"
)

// BuildStatement assembles the query statement for a namespace and set. A
// caller-supplied filter takes precedence; otherwise the first qualifier
// with a native index representation provides the filter. A statement may
// end up with no filter at all, in which case the engine's scan guard
// decides whether the query may proceed.
func BuildStatement(namespace, set string, filter *as.Filter, qualifiers []*qualifier.Qualifier) *as.Statement {
	stmt := as.NewStatement(namespace, set)
	if filter != nil {
		stmt.Filter = filter
	} else {
		stmt.Filter = index.SelectFirst(qualifiers)
	}
	return stmt
}
