package expr

import (
	as "github.com/aerospike/aerospike-client-go/v7"

	"github.com/jnopnop/spring-data-aerospike/pkg/qualifier"
)

// CompileSet combines the filter expressions of the given top-level
// qualifiers. Qualifiers marked filter-only are skipped: the index filter
// already enforces them. With no relevant qualifiers the result is nil; a
// single one compiles as is; more than one combine with AND, the fixed
// default across top-level qualifiers.
func CompileSet(qualifiers []*qualifier.Qualifier) (*as.Expression, error) {
	relevant := make([]*qualifier.Qualifier, 0, len(qualifiers))
	for _, q := range qualifiers {
		if q != nil && !q.FilterOnly() {
			relevant = append(relevant, q)
		}
	}

	switch len(relevant) {
	case 0:
		return nil, nil
	case 1:
		return Compile(relevant[0])
	}

	exps := make([]*as.Expression, len(relevant))
	for i, q := range relevant {
		exp, err := Compile(q)
		if err != nil {
			return nil, err
		}
		exps[i] = exp
	}
	return as.ExpAnd(exps...), nil
}
