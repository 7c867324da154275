// Package index compiles leaf qualifiers into native secondary-index
// filters. A secondary-index filter narrows the physical rows the server
// scans; qualifiers with no native representation compile to nil and are
// enforced through the filter expression instead.
package index

import (
	"math"

	as "github.com/aerospike/aerospike-client-go/v7"

	"github.com/jnopnop/spring-data-aerospike/pkg/qualifier"
)

// Compile maps a leaf qualifier to a secondary-index filter. It returns nil
// when the qualifier has no native index representation; that is a normal
// outcome, not an error. Composites always return nil since index filters
// cover a single bin.
func Compile(q *qualifier.Qualifier) *as.Filter {
	if q == nil || q.Operation().IsComposite() {
		return nil
	}

	switch q.Operation() {
	case qualifier.EQ:
		if n, ok := qualifier.IntOf(q.Value1()); ok {
			return as.NewEqualFilter(q.Field(), n)
		}
		// There is no case insensitive string comparison filter.
		if q.IgnoreCase() {
			return nil
		}
		s, ok := qualifier.StringOf(q.Value1())
		if !ok {
			return nil
		}
		return as.NewEqualFilter(q.Field(), s)
	case qualifier.GTEQ, qualifier.BETWEEN:
		return rangeFilter(q, 0)
	case qualifier.GT:
		// Range filters are inclusive, so shift the exclusive lower bound up.
		return rangeFilter(q, 1)
	case qualifier.LT:
		if n, ok := qualifier.IntOf(q.Value1()); ok {
			return as.NewRangeFilter(q.Field(), math.MinInt64, n-1)
		}
	case qualifier.LTEQ:
		if n, ok := qualifier.IntOf(q.Value1()); ok {
			return as.NewRangeFilter(q.Field(), math.MinInt64, n)
		}
	case qualifier.LIST_CONTAINS:
		return containsFilter(q, as.ICT_LIST)
	case qualifier.MAP_KEYS_CONTAINS:
		return containsFilter(q, as.ICT_MAPKEYS)
	case qualifier.MAP_VALUES_CONTAINS:
		return containsFilter(q, as.ICT_MAPVALUES)
	case qualifier.LIST_BETWEEN:
		return containsRangeFilter(q, as.ICT_LIST)
	case qualifier.MAP_KEYS_BETWEEN:
		return containsRangeFilter(q, as.ICT_MAPKEYS)
	case qualifier.MAP_VALUES_BETWEEN:
		return containsRangeFilter(q, as.ICT_MAPVALUES)
	case qualifier.GEO_WITHIN:
		if region, ok := qualifier.StringOf(q.Value1()); ok {
			return as.NewGeoWithinRegionFilter(q.Field(), region)
		}
	}
	return nil
}

// SelectFirst returns the index filter of the first representable qualifier,
// or nil when none of them compiles. No attempt is made to pick the most
// selective candidate.
func SelectFirst(qualifiers []*qualifier.Qualifier) *as.Filter {
	for _, q := range qualifiers {
		if f := Compile(q); f != nil {
			return f
		}
	}
	return nil
}

func rangeFilter(q *qualifier.Qualifier, lowerShift int64) *as.Filter {
	begin, ok := qualifier.IntOf(q.Value1())
	if !ok {
		return nil
	}
	end := int64(math.MaxInt64)
	if q.Value2() != nil {
		if n, ok := qualifier.IntOf(q.Value2()); ok {
			end = n
		} else {
			return nil
		}
	}
	return as.NewRangeFilter(q.Field(), begin+lowerShift, end)
}

func containsFilter(q *qualifier.Qualifier, collectionType as.IndexCollectionType) *as.Filter {
	if n, ok := qualifier.IntOf(q.Value1()); ok {
		return as.NewContainsFilter(q.Field(), collectionType, n)
	}
	if s, ok := qualifier.StringOf(q.Value1()); ok {
		return as.NewContainsFilter(q.Field(), collectionType, s)
	}
	return nil
}

func containsRangeFilter(q *qualifier.Qualifier, collectionType as.IndexCollectionType) *as.Filter {
	begin, ok := qualifier.IntOf(q.Value1())
	if !ok {
		return nil
	}
	end, ok := qualifier.IntOf(q.Value2())
	if !ok {
		return nil
	}
	return as.NewContainsRangeFilter(q.Field(), collectionType, begin, end)
}
