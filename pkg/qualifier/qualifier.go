// Package qualifier defines the bin qualifier model: a leaf comparison on a
// single bin, or an AND/OR composite over child qualifiers. Qualifiers are
// built once per query, immutable afterwards, and compiled into a native
// secondary-index filter and/or a server-side filter expression.
package qualifier

import (
	"fmt"

	as "github.com/aerospike/aerospike-client-go/v7"

	qerr "github.com/jnopnop/spring-data-aerospike/pkg/errors"
)

// FilterOperation enumerates the supported qualifier operations.
type FilterOperation int

// The operations supported are:
//   - EQ - Equals
//   - GT - Greater than
//   - GTEQ - Greater than or equal to
//   - LT - Less than
//   - LTEQ - Less than or equal to
//   - NOTEQ - Not equal
//   - BETWEEN - Between two values (inclusive)
//   - START_WITH - A string that starts with
//   - ENDS_WITH - A string that ends with
//   - CONTAINING - A string that contains
//   - IN - Equal to one of the listed values
//   - collection variants over list elements, map keys and map values
//   - GEO_WITHIN - Within a GeoJSON region
//   - AND / OR - Logical composites over child qualifiers
const (
	EQ FilterOperation = iota
	GT
	GTEQ
	LT
	LTEQ
	NOTEQ
	BETWEEN
	START_WITH
	ENDS_WITH
	CONTAINING
	IN
	LIST_CONTAINS
	MAP_KEYS_CONTAINS
	MAP_VALUES_CONTAINS
	LIST_BETWEEN
	MAP_KEYS_BETWEEN
	MAP_VALUES_BETWEEN
	GEO_WITHIN
	AND
	OR
)

var operationNames = map[FilterOperation]string{
	EQ:                  "EQ",
	GT:                  "GT",
	GTEQ:                "GTEQ",
	LT:                  "LT",
	LTEQ:                "LTEQ",
	NOTEQ:               "NOTEQ",
	BETWEEN:             "BETWEEN",
	START_WITH:         "START_WITH",
	ENDS_WITH:           "ENDS_WITH",
	CONTAINING:          "CONTAINING",
	IN:                  "IN",
	LIST_CONTAINS:       "LIST_CONTAINS",
	MAP_KEYS_CONTAINS:   "MAP_KEYS_CONTAINS",
	MAP_VALUES_CONTAINS: "MAP_VALUES_CONTAINS",
	LIST_BETWEEN:        "LIST_BETWEEN",
	MAP_KEYS_BETWEEN:    "MAP_KEYS_BETWEEN",
	MAP_VALUES_BETWEEN:  "MAP_VALUES_BETWEEN",
	GEO_WITHIN:          "GEO_WITHIN",
	AND:                 "AND",
	OR:                  "OR",
}

// String returns the canonical operation name.
func (op FilterOperation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("FilterOperation(%d)", int(op))
}

// IsComposite reports whether the operation combines child qualifiers.
func (op FilterOperation) IsComposite() bool {
	return op == AND || op == OR
}

// isBetween reports whether the operation carries a second value.
func (op FilterOperation) isBetween() bool {
	switch op {
	case BETWEEN, LIST_BETWEEN, MAP_KEYS_BETWEEN, MAP_VALUES_BETWEEN:
		return true
	}
	return false
}

// allowsIgnoreCase reports whether the operation has a case-insensitive
// string variant.
func (op FilterOperation) allowsIgnoreCase() bool {
	switch op {
	case EQ, START_WITH, ENDS_WITH, CONTAINING:
		return true
	}
	return false
}

// Qualifier acts as a filter to exclude records that do not meet its
// criteria. It is either a leaf comparison on a single bin, or an AND/OR
// composite over child qualifiers; the two shapes never mix.
type Qualifier struct {
	operation  FilterOperation
	field      string
	value1     as.Value
	value2     as.Value
	ignoreCase bool
	qualifiers []*Qualifier

	// filterOnly marks a qualifier as fully handled by the secondary-index
	// filter, so it is not embedded into the filter expression as well.
	filterOnly bool
}

// New builds a leaf qualifier comparing a bin against a single value.
func New(field string, operation FilterOperation, value1 as.Value) (*Qualifier, error) {
	return newLeaf(field, operation, value1, nil, false)
}

// NewIgnoreCase builds a leaf qualifier with an explicit case-sensitivity
// flag. The flag is only valid for string-valued EQ, START_WITH, ENDS_WITH
// and CONTAINING.
func NewIgnoreCase(field string, operation FilterOperation, ignoreCase bool, value1 as.Value) (*Qualifier, error) {
	return newLeaf(field, operation, value1, nil, ignoreCase)
}

// NewRange builds a leaf qualifier for a between-style operation with an
// inclusive lower and upper bound.
func NewRange(field string, operation FilterOperation, value1, value2 as.Value) (*Qualifier, error) {
	return newLeaf(field, operation, value1, value2, false)
}

// NewComposite builds an AND/OR qualifier over one or more children.
func NewComposite(operation FilterOperation, qualifiers ...*Qualifier) (*Qualifier, error) {
	if !operation.IsComposite() {
		return nil, fmt.Errorf("%w: %s is not a composite operation", qerr.ErrInvalidArgument, operation)
	}
	if len(qualifiers) == 0 {
		return nil, fmt.Errorf("%w: %s requires at least one child qualifier", qerr.ErrInvalidArgument, operation)
	}
	for _, child := range qualifiers {
		if child == nil {
			return nil, fmt.Errorf("%w: %s child qualifier is nil", qerr.ErrInvalidArgument, operation)
		}
	}
	return &Qualifier{
		operation:  operation,
		qualifiers: qualifiers,
	}, nil
}

func newLeaf(field string, operation FilterOperation, value1, value2 as.Value, ignoreCase bool) (*Qualifier, error) {
	if operation.IsComposite() {
		return nil, fmt.Errorf("%w: %s qualifier requires child qualifiers, not values", qerr.ErrInvalidArgument, operation)
	}
	if field == "" {
		return nil, fmt.Errorf("%w: qualifier field must not be empty", qerr.ErrInvalidArgument)
	}
	if value1 == nil {
		return nil, fmt.Errorf("%w: %s qualifier requires a value", qerr.ErrInvalidArgument, operation)
	}
	if operation.isBetween() && value2 == nil {
		return nil, fmt.Errorf("%w: %s qualifier requires a second value", qerr.ErrInvalidArgument, operation)
	}
	if !operation.isBetween() && value2 != nil {
		return nil, fmt.Errorf("%w: %s qualifier does not take a second value", qerr.ErrInvalidArgument, operation)
	}
	if ignoreCase {
		if !operation.allowsIgnoreCase() {
			return nil, fmt.Errorf("%w: %s qualifier has no case-insensitive form", qerr.ErrInvalidArgument, operation)
		}
		if _, ok := StringOf(value1); !ok {
			return nil, fmt.Errorf("%w: case-insensitive %s requires a string value", qerr.ErrInvalidArgument, operation)
		}
	}
	return &Qualifier{
		operation:  operation,
		field:      field,
		value1:     value1,
		value2:     value2,
		ignoreCase: ignoreCase,
	}, nil
}

// Operation returns the qualifier operation.
func (q *Qualifier) Operation() FilterOperation {
	return q.operation
}

// Field returns the bin name for a leaf qualifier.
func (q *Qualifier) Field() string {
	return q.field
}

// Value1 returns the primary comparison value for a leaf qualifier.
func (q *Qualifier) Value1() as.Value {
	return q.value1
}

// Value2 returns the upper bound for between-style operations, or nil.
func (q *Qualifier) Value2() as.Value {
	return q.value2
}

// IgnoreCase reports whether string matching is case-insensitive.
func (q *Qualifier) IgnoreCase() bool {
	return q.ignoreCase
}

// Qualifiers returns the children of an AND/OR composite, or nil for a leaf.
func (q *Qualifier) Qualifiers() []*Qualifier {
	return q.qualifiers
}

// FilterOnly reports whether the qualifier is excluded from the compiled
// filter expression because the secondary-index filter fully covers it.
func (q *Qualifier) FilterOnly() bool {
	return q.filterOnly
}

// SetFilterOnly marks the qualifier as handled by the index filter alone.
// It must be called before the qualifier is compiled.
func (q *Qualifier) SetFilterOnly(filterOnly bool) {
	q.filterOnly = filterOnly
}

// String renders the qualifier as field:operation:value1:value2.
func (q *Qualifier) String() string {
	return fmt.Sprintf("%s:%s:%v:%v", q.field, q.operation, q.value1, q.value2)
}

// IntOf extracts an integer from an Aerospike value.
func IntOf(v as.Value) (int64, bool) {
	switch x := v.(type) {
	case as.IntegerValue:
		return int64(x), true
	case as.LongValue:
		return int64(x), true
	}
	return 0, false
}

// StringOf extracts a string from an Aerospike value. GeoJSON values are
// strings at the wire level and are accepted as well.
func StringOf(v as.Value) (string, bool) {
	switch x := v.(type) {
	case as.StringValue:
		return string(x), true
	case as.GeoJSONValue:
		return string(x), true
	}
	return "", false
}

// ListOf extracts the element slice from an Aerospike list value.
func ListOf(v as.Value) ([]interface{}, bool) {
	switch x := v.(type) {
	case as.ListValue:
		return []interface{}(x), true
	case *as.ValueArray:
		elements := make([]interface{}, len(*x))
		for i, e := range *x {
			elements[i] = e
		}
		return elements, true
	case as.ValueArray:
		elements := make([]interface{}, len(x))
		for i, e := range x {
			elements[i] = e
		}
		return elements, true
	}
	return nil, false
}
