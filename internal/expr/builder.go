// Package expr compiles qualifier trees into server-evaluated filter
// expressions. The expression enforces the exact qualifier semantics; a
// secondary-index filter, when one exists, only narrows the candidate rows
// the expression is evaluated against.
package expr

import (
	"fmt"

	as "github.com/aerospike/aerospike-client-go/v7"

	qerr "github.com/jnopnop/spring-data-aerospike/pkg/errors"
	"github.com/jnopnop/spring-data-aerospike/pkg/qualifier"
)

// Compile recursively builds the filter expression for a qualifier tree.
// The same qualifier always compiles to a structurally equal expression.
// It fails with ErrUnsupportedOperation for operation/value-type
// combinations the server cannot evaluate, and with ErrInvalidArgument for
// IN qualifiers whose value is not a list.
func Compile(q *qualifier.Qualifier) (*as.Expression, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: qualifier is nil", qerr.ErrInvalidArgument)
	}

	switch q.Operation() {
	case qualifier.AND, qualifier.OR:
		return compileComposite(q)
	case qualifier.IN:
		return compileIn(q)
	case qualifier.EQ:
		return compileEq(q)
	case qualifier.NOTEQ:
		if n, ok := qualifier.IntOf(q.Value1()); ok {
			return as.ExpNotEq(as.ExpIntBin(q.Field()), as.ExpIntVal(n)), nil
		}
		return as.ExpNotEq(as.ExpStringBin(q.Field()), as.ExpStringVal(stringValue(q.Value1()))), nil
	case qualifier.GT:
		return compileNumeric(q, as.ExpGreater)
	case qualifier.GTEQ:
		return compileNumeric(q, as.ExpGreaterEq)
	case qualifier.LT:
		return compileNumeric(q, as.ExpLess)
	case qualifier.LTEQ:
		return compileNumeric(q, as.ExpLessEq)
	case qualifier.BETWEEN:
		return compileBetween(q)
	case qualifier.GEO_WITHIN:
		return as.ExpGeoCompare(
			as.ExpGeoBin(q.Field()),
			as.ExpGeoVal(stringValue(q.Value1())),
		), nil
	case qualifier.START_WITH:
		return regexExpression(q, qualifier.StartsWithRegexp(stringValue(q.Value1()))), nil
	case qualifier.ENDS_WITH:
		return regexExpression(q, qualifier.EndsWithRegexp(stringValue(q.Value1()))), nil
	case qualifier.CONTAINING:
		return regexExpression(q, qualifier.ContainingRegexp(stringValue(q.Value1()))), nil
	case qualifier.LIST_CONTAINS:
		return compileListContains(q)
	case qualifier.MAP_KEYS_CONTAINS:
		return compileMapKeysContains(q)
	case qualifier.MAP_VALUES_CONTAINS:
		return compileMapValuesContains(q)
	case qualifier.LIST_BETWEEN:
		return compileCollectionRange(q, func(begin, end *as.Expression) *as.Expression {
			return as.ExpListGetByValueRange(as.ListReturnTypeCount, begin, end, as.ExpListBin(q.Field()))
		})
	case qualifier.MAP_KEYS_BETWEEN:
		return compileCollectionRange(q, func(begin, end *as.Expression) *as.Expression {
			return as.ExpMapGetByKeyRange(as.MapReturnType.COUNT, begin, end, as.ExpMapBin(q.Field()))
		})
	case qualifier.MAP_VALUES_BETWEEN:
		return compileCollectionRange(q, func(begin, end *as.Expression) *as.Expression {
			return as.ExpMapGetByValueRange(as.MapReturnType.COUNT, begin, end, as.ExpMapBin(q.Field()))
		})
	}
	return nil, fmt.Errorf("%w: %s has no filter expression form", qerr.ErrUnsupportedOperation, q.Operation())
}

func compileComposite(q *qualifier.Qualifier) (*as.Expression, error) {
	children := q.Qualifiers()
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: %s qualifier has no children", qerr.ErrInvalidArgument, q.Operation())
	}
	exps := make([]*as.Expression, len(children))
	for i, child := range children {
		exp, err := Compile(child)
		if err != nil {
			return nil, err
		}
		exps[i] = exp
	}
	if q.Operation() == qualifier.AND {
		return as.ExpAnd(exps...), nil
	}
	return as.ExpOr(exps...), nil
}

// compileIn converts IN into an OR over per-element equality, since the
// server has no native IN support.
func compileIn(q *qualifier.Qualifier) (*as.Expression, error) {
	elements, ok := qualifier.ListOf(q.Value1())
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a list value, got %T",
			qerr.ErrInvalidArgument, q.Operation(), q.Value1())
	}
	exps := make([]*as.Expression, len(elements))
	for i, element := range elements {
		eq, err := qualifier.NewIgnoreCase(q.Field(), qualifier.EQ, q.IgnoreCase(), as.NewValue(element))
		if err != nil {
			return nil, err
		}
		exp, err := Compile(eq)
		if err != nil {
			return nil, err
		}
		exps[i] = exp
	}
	return as.ExpOr(exps...), nil
}

func compileEq(q *qualifier.Qualifier) (*as.Expression, error) {
	if n, ok := qualifier.IntOf(q.Value1()); ok {
		return as.ExpEq(as.ExpIntBin(q.Field()), as.ExpIntVal(n)), nil
	}
	if s, ok := qualifier.StringOf(q.Value1()); ok {
		if q.IgnoreCase() {
			return as.ExpRegexCompare(qualifier.StringEqualsRegexp(s), as.ExpRegexFlagICASE, as.ExpStringBin(q.Field())), nil
		}
		return as.ExpEq(as.ExpStringBin(q.Field()), as.ExpStringVal(s)), nil
	}
	return nil, fmt.Errorf("%w: %s on value type %T",
		qerr.ErrUnsupportedOperation, q.Operation(), q.Value1())
}

func compileNumeric(q *qualifier.Qualifier, cmp func(left, right *as.Expression) *as.Expression) (*as.Expression, error) {
	n, ok := qualifier.IntOf(q.Value1())
	if !ok {
		return nil, fmt.Errorf("%w: %s on value type %T",
			qerr.ErrUnsupportedOperation, q.Operation(), q.Value1())
	}
	return cmp(as.ExpIntBin(q.Field()), as.ExpIntVal(n)), nil
}

func compileBetween(q *qualifier.Qualifier) (*as.Expression, error) {
	begin, ok := qualifier.IntOf(q.Value1())
	if !ok {
		return nil, fmt.Errorf("%w: %s on value type %T",
			qerr.ErrUnsupportedOperation, q.Operation(), q.Value1())
	}
	end, ok := qualifier.IntOf(q.Value2())
	if !ok {
		return nil, fmt.Errorf("%w: %s on value type %T",
			qerr.ErrUnsupportedOperation, q.Operation(), q.Value2())
	}
	return as.ExpAnd(
		as.ExpGreaterEq(as.ExpIntBin(q.Field()), as.ExpIntVal(begin)),
		as.ExpLessEq(as.ExpIntBin(q.Field()), as.ExpIntVal(end)),
	), nil
}

func regexExpression(q *qualifier.Qualifier, regex string) *as.Expression {
	flags := as.ExpRegexFlagNONE
	if q.IgnoreCase() {
		flags = as.ExpRegexFlagICASE
	}
	return as.ExpRegexCompare(regex, flags, as.ExpStringBin(q.Field()))
}

// Collection membership is expressed as "count of matching entries > 0".
func compileListContains(q *qualifier.Qualifier) (*as.Expression, error) {
	element, err := scalarValue(q)
	if err != nil {
		return nil, err
	}
	return as.ExpGreater(
		as.ExpListGetByValue(as.ListReturnTypeCount, element, as.ExpListBin(q.Field())),
		as.ExpIntVal(0),
	), nil
}

func compileMapKeysContains(q *qualifier.Qualifier) (*as.Expression, error) {
	key, err := scalarValue(q)
	if err != nil {
		return nil, err
	}
	return as.ExpGreater(
		as.ExpMapGetByKey(as.MapReturnType.COUNT, as.ExpTypeINT, key, as.ExpMapBin(q.Field())),
		as.ExpIntVal(0),
	), nil
}

func compileMapValuesContains(q *qualifier.Qualifier) (*as.Expression, error) {
	value, err := scalarValue(q)
	if err != nil {
		return nil, err
	}
	return as.ExpGreater(
		as.ExpMapGetByValue(as.MapReturnType.COUNT, value, as.ExpMapBin(q.Field())),
		as.ExpIntVal(0),
	), nil
}

// compileCollectionRange counts entries within [value1, value2+1). The
// underlying range primitive treats its upper bound as exclusive while the
// qualifier's is inclusive.
func compileCollectionRange(q *qualifier.Qualifier, count func(begin, end *as.Expression) *as.Expression) (*as.Expression, error) {
	begin, ok := qualifier.IntOf(q.Value1())
	if !ok {
		return nil, fmt.Errorf("%w: %s on value type %T",
			qerr.ErrUnsupportedOperation, q.Operation(), q.Value1())
	}
	end, ok := qualifier.IntOf(q.Value2())
	if !ok {
		return nil, fmt.Errorf("%w: %s on value type %T",
			qerr.ErrUnsupportedOperation, q.Operation(), q.Value2())
	}
	return as.ExpGreater(
		count(as.ExpIntVal(begin), as.ExpIntVal(end+1)),
		as.ExpIntVal(0),
	), nil
}

func scalarValue(q *qualifier.Qualifier) (*as.Expression, error) {
	if n, ok := qualifier.IntOf(q.Value1()); ok {
		return as.ExpIntVal(n), nil
	}
	if s, ok := qualifier.StringOf(q.Value1()); ok {
		return as.ExpStringVal(s), nil
	}
	return nil, fmt.Errorf("%w: %s on value type %T",
		qerr.ErrUnsupportedOperation, q.Operation(), q.Value1())
}

// stringValue renders a value for string-typed comparisons. Non-string
// values fall back to their canonical string form.
func stringValue(v as.Value) string {
	if s, ok := qualifier.StringOf(v); ok {
		return s
	}
	return v.String()
}
