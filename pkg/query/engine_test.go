package query_test

import (
	"math"
	"testing"

	as "github.com/aerospike/aerospike-client-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jnopnop/spring-data-aerospike/pkg/errors"
	"github.com/jnopnop/spring-data-aerospike/pkg/mocks"
	"github.com/jnopnop/spring-data-aerospike/pkg/qualifier"
	"github.com/jnopnop/spring-data-aerospike/pkg/query"
)

const (
	testNamespace = "test"
	testSet       = "people"
)

func leaf(t *testing.T, field string, op qualifier.FilterOperation, v interface{}) *qualifier.Qualifier {
	t.Helper()
	q, err := qualifier.New(field, op, as.NewValue(v))
	require.NoError(t, err)
	return q
}

func record(t *testing.T, userKey interface{}, bins as.BinMap) *as.Record {
	t.Helper()
	key, aerr := as.NewKey(testNamespace, testSet, userKey)
	require.Nil(t, aerr)
	return &as.Record{Key: key, Bins: bins}
}

func drain(t *testing.T, it *query.KeyRecordIterator) []*query.KeyRecord {
	t.Helper()
	var out []*query.KeyRecord
	for it.Next() {
		out = append(out, it.KeyRecord())
	}
	require.NoError(t, it.Err())
	return out
}

func TestSelectScanGuard(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	// No qualifiers, no caller filter, scans disabled: fail fast, never
	// reaching the client.
	_, err := engine.Select(testNamespace, testSet, nil)
	assert.ErrorIs(t, err, errors.ErrScansDisabled)
	client.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestSelectScanGuardWithUnrepresentableQualifier(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	// CONTAINING has no index representation, so the statement stays
	// unfiltered and the guard still trips.
	_, err := engine.Select(testNamespace, testSet, nil, leaf(t, "name", qualifier.CONTAINING, "bo"))
	assert.ErrorIs(t, err, errors.ErrScansDisabled)
}

func TestSelectScansEnabledDispatchesUnfiltered(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client, query.WithScansEnabled(true))

	stream := mocks.NewStubResultStream(
		&as.Result{Record: record(t, "u1", as.BinMap{"name": "bob"})},
	)
	client.On("Query", mock.Anything, mock.Anything).Return(stream, nil)

	it, err := engine.Select(testNamespace, testSet, nil)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 1)
	assert.Equal(t, as.BinMap{"name": "bob"}, results[0].Record.Bins)

	stmt := client.Calls[0].Arguments.Get(1).(*as.Statement)
	assert.Nil(t, stmt.Filter)
	policy := client.Calls[0].Arguments.Get(0).(*as.QueryPolicy)
	assert.Nil(t, policy.FilterExpression)
}

func TestSelectCompilesFilterAndExpression(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	client.On("Query", mock.Anything, mock.Anything).
		Return(mocks.NewStubResultStream(), nil)

	ageQ := leaf(t, "age", qualifier.GT, 10)
	nameQ := leaf(t, "name", qualifier.CONTAINING, "bo")

	it, err := engine.Select(testNamespace, testSet, nil, ageQ, nameQ)
	require.NoError(t, err)
	drain(t, it)

	stmt := client.Calls[0].Arguments.Get(1).(*as.Statement)
	assert.Equal(t, testNamespace, stmt.Namespace)
	assert.Equal(t, testSet, stmt.SetName)
	// First representable qualifier becomes the index filter.
	assert.Equal(t, as.NewRangeFilter("age", 11, math.MaxInt64), stmt.Filter)

	// Both qualifiers stay in the expression: the filter only narrows.
	policy := client.Calls[0].Arguments.Get(0).(*as.QueryPolicy)
	expected := as.ExpAnd(
		as.ExpGreater(as.ExpIntBin("age"), as.ExpIntVal(10)),
		as.ExpRegexCompare("bo", as.ExpRegexFlagNONE, as.ExpStringBin("name")),
	)
	assert.Equal(t, expected, policy.FilterExpression)
}

func TestSelectCallerFilterTakesPrecedence(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	client.On("Query", mock.Anything, mock.Anything).
		Return(mocks.NewStubResultStream(), nil)

	callerFilter := as.NewEqualFilter("city", "berlin")
	ageQ := leaf(t, "age", qualifier.GT, 10)

	_, err := engine.Select(testNamespace, testSet, callerFilter, ageQ)
	require.NoError(t, err)

	stmt := client.Calls[0].Arguments.Get(1).(*as.Statement)
	assert.Equal(t, callerFilter, stmt.Filter)
}

func TestSelectFilterOnlyQualifierExcludedFromExpression(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	client.On("Query", mock.Anything, mock.Anything).
		Return(mocks.NewStubResultStream(), nil)

	ageQ := leaf(t, "age", qualifier.GT, 10)
	ageQ.SetFilterOnly(true)

	_, err := engine.Select(testNamespace, testSet, nil, ageQ)
	require.NoError(t, err)

	stmt := client.Calls[0].Arguments.Get(1).(*as.Statement)
	// Still eligible as the index filter, just not as an expression.
	assert.Equal(t, as.NewRangeFilter("age", 11, math.MaxInt64), stmt.Filter)
	policy := client.Calls[0].Arguments.Get(0).(*as.QueryPolicy)
	assert.Nil(t, policy.FilterExpression)
}

func TestSelectCompilationErrorSurfacesBeforeDispatch(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client, query.WithScansEnabled(true))

	bad := leaf(t, "ratio", qualifier.EQ, 1.5)

	_, err := engine.Select(testNamespace, testSet, nil, bad)
	assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)
	client.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestSelectDoesNotMutateBasePolicy(t *testing.T) {
	client := new(mocks.MockClient)
	base := as.NewQueryPolicy()
	engine := query.NewEngine(client, query.WithQueryPolicy(base))

	client.On("Query", mock.Anything, mock.Anything).
		Return(mocks.NewStubResultStream(), nil)

	_, err := engine.Select(testNamespace, testSet, nil, leaf(t, "age", qualifier.GT, 10))
	require.NoError(t, err)

	assert.Nil(t, base.FilterExpression)
	dispatched := client.Calls[0].Arguments.Get(0).(*as.QueryPolicy)
	assert.NotNil(t, dispatched.FilterExpression)
}

func TestSelectSingleKeyFastPath(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	kq, err := qualifier.NewKeyQualifier(as.NewValue("u1"))
	require.NoError(t, err)

	rec := record(t, "u1", as.BinMap{"name": "bob"})
	client.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(rec, nil)

	it, err := engine.Select(testNamespace, testSet, nil, kq)
	require.NoError(t, err)

	results := drain(t, it)
	require.Len(t, results, 1)
	assert.Equal(t, rec, results[0].Record)

	// The fast path never builds a statement.
	client.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestSelectSingleKeyNotFound(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	kq, err := qualifier.NewKeyQualifier(as.NewValue("missing"))
	require.NoError(t, err)

	client.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	it, err := engine.Select(testNamespace, testSet, nil, kq)
	require.NoError(t, err)
	assert.Empty(t, drain(t, it))
}

func TestSelectSingleKeyNotFoundError(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	kq, err := qualifier.NewKeyQualifier(as.NewValue("missing"))
	require.NoError(t, err)

	client.On("Get", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, as.ErrKeyNotFound)

	it, err := engine.Select(testNamespace, testSet, nil, kq)
	require.NoError(t, err)
	assert.Empty(t, drain(t, it))
}

func TestSelectKeyQualifierAmongOthersUsesQueryPath(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	kq, err := qualifier.NewKeyQualifier(as.NewValue("u1"))
	require.NoError(t, err)
	ageQ := leaf(t, "age", qualifier.GT, 10)

	client.On("Query", mock.Anything, mock.Anything).
		Return(mocks.NewStubResultStream(), nil)

	_, err = engine.Select(testNamespace, testSet, nil, kq, ageQ)
	require.NoError(t, err)

	client.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	client.AssertCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestSelectStoreErrorTranslated(t *testing.T) {
	client := new(mocks.MockClient)
	engine := query.NewEngine(client)

	client.On("Query", mock.Anything, mock.Anything).Return(nil, as.ErrKeyNotFound)

	_, err := engine.Select(testNamespace, testSet, nil, leaf(t, "age", qualifier.GT, 10))
	assert.ErrorIs(t, err, errors.ErrStoreRequest)
}

func TestBuildStatement(t *testing.T) {
	ageQ := leaf(t, "age", qualifier.GT, 10)

	stmt := query.BuildStatement(testNamespace, testSet, nil, []*qualifier.Qualifier{ageQ})
	assert.Equal(t, testNamespace, stmt.Namespace)
	assert.Equal(t, testSet, stmt.SetName)
	assert.Equal(t, as.NewRangeFilter("age", 11, math.MaxInt64), stmt.Filter)

	caller := as.NewEqualFilter("city", "berlin")
	stmt = query.BuildStatement(testNamespace, testSet, caller, []*qualifier.Qualifier{ageQ})
	assert.Equal(t, caller, stmt.Filter)

	stmt = query.BuildStatement(testNamespace, testSet, nil, nil)
	assert.Nil(t, stmt.Filter)
}

func TestMetaString(t *testing.T) {
	assert.Equal(t, "__key", query.MetaKey.String())
	assert.Equal(t, "__Expiration", query.MetaExpiration.String())
	assert.Equal(t, "__generation", query.MetaGeneration.String())
}
