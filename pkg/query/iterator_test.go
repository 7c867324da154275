package query_test

import (
	"testing"

	as "github.com/aerospike/aerospike-client-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnopnop/spring-data-aerospike/pkg/errors"
	"github.com/jnopnop/spring-data-aerospike/pkg/mocks"
	"github.com/jnopnop/spring-data-aerospike/pkg/query"
)

func TestEmptyIterator(t *testing.T) {
	it := query.NewKeyRecordIterator(testNamespace)

	assert.Equal(t, testNamespace, it.Namespace())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
	it.Close()
}

func TestSingleIterator(t *testing.T) {
	rec := record(t, "u1", as.BinMap{"name": "bob"})
	kr := &query.KeyRecord{Key: rec.Key, Record: rec}

	it := query.NewSingleKeyRecordIterator(testNamespace, kr)

	require.True(t, it.Next())
	assert.Equal(t, kr, it.KeyRecord())
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestStreamIteratorYieldsInOrder(t *testing.T) {
	first := record(t, "u1", as.BinMap{"n": 1})
	second := record(t, "u2", as.BinMap{"n": 2})
	stream := mocks.NewStubResultStream(
		&as.Result{Record: first},
		&as.Result{Record: second},
	)

	it := query.NewStreamKeyRecordIterator(testNamespace, stream)

	require.True(t, it.Next())
	assert.Equal(t, first, it.KeyRecord().Record)
	assert.Equal(t, first.Key, it.KeyRecord().Key)
	require.True(t, it.Next())
	assert.Equal(t, second, it.KeyRecord().Record)
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestStreamIteratorStopsOnError(t *testing.T) {
	good := record(t, "u1", as.BinMap{"n": 1})
	stream := mocks.NewStubResultStream(
		&as.Result{Record: good},
		&as.Result{Err: as.ErrKeyNotFound},
	)

	it := query.NewStreamKeyRecordIterator(testNamespace, stream)

	require.True(t, it.Next())
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), errors.ErrStoreRequest)
	// Exhausted after the error.
	assert.False(t, it.Next())
}

func TestStreamIteratorClose(t *testing.T) {
	stream := mocks.NewStubResultStream()
	it := query.NewStreamKeyRecordIterator(testNamespace, stream)

	it.Close()
	assert.True(t, stream.Closed())
	assert.False(t, it.Next())
}
