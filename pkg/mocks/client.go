// Package mocks provides mock implementations of the query engine's client
// interfaces. They are designed to be used with
// github.com/stretchr/testify/mock for unit testing code that queries
// through the engine without a running cluster.
//
// Example usage:
//
//	mockClient := new(mocks.MockClient)
//	mockClient.On("Get", mock.Anything, mock.Anything, mock.Anything).
//		Return(record, nil)
//	engine := query.NewEngine(mockClient)
package mocks

import (
	as "github.com/aerospike/aerospike-client-go/v7"
	"github.com/stretchr/testify/mock"

	"github.com/jnopnop/spring-data-aerospike/pkg/core"
)

// MockClient is a mock implementation of the core.Client interface.
type MockClient struct {
	mock.Mock
}

// Get reads a single record by primary key
func (m *MockClient) Get(policy *as.BasePolicy, key *as.Key, binNames ...string) (*as.Record, as.Error) {
	args := m.Called(policy, key, binNames)
	record, _ := args.Get(0).(*as.Record)
	err, _ := args.Get(1).(as.Error)
	return record, err
}

// Query runs a statement and returns a result stream
func (m *MockClient) Query(policy *as.QueryPolicy, statement *as.Statement) (core.ResultStream, as.Error) {
	args := m.Called(policy, statement)
	stream, _ := args.Get(0).(core.ResultStream)
	err, _ := args.Get(1).(as.Error)
	return stream, err
}

// StubResultStream feeds canned results through the ResultStream interface.
type StubResultStream struct {
	results []*as.Result
	closed  bool
}

// NewStubResultStream builds a stream yielding the given results in order.
func NewStubResultStream(results ...*as.Result) *StubResultStream {
	return &StubResultStream{results: results}
}

// Results returns a channel yielding the canned results.
func (s *StubResultStream) Results() <-chan *as.Result {
	ch := make(chan *as.Result, len(s.results))
	for _, r := range s.results {
		ch <- r
	}
	close(ch)
	return ch
}

// Close marks the stream as closed.
func (s *StubResultStream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *StubResultStream) Closed() bool {
	return s.closed
}
