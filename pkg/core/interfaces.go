// Package core defines the interfaces the query engine consumes from the
// Aerospike client, kept narrow so tests can substitute mocks.
package core

import (
	as "github.com/aerospike/aerospike-client-go/v7"
)

// ResultStream is a lazy, forward-only stream of query results. It is owned
// by a single consumer for its lifetime. *aerospike.Recordset satisfies it.
type ResultStream interface {
	Results() <-chan *as.Result
}

// Client is the slice of the Aerospike client the query engine depends on:
// a single-record read by primary key and a secondary-index query.
type Client interface {
	// Get reads a single record by primary key. A missing record yields a
	// nil record, or a client error matching types.KEY_NOT_FOUND_ERROR
	// depending on policy.
	Get(policy *as.BasePolicy, key *as.Key, binNames ...string) (*as.Record, as.Error)

	// Query runs a statement with the given policy, returning a lazy stream
	// of results. The policy carries the compiled filter expression.
	Query(policy *as.QueryPolicy, statement *as.Statement) (ResultStream, as.Error)
}
