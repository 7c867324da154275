// Package aerospikedata provides a qualifier-based query layer for
// Aerospike. Callers describe what they want as a tree of bin qualifiers;
// the layer compiles the tree into a native secondary-index filter narrowing
// the rows the server scans, plus a server-evaluated filter expression
// enforcing the exact semantics, and dispatches the query.
package aerospikedata

import (
	"fmt"

	as "github.com/aerospike/aerospike-client-go/v7"

	"github.com/jnopnop/spring-data-aerospike/internal/expr"
	"github.com/jnopnop/spring-data-aerospike/pkg/core"
	"github.com/jnopnop/spring-data-aerospike/pkg/index"
	"github.com/jnopnop/spring-data-aerospike/pkg/qualifier"
	"github.com/jnopnop/spring-data-aerospike/pkg/query"
	"github.com/jnopnop/spring-data-aerospike/pkg/session"
)

// DB ties a cluster session and the query engine together.
type DB struct {
	session *session.Session
	engine  *query.Engine
}

// New connects to the cluster described by cfg and returns a ready DB.
func New(cfg session.Config) (*DB, error) {
	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	engine := query.NewEngine(sess.Client(),
		query.WithScansEnabled(sess.Settings().ScansEnabled))

	return &DB{
		session: sess,
		engine:  engine,
	}, nil
}

// Open builds a DB over an already connected client; useful for sharing a
// client across layers and for injecting mocks in tests.
func Open(client core.Client, opts ...query.Option) *DB {
	return &DB{
		engine: query.NewEngine(client, opts...),
	}
}

// Engine exposes the underlying query engine.
func (db *DB) Engine() *query.Engine {
	return db.engine
}

// Session exposes the cluster session, or nil for a DB built with Open.
func (db *DB) Session() *session.Session {
	return db.session
}

// Select returns records of the set matching the given filter and
// qualifiers; see query.Engine.Select.
func (db *DB) Select(namespace, set string, filter *as.Filter, qualifiers ...*qualifier.Qualifier) (*query.KeyRecordIterator, error) {
	return db.engine.Select(namespace, set, filter, qualifiers...)
}

// Close terminates the cluster connection, if this DB owns one.
func (db *DB) Close() {
	if db.session != nil {
		db.session.Close()
	}
}

// CompileIndexFilter maps a leaf qualifier to a native secondary-index
// filter, or nil when it has no native representation.
func CompileIndexFilter(q *qualifier.Qualifier) *as.Filter {
	return index.Compile(q)
}

// CompileExpression compiles a qualifier tree into a server-side filter
// expression.
func CompileExpression(q *qualifier.Qualifier) (*as.Expression, error) {
	return expr.Compile(q)
}

// CompileFilterExpressions combines the expressions of top-level qualifiers
// with AND, skipping the ones marked filter-only; nil when none remain.
func CompileFilterExpressions(qualifiers []*qualifier.Qualifier) (*as.Expression, error) {
	return expr.CompileSet(qualifiers)
}
