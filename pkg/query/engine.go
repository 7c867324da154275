// Package query provides a multi-filter query engine that augments the
// native query capability of Aerospike: it compiles bin qualifiers into a
// secondary-index filter plus a server-side filter expression and dispatches
// the resulting statement.
package query

import (
	"fmt"

	as "github.com/aerospike/aerospike-client-go/v7"
	"github.com/aerospike/aerospike-client-go/v7/types"

	"github.com/jnopnop/spring-data-aerospike/internal/expr"
	"github.com/jnopnop/spring-data-aerospike/pkg/core"
	qerr "github.com/jnopnop/spring-data-aerospike/pkg/errors"
	"github.com/jnopnop/spring-data-aerospike/pkg/qualifier"
)

// Engine executes qualifier-filtered queries against an Aerospike cluster.
// Compilation is pure and stateless; the engine itself holds only immutable
// configuration, so a single instance may serve concurrent callers.
type Engine struct {
	client core.Client
	policy *as.QueryPolicy

	// Scans can slow the whole cluster down, so they are disabled unless
	// configuration explicitly enables them.
	scansEnabled bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithQueryPolicy sets the base query policy copied for every request.
func WithQueryPolicy(policy *as.QueryPolicy) Option {
	return func(e *Engine) {
		if policy != nil {
			e.policy = policy
		}
	}
}

// WithScansEnabled allows queries that resolve to no index filter to run as
// full scans.
func WithScansEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.scansEnabled = enabled
	}
}

// NewEngine creates a query engine over the given client.
func NewEngine(client core.Client, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		policy: as.NewQueryPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// QueryPolicy returns the engine's base query policy.
func (e *Engine) QueryPolicy() *as.QueryPolicy {
	return e.policy
}

// ScansEnabled reports whether unfiltered scans may run.
func (e *Engine) ScansEnabled() bool {
	return e.scansEnabled
}

// Select returns records of the set matching the given filter and
// qualifiers. A single key qualifier short-circuits into a primary-key
// lookup. Otherwise the qualifiers compile into an index filter (unless the
// caller supplied one) narrowing the scanned rows, plus a filter expression
// enforcing the exact semantics on each candidate record.
func (e *Engine) Select(namespace, set string, filter *as.Filter, qualifiers ...*qualifier.Qualifier) (*KeyRecordIterator, error) {
	// Singleton fast path using the primary key.
	if len(qualifiers) == 1 && qualifier.IsKeyQualifier(qualifiers[0]) {
		return e.selectByKey(namespace, set, qualifiers[0])
	}

	stmt := BuildStatement(namespace, set, filter, qualifiers)

	filterExp, err := expr.CompileSet(qualifiers)
	if err != nil {
		return nil, qerr.NewError("compile", err)
	}
	policy := *e.policy
	policy.FilterExpression = filterExp

	if stmt.Filter == nil && !e.scansEnabled {
		return nil, qerr.NewError("select", qerr.ErrScansDisabled)
	}

	stream, aerr := e.client.Query(&policy, stmt)
	if aerr != nil {
		return nil, qerr.NewError("query", fmt.Errorf("%w: %v", qerr.ErrStoreRequest, aerr))
	}
	return NewStreamKeyRecordIterator(namespace, stream), nil
}

func (e *Engine) selectByKey(namespace, set string, kq *qualifier.Qualifier) (*KeyRecordIterator, error) {
	key, aerr := kq.MakeKey(namespace, set)
	if aerr != nil {
		return nil, qerr.NewError("select", fmt.Errorf("%w: %v", qerr.ErrInvalidKey, aerr))
	}

	record, aerr := e.client.Get(nil, key)
	if aerr != nil {
		if aerr.Matches(types.KEY_NOT_FOUND_ERROR) {
			return NewKeyRecordIterator(namespace), nil
		}
		return nil, qerr.NewError("get", fmt.Errorf("%w: %v", qerr.ErrStoreRequest, aerr))
	}
	if record == nil {
		return NewKeyRecordIterator(namespace), nil
	}
	return NewSingleKeyRecordIterator(namespace, &KeyRecord{Key: key, Record: record}), nil
}
