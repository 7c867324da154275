package query

import (
	"fmt"

	as "github.com/aerospike/aerospike-client-go/v7"

	"github.com/jnopnop/spring-data-aerospike/pkg/core"
	qerr "github.com/jnopnop/spring-data-aerospike/pkg/errors"
)

// KeyRecord pairs a record with its primary key.
type KeyRecord struct {
	Key    *as.Key
	Record *as.Record
}

// KeyRecordIterator is a lazy, forward-only, non-restartable sequence of
// key/record pairs. The empty, singleton and streaming cases share this one
// shape so callers iterate uniformly. It is not safe for concurrent use;
// each iterator is owned by a single consumer.
//
// Usage follows the scanner idiom:
//
//	for it.Next() {
//	    kr := it.KeyRecord()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
type KeyRecordIterator struct {
	namespace string
	single    *KeyRecord
	stream    core.ResultStream
	results   <-chan *as.Result
	current   *KeyRecord
	err       error
	done      bool
}

// NewKeyRecordIterator returns an exhausted iterator.
func NewKeyRecordIterator(namespace string) *KeyRecordIterator {
	return &KeyRecordIterator{namespace: namespace, done: true}
}

// NewSingleKeyRecordIterator returns an iterator over exactly one pair.
func NewSingleKeyRecordIterator(namespace string, keyRecord *KeyRecord) *KeyRecordIterator {
	return &KeyRecordIterator{namespace: namespace, single: keyRecord}
}

// NewStreamKeyRecordIterator returns an iterator draining a query result
// stream.
func NewStreamKeyRecordIterator(namespace string, stream core.ResultStream) *KeyRecordIterator {
	return &KeyRecordIterator{namespace: namespace, stream: stream}
}

// Namespace returns the namespace the results were read from.
func (it *KeyRecordIterator) Namespace() string {
	return it.namespace
}

// Next advances to the next pair. It returns false when the sequence is
// exhausted or a stream error occurred; check Err afterwards.
func (it *KeyRecordIterator) Next() bool {
	if it.done {
		return false
	}

	if it.single != nil {
		it.current = it.single
		it.single = nil
		it.done = true
		return true
	}

	if it.results == nil {
		it.results = it.stream.Results()
	}
	res, ok := <-it.results
	if !ok {
		it.done = true
		return false
	}
	if res.Err != nil {
		it.err = qerr.NewError("query", fmt.Errorf("%w: %v", qerr.ErrStoreRequest, res.Err))
		it.done = true
		return false
	}
	it.current = &KeyRecord{Key: res.Record.Key, Record: res.Record}
	return true
}

// KeyRecord returns the pair produced by the last successful Next.
func (it *KeyRecordIterator) KeyRecord() *KeyRecord {
	return it.current
}

// Err returns the first error encountered while streaming, if any.
func (it *KeyRecordIterator) Err() error {
	return it.err
}

// Close releases the underlying stream when it supports closing. It is safe
// to call on exhausted and singleton iterators.
func (it *KeyRecordIterator) Close() {
	it.done = true
	if closer, ok := it.stream.(interface{ Close() as.Error }); ok {
		_ = closer.Close()
	} else if closer, ok := it.stream.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}
