package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jnopnop/spring-data-aerospike/pkg/errors"
)

func TestQueryErrorWrapping(t *testing.T) {
	err := errors.NewError("select", errors.ErrScansDisabled)

	assert.ErrorIs(t, err, errors.ErrScansDisabled)
	assert.Contains(t, err.Error(), "select operation failed")
	assert.Equal(t, errors.ErrScansDisabled, stderrors.Unwrap(err))
}

func TestQueryErrorWrapsNestedChains(t *testing.T) {
	inner := fmt.Errorf("%w: connection refused", errors.ErrStoreRequest)
	err := errors.NewError("query", inner)

	assert.ErrorIs(t, err, errors.ErrStoreRequest)
	assert.False(t, stderrors.Is(err, errors.ErrScansDisabled))
}

func TestPredicateHelpers(t *testing.T) {
	tests := []struct {
		name      string
		predicate func(error) bool
		err       error
	}{
		{"invalid argument", errors.IsInvalidArgument, errors.ErrInvalidArgument},
		{"unsupported operation", errors.IsUnsupportedOperation, errors.ErrUnsupportedOperation},
		{"scans disabled", errors.IsScansDisabled, errors.ErrScansDisabled},
		{"store request", errors.IsStoreRequest, errors.ErrStoreRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.predicate(errors.NewError("op", tt.err)))
			assert.False(t, tt.predicate(stderrors.New("unrelated")))
		})
	}
}
