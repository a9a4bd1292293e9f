package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelWrapping(t *testing.T) {
	err := Wrap(ErrAtomNotFound, "resolving /atomspace/nodes/ConceptNode/missing")
	assert.True(t, Is(err, ErrAtomNotFound))
	assert.True(t, IsAtomNotFound(err))
	assert.False(t, IsInvalidPath(err))
}

func TestNewAtomNotFound(t *testing.T) {
	err := NewAtomNotFound("atom %s", "AS-1234")
	assert.True(t, IsAtomNotFound(err))
	assert.Contains(t, err.Error(), "AS-1234")
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrAtomNotFound,
		ErrProcNotFound,
		ErrInvalidPath,
		ErrUnknownRule,
		ErrPremiseMismatch,
		ErrUnknownSyscall,
		ErrDimensionMismatch,
		ErrTokenOutOfRange,
		ErrImmutableTrait,
		ErrTimeout,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
