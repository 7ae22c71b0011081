package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHash_KnownVector(t *testing.T) {
	// SHA3-256 of the empty string (FIPS 202).
	assert.Equal(t, Hash("a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"), NewHash(nil))
}

func TestHasher_FieldBoundaries(t *testing.T) {
	a := NewHasher()
	a.WriteString("ab")
	a.WriteString("c")

	b := NewHasher()
	b.WriteString("a")
	b.WriteString("bc")

	assert.NotEqual(t, a.Sum(), b.Sum(), "shifting bytes between fields must change the digest")
}

func TestHasher_Deterministic(t *testing.T) {
	build := func() Hash {
		h := NewHasher()
		h.WriteField([]byte{1, 2, 3})
		h.WriteInts([]int{4, 8, 15, 16, 23, 42})
		return h.Sum()
	}
	assert.Equal(t, build(), build())
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsValidationError(NewEmptyInputError("stream")))
	assert.True(t, IsValidationError(NewInvalidParameterError("r", "out of band")))
	assert.True(t, IsValidationError(NewInvalidLengthError(9000, 8160)))
	assert.True(t, errors.Is(NewInsufficientEntropyError(32, 4), ErrInsufficientEntropy))
	assert.True(t, errors.Is(NewPoolOverflowError(10, 5), ErrPoolOverflow))
	assert.True(t, errors.Is(NewHashMismatchError("a", "b"), ErrHashMismatch))
	assert.False(t, IsValidationError(NewInsufficientEntropyError(1, 0)))
}
