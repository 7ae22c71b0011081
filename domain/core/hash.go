package core

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Hash represents a hex-encoded SHA3-256 digest
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha3.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Domain-specific hash types
type (
	SnapshotHash  Hash
	StageListHash Hash
)

// Constructors
func NewStageListHash(data []byte) StageListHash { return StageListHash(NewHash(data)) }

// String conversions
func (h SnapshotHash) String() string  { return Hash(h).String() }
func (h StageListHash) String() string { return Hash(h).String() }

// Hasher accumulates length-prefixed fields into a SHA3-256 digest so that
// field boundaries cannot be shifted without changing the result.
type Hasher struct {
	h hash.Hash
}

// NewHasher creates an empty field hasher
func NewHasher() *Hasher {
	return &Hasher{h: sha3.New256()}
}

// WriteField appends one length-prefixed field
func (w *Hasher) WriteField(data []byte) {
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(data)))
	w.h.Write(prefix[:])
	w.h.Write(data)
}

// WriteString appends one length-prefixed string field
func (w *Hasher) WriteString(s string) {
	w.WriteField([]byte(s))
}

// WriteInts appends a list of integers as a single field
func (w *Hasher) WriteInts(values []int) {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint64(buf[8*i:], uint64(int64(v)))
	}
	w.WriteField(buf)
}

// Sum returns the hex digest of everything written so far
func (w *Hasher) Sum() Hash {
	return Hash(hex.EncodeToString(w.h.Sum(nil)))
}
