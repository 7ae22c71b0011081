// Package draw implements bias-free selection of distinct values from a seed.
package draw

import (
	"fmt"
	"math/bits"

	"goentropy/domain/core"
)

// Sample holds the values picked from a seed in the order they were accepted
type Sample struct {
	Values   []int // zero-based, each < pool size
	Consumed int   // seed bytes read, including rejected candidates
	Rejected int
}

// CandidateBits returns k, the bit length of poolSize-1
func CandidateBits(poolSize int) int {
	return bits.Len(uint(poolSize - 1))
}

// CandidateWidth returns how many seed bytes one candidate consumes
func CandidateWidth(poolSize int) int {
	width := (CandidateBits(poolSize) + 7) / 8
	if width < 1 {
		width = 1
	}
	return width
}

// Select draws count distinct values from [0, poolSize) by rejection sampling.
// Each candidate reads CandidateWidth bytes big-endian and keeps the low k
// bits; it is accepted if below poolSize and not already drawn.
func Select(seed []byte, poolSize, count int) (*Sample, error) {
	if poolSize <= 0 {
		return nil, core.NewInvalidParameterError("pool_size", "must be positive")
	}
	if count <= 0 {
		return nil, core.NewInvalidParameterError("count", "must be positive")
	}
	if count > poolSize {
		return nil, core.NewInvalidParameterError("count",
			fmt.Sprintf("cannot draw %d distinct values from a pool of %d", count, poolSize))
	}

	k := CandidateBits(poolSize)
	width := CandidateWidth(poolSize)
	mask := uint64(1)<<uint(k) - 1

	sample := &Sample{Values: make([]int, 0, count)}
	drawn := make(map[int]bool, count)

	for len(sample.Values) < count {
		if sample.Consumed+width > len(seed) {
			return nil, core.NewInsufficientEntropyError(sample.Consumed+width, len(seed))
		}

		var candidate uint64
		for _, b := range seed[sample.Consumed : sample.Consumed+width] {
			candidate = candidate<<8 | uint64(b)
		}
		sample.Consumed += width
		candidate &= mask

		v := int(candidate)
		if v >= poolSize || drawn[v] {
			sample.Rejected++
			continue
		}
		drawn[v] = true
		sample.Values = append(sample.Values, v)
	}

	return sample, nil
}
