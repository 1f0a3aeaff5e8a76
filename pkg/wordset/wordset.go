// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package wordset stores a large list of compromised passwords as a Golomb-coded set: a
// sorted list of truncated hashes whose gaps are Rice coded. Membership queries may give
// false positives at a rate of 1 in P, never false negatives.
//
// https://giovanni.bajo.it/post/47119962313/golomb-coded-sets-smaller-than-bloom-filters
package wordset

import (
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

// File layout, all integers big endian:
//
//	[rice coded gaps][index: (value, bit position) pairs][N][P][end of data][index len][magic]
const (
	magic     = "PWDMWS01"
	footerLen = 5 * 8
)

var (
	ErrNotWordset  = errors.New("not a wordset file")
	ErrProbability = errors.New("false positive rate must be at least 2")
	ErrInvalidHash = errors.New("hash must have at least 16 hex characters")
)

type indexPair struct {
	value  uint64
	bitPos uint64
}

// HashWord hashes a word the same way range services do (SHA-1) and keeps the first 64
// bits.
func HashWord(word string) uint64 {
	sum := sha1.Sum([]byte(word))
	return binary.BigEndian.Uint64(sum[:8])
}

// HashHex takes the first 64 bits of a hex encoded hash such as a SHA-1 from a breach dump.
func HashHex(hex string) (uint64, error) {
	if len(hex) < 16 {
		return 0, ErrInvalidHash
	}

	v, err := strconv.ParseUint(hex[:16], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	return v, nil
}

// remainderBits is the number of bits needed to hold a remainder modulo p.
func remainderBits(p uint64) uint8 {
	return uint8(bits.Len64(p - 1))
}

// normalise maps a hash into [1, n*p]. Zero is reserved as the end of data marker.
func normalise(h uint64, n uint64, p uint64) uint64 {
	return h%(n*p) + 1
}

func dedup(values []uint64) []uint64 {
	if len(values) < 2 {
		return values
	}

	e := 1
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			continue
		}
		values[e] = values[i]
		e++
	}

	return values[:e]
}
