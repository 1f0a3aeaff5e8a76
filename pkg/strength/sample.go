// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package strength estimates password strength from character pool entropy, simulates
// brute-force crack times, lists security observations and compares passwords against
// previously used ones.
package strength

import (
	"math"
	"strings"
	"unicode/utf8"
)

// CharClass is a bit set of the character classes present in a password.
type CharClass uint8

const (
	Lowercase CharClass = 1 << iota
	Uppercase
	Digit
	Symbol
)

// Alphabet sizes added to the pool when a class is present.
const (
	lowercasePool = 26
	uppercasePool = 26
	digitPool     = 10
	symbolPool    = 33
)

var classes = []struct {
	class CharClass
	size  int
	name  string
}{
	{Lowercase, lowercasePool, "lowercase"},
	{Uppercase, uppercasePool, "uppercase"},
	{Digit, digitPool, "digit"},
	{Symbol, symbolPool, "symbol"},
}

// Has reports whether every class in o is present in c.
func (c CharClass) Has(o CharClass) bool {
	return c&o == o
}

func (c CharClass) String() string {
	var names []string
	for _, cl := range classes {
		if c.Has(cl.class) {
			names = append(names, cl.name)
		}
	}

	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// PoolSize is the sum of the alphabet sizes of the classes present.
func (c CharClass) PoolSize() int {
	pool := 0
	for _, cl := range classes {
		if c.Has(cl.class) {
			pool += cl.size
		}
	}
	return pool
}

// Sample is the local estimate for a single candidate password.
type Sample struct {
	Value       string    `json:"-"`
	Length      int       `json:"length"`
	Classes     CharClass `json:"-"`
	PoolSize    int       `json:"poolSize"`
	EntropyBits float64   `json:"entropyBits"`
}

// Estimate computes the pool size and entropy of a password. Character classes are a
// presence test: one digit counts the same as fifty.
func Estimate(password string) Sample {
	cls := classify(password)
	length := utf8.RuneCountInString(password)
	pool := cls.PoolSize()

	return Sample{
		Value:       password,
		Length:      length,
		Classes:     cls,
		PoolSize:    pool,
		EntropyBits: Entropy(length, pool),
	}
}

// Entropy is length * log2(pool), rounded to two decimals. A zero pool is treated as 1.
func Entropy(length int, pool int) float64 {
	if length <= 0 {
		return 0
	}
	return round2(float64(length) * math.Log2(float64(max(pool, 1))))
}

func classify(password string) CharClass {
	var cls CharClass
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			cls |= Lowercase
		case r >= 'A' && r <= 'Z':
			cls |= Uppercase
		case r >= '0' && r <= '9':
			cls |= Digit
		default:
			cls |= Symbol
		}
	}
	return cls
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
