// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"math/big"
	"strings"
	"unicode/utf8"
)

// SimilarityThreshold is the edit-distance ratio above which two passwords are flagged.
const SimilarityThreshold = 0.7

// MaxSuffixStep is the largest trailing number difference reported as an increment.
const MaxSuffixStep = 2

// SimilarityTest names the test that flagged a candidate.
type SimilarityTest string

const (
	TestNone        SimilarityTest = ""
	TestSubstring   SimilarityTest = "substring"
	TestEditRatio   SimilarityTest = "edit-distance"
	TestIncremental SimilarityTest = "incremental-suffix"
)

const (
	reasonSubstring = "This password contains, or is contained in, one of your previous passwords. " +
		"Attackers that know an old password can guess it by modifying it."
	reasonEditRatio = "This password is very similar to one of your previous passwords. " +
		"Reusing near-identical passwords helps attackers who compromised an older one."
	reasonIncremental = "This password only changes the trailing number of a previous password. " +
		"Incrementing a counter is one of the first things an attacker tries."
)

// Similarity is the verdict of IsSimilarToAny. Index is the position of the matching
// history entry, or -1.
type Similarity struct {
	Similar bool           `json:"similar"`
	Test    SimilarityTest `json:"test,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Index   int            `json:"-"`
}

var notSimilar = Similarity{Index: -1}

// IsSimilarToAny runs the substring, edit-distance and incremental-suffix tests in that
// priority order. A test is run against the whole history before the next one starts, and
// the first hit wins. An empty candidate is never similar.
func IsSimilarToAny(candidate string, history []Sample) Similarity {
	if candidate == "" || len(history) == 0 {
		return notSimilar
	}

	for i, h := range history {
		if h.Value == "" {
			continue
		}
		if strings.Contains(h.Value, candidate) || strings.Contains(candidate, h.Value) {
			return Similarity{Similar: true, Test: TestSubstring, Reason: reasonSubstring, Index: i}
		}
	}

	for i, h := range history {
		if h.Value == "" {
			continue
		}
		if EditSimilarity(candidate, h.Value) > SimilarityThreshold {
			return Similarity{Similar: true, Test: TestEditRatio, Reason: reasonEditRatio, Index: i}
		}
	}

	for i, h := range history {
		if IsIncrement(candidate, h.Value) {
			return Similarity{Similar: true, Test: TestIncremental, Reason: reasonIncremental, Index: i}
		}
	}

	return notSimilar
}

// EditSimilarity is 1 - distance/max(len(a), len(b)), measured in runes. Two empty strings
// are identical.
func EditSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Levenshtein is the unit-cost edit distance over runes, computed on the full matrix.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	m := make([][]int, len(ra)+1)
	for i := range m {
		m[i] = make([]int, len(rb)+1)
		m[i][0] = i
	}
	for j := range m[0] {
		m[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			m[i][j] = min(m[i-1][j]+1, m[i][j-1]+1, m[i-1][j-1]+cost)
		}
	}

	return m[len(ra)][len(rb)]
}

// IsIncrement reports whether a and b share the same non-digit prefix and end in numbers
// that differ by at most MaxSuffixStep.
func IsIncrement(a, b string) bool {
	baseA, numA, okA := splitNumericSuffix(a)
	baseB, numB, okB := splitNumericSuffix(b)
	if !okA || !okB || baseA != baseB {
		return false
	}

	diff := new(big.Int).Sub(numA, numB)
	return diff.Abs(diff).Cmp(big.NewInt(MaxSuffixStep)) <= 0
}

func splitNumericSuffix(s string) (string, *big.Int, bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, nil, false
	}

	n, ok := new(big.Int).SetString(s[i:], 10)
	return s[:i], n, ok
}
