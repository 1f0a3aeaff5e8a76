package strength

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xrash/smetrics"
)

func samples(values ...string) []Sample {
	out := make([]Sample, 0, len(values))
	for _, v := range values {
		out = append(out, Estimate(v))
	}
	return out
}

func TestIsSimilarToAny_Substring(t *testing.T) {
	sim := IsSimilarToAny("abc123", samples("abc123"))
	assert.True(t, sim.Similar)
	assert.Equal(t, TestSubstring, sim.Test)
	assert.Equal(t, 0, sim.Index)

	sim = IsSimilarToAny("myabc123!", samples("zzz", "abc123"))
	assert.True(t, sim.Similar)
	assert.Equal(t, TestSubstring, sim.Test)
	assert.Equal(t, 1, sim.Index)
}

func TestIsSimilarToAny_SubstringIsCaseSensitive(t *testing.T) {
	sim := IsSimilarToAny("ABC", samples("xyzabc"))
	assert.NotEqual(t, TestSubstring, sim.Test)
}

func TestIsSimilarToAny_TrailingCounter(t *testing.T) {
	// Edit distance outranks the increment test, both flag this pair.
	sim := IsSimilarToAny("Tr0ub4dor&4", samples("Tr0ub4dor&3"))
	assert.True(t, sim.Similar)
	assert.Equal(t, TestEditRatio, sim.Test)
	assert.True(t, IsIncrement("Tr0ub4dor&4", "Tr0ub4dor&3"))
}

func TestIsSimilarToAny_EditRatio(t *testing.T) {
	sim := IsSimilarToAny("abcdefghXY", samples("abcdefghij"))
	assert.True(t, sim.Similar)
	assert.Equal(t, TestEditRatio, sim.Test)
	assert.NotEmpty(t, sim.Reason)

	sim = IsSimilarToAny("abcdefWXYZ", samples("abcdefghij"))
	assert.False(t, sim.Similar)
}

func TestIsSimilarToAny_Incremental(t *testing.T) {
	sim := IsSimilarToAny("a1", samples("a3"))
	assert.True(t, sim.Similar)
	assert.Equal(t, TestIncremental, sim.Test)
}

func TestIsSimilarToAny_NotSimilar(t *testing.T) {
	for _, tc := range []struct {
		candidate string
		history   []Sample
	}{
		{"Xk9#mQ2$", samples("correcthorse")},
		{"anything", nil},
		{"", samples("abc")},
	} {
		sim := IsSimilarToAny(tc.candidate, tc.history)
		assert.False(t, sim.Similar, tc.candidate)
		assert.Equal(t, -1, sim.Index)
		assert.Empty(t, sim.Reason)
	}
}

func TestIsIncrement(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"summer2021", "summer2023", true},
		{"summer2021", "summer2024", false},
		{"summer", "summer1", false},
		{"a1", "b1", false},
		{"x99999999999999999999999", "x99999999999999999999998", true},
		{"7", "9", true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsIncrement(tc.a, tc.b), "%s vs %s", tc.a, tc.b)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"héllo", "hello", 1},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Levenshtein(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestLevenshtein_MatchesWagnerFischer(t *testing.T) {
	pairs := [][2]string{
		{"password", "passw0rd"},
		{"Tr0ub4dor&3", "Tr0ub4dor&33"},
		{"correct-horse", "battery-staple"},
		{"qwerty", "ytrewq"},
		{"a", "abcdefghijklmnop"},
	}

	for _, p := range pairs {
		assert.Equal(t, smetrics.WagnerFischer(p[0], p[1], 1, 1, 1), Levenshtein(p[0], p[1]), "%q vs %q", p[0], p[1])
		assert.Equal(t, Levenshtein(p[0], p[1]), Levenshtein(p[1], p[0]))
	}
}

func TestEditSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, EditSimilarity("", ""))
	assert.Equal(t, 1.0, EditSimilarity("same", "same"))
	assert.InDelta(t, 0.8, EditSimilarity("abcdefghij", "abcdefghXY"), 1e-9)
}
