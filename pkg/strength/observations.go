package strength

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// MinLength is the shortest password that does not trigger the length observation.
const MinLength = 8

// CommonPasswords is the static list checked case-insensitively.
var CommonPasswords = []string{"password", "123456", "qwerty", "admin", "welcome", "password123"}

var (
	keyboardPattern = regexp.MustCompile(`(?i)^(qwerty|asdfgh|zxcvbn)`)
	wordThenDigits  = regexp.MustCompile(`^[a-zA-Z]+[0-9]+$`)
)

type check struct {
	fires   func(password string, s Sample) bool
	message string
}

func missing(c CharClass) func(string, Sample) bool {
	return func(_ string, s Sample) bool {
		return !s.Classes.Has(c)
	}
}

// Order matters: observations are reported in this order.
var checks = []check{
	{missing(Lowercase), "Missing lowercase letters"},
	{missing(Uppercase), "Missing uppercase letters"},
	{missing(Digit), "Missing numbers"},
	{missing(Symbol), "Missing special characters"},
	{
		func(_ string, s Sample) bool { return s.Length < MinLength },
		"Password is too short (at least 8 characters recommended)",
	},
	{
		func(p string, _ Sample) bool { return IsCommonPassword(p) },
		"This is one of the most commonly used passwords and is extremely vulnerable",
	},
	{
		func(p string, _ Sample) bool { return keyboardPattern.MatchString(p) },
		"Keyboard pattern detected, easy to guess",
	},
	{
		func(p string, _ Sample) bool { return hasRepeatedRun(p, 3) },
		"Repeated characters detected, which reduces entropy",
	},
	{
		func(p string, _ Sample) bool { return wordThenDigits.MatchString(p) },
		"Simple word followed by numbers, a highly predictable pattern",
	},
}

// Observations yields one message per failed check, in check order. The sequence is
// computed lazily and can be ranged over again by calling Observations again.
func Observations(password string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s := Estimate(password)
		for _, c := range checks {
			if c.fires(password, s) && !yield(c.message) {
				return
			}
		}
	}
}

// ObservationList collects Observations into a slice.
func ObservationList(password string) []string {
	return slices.Collect(Observations(password))
}

// IsCommonPassword reports membership in CommonPasswords, ignoring case.
func IsCommonPassword(password string) bool {
	return slices.Contains(CommonPasswords, strings.ToLower(password))
}

// hasRepeatedRun matches (.)\1{n-1,}; RE2 has no backreferences.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range []rune(s) {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}
