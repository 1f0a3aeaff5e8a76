// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"fmt"
	"math"
)

// Profile is an attacker with a fixed guessing rate.
type Profile struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// Profiles are the canonical attackers, ordered from slowest to fastest.
var Profiles = []Profile{
	{Name: "Online", Label: "Online (1k guesses/sec)", Rate: 1e3},
	{Name: "FastGPU", Label: "Fast GPU (1 trillion guesses/sec)", Rate: 1e12},
	{Name: "Supercomputer", Label: "Supercomputer (100 trillion/sec)", Rate: 1e14},
}

// ProfileName resolves a profile name or display label to the profile name. Unknown keys
// are returned unchanged.
func ProfileName(key string) string {
	for _, p := range Profiles {
		if key == p.Name || key == p.Label {
			return p.Name
		}
	}
	return key
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3_600
	secondsPerDay    = 86_400
	secondsPerMonth  = 2_592_000
	secondsPerYear   = 31_536_000

	// Past 2^maxLinearLog2 seconds the value is formatted from its logarithm.
	maxLinearLog2 = 1000
	// Year counts at or above this use scientific notation.
	scientificYears = 1e15
	// MaxEntropyBits is the ceiling applied to entropies before computing durations.
	MaxEntropyBits = 1e15
)

var buckets = []struct {
	below   float64
	divisor float64
	unit    string
}{
	{secondsPerMinute, 1, "sec"},
	{secondsPerHour, secondsPerMinute, "min"},
	{secondsPerDay, secondsPerHour, "hr"},
	{secondsPerMonth, secondsPerDay, "days"},
	{secondsPerYear, secondsPerMonth, "months"},
}

// Duration is a crack time kept in log2 seconds so that huge entropies never overflow.
type Duration struct {
	Log2Seconds float64 `json:"log2Seconds"`
}

// Seconds returns the duration in seconds, saturating at math.MaxFloat64.
func (d Duration) Seconds() float64 {
	if d.Log2Seconds > maxLinearLog2 {
		return math.MaxFloat64
	}
	return math.Exp2(d.Log2Seconds)
}

func (d Duration) String() string {
	log2s := saturate(d.Log2Seconds)
	if log2s <= maxLinearLog2 {
		return FormatDuration(math.Exp2(log2s))
	}

	l10 := log2s*math.Log10(2) - math.Log10(secondsPerYear)
	exp := math.Floor(l10)
	mantissa := math.Pow(10, l10-exp)
	if mantissa >= 9.995 {
		mantissa /= 10
		exp++
	}
	return fmt.Sprintf("%.2fe+%.0f years", mantissa, exp)
}

// saturate keeps a log2 value within [-Inf, MaxEntropyBits]. NaN becomes 0.
func saturate(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(v, MaxEntropyBits)
}

// FormatDuration renders seconds in the largest fitting unit with two decimals.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	if math.IsInf(seconds, 1) {
		seconds = math.MaxFloat64
	}

	for _, b := range buckets {
		if seconds < b.below {
			return fmt.Sprintf("%.2f %s", seconds/b.divisor, b.unit)
		}
	}

	years := seconds / secondsPerYear
	if years >= scientificYears {
		return fmt.Sprintf("%.2e years", years)
	}
	return fmt.Sprintf("%.2f years", years)
}

// CrackDuration is the time to exhaust 2^entropyBits guesses at rate guesses per second.
// Entropies above MaxEntropyBits, infinity included, are clamped to it.
func CrackDuration(entropyBits float64, rate float64) Duration {
	if math.IsNaN(entropyBits) || entropyBits < 0 {
		entropyBits = 0
	}
	entropyBits = min(entropyBits, MaxEntropyBits)
	return Duration{Log2Seconds: entropyBits - math.Log2(rate)}
}

// CrackTime is the estimate for one attacker profile.
type CrackTime struct {
	Profile  Profile  `json:"profile"`
	Duration Duration `json:"duration"`
	Display  string   `json:"display"`
}

// CrackEstimate holds one CrackTime per profile, in Profiles order.
type CrackEstimate []CrackTime

// SimulateCrackTimes assumes uniform brute force over the whole 2^entropyBits space. It
// ignores dictionary and pattern attacks; see EstimateDictionary for that model.
func SimulateCrackTimes(entropyBits float64) CrackEstimate {
	est := make(CrackEstimate, 0, len(Profiles))
	for _, p := range Profiles {
		d := CrackDuration(entropyBits, p.Rate)
		est = append(est, CrackTime{Profile: p, Duration: d, Display: d.String()})
	}
	return est
}

// Display maps profile name to the formatted duration.
func (e CrackEstimate) Display() map[string]string {
	m := make(map[string]string, len(e))
	for _, t := range e {
		m[t.Profile.Name] = t.Display
	}
	return m
}

func (e CrackEstimate) Lookup(name string) (CrackTime, bool) {
	for _, t := range e {
		if t.Profile.Name == name {
			return t, true
		}
	}
	return CrackTime{}, false
}
