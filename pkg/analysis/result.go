package analysis

import (
	"math"

	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/alvinbaena/pwd-meter/pkg/strength"
)

// Source tells where the headline numbers of a result came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// NoticeLocal is shown when deep analysis was requested but the local estimate is used.
const NoticeLocal = "using local analysis"

// NoticeBreachUnavailable is shown when the breach lookup failed or timed out.
const NoticeBreachUnavailable = "breach lookup unavailable"

// Result is the merged, normalized analysis of one password.
type Result struct {
	Source         Source                      `json:"source"`
	Sample         strength.Sample             `json:"sample"`
	EntropyBits    float64                     `json:"entropyBits"`
	Classification strength.Classification     `json:"classification"`
	Estimate       strength.CrackEstimate      `json:"-"`
	CrackTimes     map[string]string           `json:"crackTimes"`
	Dictionary     strength.DictionaryEstimate `json:"dictionary"`
	Observations   []string                    `json:"observations"`
	Compromised    bool                        `json:"compromised"`
	Breach         hibp.Result                 `json:"breach"`
	Hardened       string                      `json:"hardened,omitempty"`
	Suggestions    []string                    `json:"suggestions,omitempty"`
	Notices        []string                    `json:"notices,omitempty"`
}

// Exposed reports whether the password must be treated as compromised regardless of its
// entropy.
func (r Result) Exposed() bool {
	return r.Compromised || r.Breach.Exposed()
}

func local(password string) Result {
	sample := strength.Estimate(password)
	est := strength.SimulateCrackTimes(sample.EntropyBits)

	return Result{
		Source:         SourceLocal,
		Sample:         sample,
		EntropyBits:    sample.EntropyBits,
		Classification: strength.Classify(sample.EntropyBits),
		Estimate:       est,
		CrackTimes:     est.Display(),
		Dictionary:     strength.EstimateDictionary(password, nil),
		Observations:   strength.ObservationList(password),
		Breach:         hibp.Skipped(),
	}
}

// merge lays the fields present in the report over the local baseline.
func (r *Result) merge(rep Report) {
	r.Source = SourceRemote

	if rep.Entropy != nil && *rep.Entropy >= 0 && !math.IsInf(*rep.Entropy, 0) && !math.IsNaN(*rep.Entropy) {
		r.EntropyBits = *rep.Entropy
		r.Estimate = strength.SimulateCrackTimes(r.EntropyBits)
		r.CrackTimes = r.Estimate.Display()
	}

	// Servers may key crack times by profile label.
	for key, display := range rep.CrackTimes {
		if display != "" {
			r.CrackTimes[strength.ProfileName(key)] = display
		}
	}

	if rep.Compromised != nil {
		r.Compromised = *rep.Compromised
	}

	if rep.Hardened != nil && *rep.Hardened != "" {
		r.Hardened = *rep.Hardened
	}

	if len(rep.Suggestions) > 0 {
		r.Suggestions = rep.Suggestions
	}
}

func (r *Result) classify() {
	r.Classification = strength.ClassifyExposed(r.EntropyBits, r.Exposed())
}
