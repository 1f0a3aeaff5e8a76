package strength

import (
	"github.com/nbutton23/zxcvbn-go"
)

// DictionaryEstimate is the pattern-aware model: dictionary words, keyboard walks, dates
// and repeats are matched and scored by zxcvbn. It is reported next to the brute-force
// CrackEstimate and never merged into it.
type DictionaryEstimate struct {
	Entropy          float64  `json:"entropy"`
	Score            int      `json:"score"`
	CrackTimeSeconds float64  `json:"crackTimeSeconds"`
	CrackTimeDisplay string   `json:"crackTimeDisplay"`
	Patterns         []string `json:"patterns,omitempty"`
}

// EstimateDictionary scores a password against zxcvbn's dictionaries plus userInputs, such
// as previous passwords or personal answers.
func EstimateDictionary(password string, userInputs []string) DictionaryEstimate {
	if password == "" {
		return DictionaryEstimate{CrackTimeDisplay: "instant"}
	}

	res := zxcvbn.PasswordStrength(password, userInputs)
	est := DictionaryEstimate{
		Entropy:          round2(res.Entropy),
		Score:            res.Score,
		CrackTimeSeconds: res.CrackTime,
		CrackTimeDisplay: res.CrackTimeDisplay,
	}

	seen := make(map[string]bool)
	for _, m := range res.MatchSequence {
		if m.Pattern != "" && !seen[m.Pattern] {
			seen[m.Pattern] = true
			est.Patterns = append(est.Patterns, m.Pattern)
		}
	}

	return est
}
