package api

import (
	"github.com/alvinbaena/pwd-meter/pkg/strength"
)

type passwordRequest struct {
	Password string `json:"password"`
}

// analyzeResponse carries the deep analysis fields consumed by clients, plus the local
// details they would otherwise recompute.
type analyzeResponse struct {
	Entropy        float64                     `json:"entropy"`
	CrackTimes     map[string]string           `json:"crackTimes"`
	Compromised    bool                        `json:"compromised"`
	Hardened       string                      `json:"hardened"`
	Suggestions    []string                    `json:"suggestions"`
	Classification strength.Classification     `json:"classification"`
	Observations   []string                    `json:"observations"`
	Dictionary     strength.DictionaryEstimate `json:"dictionary"`
}

type dnaResponse struct {
	Password       string                  `json:"password"`
	Entropy        float64                 `json:"entropy"`
	CrackTimes     map[string]string       `json:"crackTimes"`
	Classification strength.Classification `json:"classification"`
}

type hashRequest struct {
	Hash string `json:"hash" binding:"required"`
}

type queryResponse struct {
	Pwned    bool                         `json:"pwned"`
	Strength *strength.DictionaryEstimate `json:"strength,omitempty"`
}
