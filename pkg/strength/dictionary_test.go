package strength

import (
	"slices"
	"testing"
)

func TestEstimateDictionary(t *testing.T) {
	weak := EstimateDictionary("password", nil)
	if weak.Score != 0 {
		t.Errorf("password should score 0, got %d", weak.Score)
	}
	if !slices.Contains(weak.Patterns, "dictionary") {
		t.Errorf("password should match a dictionary pattern, got %v", weak.Patterns)
	}

	strong := EstimateDictionary("x7$Lq!9vR#2mZp@4", nil)
	if strong.Score <= weak.Score {
		t.Errorf("Random password should score higher than a dictionary word: %d <= %d", strong.Score, weak.Score)
	}
	if strong.Entropy <= weak.Entropy {
		t.Errorf("Random password should have more entropy: %.2f <= %.2f", strong.Entropy, weak.Entropy)
	}
}

func TestEstimateDictionary_UserInputs(t *testing.T) {
	without := EstimateDictionary("fluffy1987", nil)
	with := EstimateDictionary("fluffy1987", []string{"fluffy1987"})
	if with.Entropy > without.Entropy {
		t.Errorf("User inputs should not raise entropy: %.2f > %.2f", with.Entropy, without.Entropy)
	}
}

func TestEstimateDictionary_Empty(t *testing.T) {
	est := EstimateDictionary("", nil)
	if est.Entropy != 0 || est.CrackTimeDisplay != "instant" {
		t.Errorf("Empty password should be instant with no entropy: %+v", est)
	}
}
