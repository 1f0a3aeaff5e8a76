package generate

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func countIn(s string, alphabet string) int {
	n := 0
	for _, r := range s {
		if strings.ContainsRune(alphabet, r) {
			n++
		}
	}
	return n
}

func sortedRunes(s string) string {
	r := []rune(s)
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && r[j] < r[j-1]; j-- {
			r[j], r[j-1] = r[j-1], r[j]
		}
	}
	return string(r)
}

func TestHarden(t *testing.T) {
	for _, p := range []string{"monkey", "ab", "", "contraseña"} {
		h, err := Harden(p)
		if err != nil {
			t.Fatalf("Should not fail hardening: %s", err)
		}

		if utf8.RuneCountInString(h) != utf8.RuneCountInString(p)+3 {
			t.Errorf("Harden(%q) should add 3 characters, got %q", p, h)
		}
		if countIn(h, uppercase) < 1+countIn(p, uppercase) {
			t.Errorf("Harden(%q) should add an uppercase letter: %q", p, h)
		}
		if countIn(h, digits) < 1+countIn(p, digits) {
			t.Errorf("Harden(%q) should add a digit: %q", p, h)
		}
		if countIn(h, punctuation) < 1+countIn(p, punctuation) {
			t.Errorf("Harden(%q) should add a punctuation character: %q", p, h)
		}
		for _, r := range p {
			if !strings.ContainsRune(h, r) {
				t.Errorf("Harden(%q) should keep %q: %q", p, r, h)
			}
		}
	}
}

func TestStrong(t *testing.T) {
	s, err := Strong(DefaultLength)
	if err != nil {
		t.Fatalf("Should not fail generating: %s", err)
	}
	if len(s) != DefaultLength {
		t.Errorf("Length: %d, want: %d", len(s), DefaultLength)
	}
	if countIn(s, allChars) != DefaultLength {
		t.Errorf("Every character should come from the alphabet: %q", s)
	}

	if _, err = Strong(0); err != ErrInvalidLength {
		t.Errorf("Zero length should fail with ErrInvalidLength, got %v", err)
	}
}

func TestSuggestions(t *testing.T) {
	out, err := Suggestions(3, 12)
	if err != nil {
		t.Fatalf("Should not fail generating: %s", err)
	}
	if len(out) != 3 {
		t.Fatalf("Should return 3 suggestions, got %d", len(out))
	}
	for _, s := range out {
		if len(s) != 12 {
			t.Errorf("Suggestion %q should have 12 characters", s)
		}
	}
}

func TestDNA(t *testing.T) {
	a := Answers{FavoriteCharacter: "Gandalf", ChildhoodPet: "Biscuit", DreamDestination: "Kyoto"}
	if !a.Complete() {
		t.Fatalf("Answers should be complete")
	}

	p, err := DNA(a)
	if err != nil {
		t.Fatalf("Should not fail generating: %s", err)
	}
	if utf8.RuneCountInString(p) != 11 {
		t.Fatalf("DNA password should have 11 characters, got %q", p)
	}

	// Removing the derived parts must leave exactly one upper, one digit and one punctuation.
	rest := []rune(sortedRunes(p))
	for _, r := range "Gan" + "uit" + "Ky" {
		for i, c := range rest {
			if c == r {
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	if len(rest) != 3 {
		t.Fatalf("DNA password %q should contain the derived parts", p)
	}
	left := string(rest)
	if countIn(left, uppercase) != 1 || countIn(left, digits) != 1 || countIn(left, punctuation) != 1 {
		t.Errorf("Extra characters should be one upper, one digit and one punctuation: %q", left)
	}
}

func TestDNA_ShortAnswers(t *testing.T) {
	a := Answers{FavoriteCharacter: "Al", ChildhoodPet: "Ed", DreamDestination: "X"}
	p, err := DNA(a)
	if err != nil {
		t.Fatalf("Should not fail generating: %s", err)
	}

	// "Al" and "X" are used as they are, only the pet is padded to 3 characters.
	if utf8.RuneCountInString(p) != 9 {
		t.Errorf("DNA password should have 9 characters, got %q", p)
	}
	for _, r := range "AlEdX" {
		if !strings.ContainsRune(p, r) {
			t.Errorf("DNA password %q should contain %q", p, r)
		}
	}

	p, err = DNA(Answers{ChildhoodPet: "Ed"})
	if err != nil {
		t.Fatalf("Should not fail generating: %s", err)
	}
	if utf8.RuneCountInString(p) != 6 {
		t.Errorf("Missing answers should not be padded, got %q", p)
	}
	if (Answers{ChildhoodPet: "Ed"}).Complete() {
		t.Errorf("Answers should not be complete")
	}
}
