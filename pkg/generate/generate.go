// Package generate builds stronger password candidates: hardened variants of a password,
// random strong passwords and passwords derived from personal answers.
package generate

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	lowercase   = "abcdefghijklmnopqrstuvwxyz"
	uppercase   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	allChars    = lowercase + uppercase + digits + punctuation

	// DefaultLength of a random strong password.
	DefaultLength = 16
	// hardenAt is the rune position where the hardening characters are inserted.
	hardenAt = 3
)

var ErrInvalidLength = errors.New("password length must be positive")

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

func pick(alphabet string) (rune, error) {
	i, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return rune(alphabet[i]), nil
}

func shuffle(r []rune) error {
	for i := len(r) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return err
		}
		r[i], r[j] = r[j], r[i]
	}
	return nil
}

// one draws one rune from each alphabet, in order.
func one(alphabets ...string) ([]rune, error) {
	out := make([]rune, 0, len(alphabets))
	for _, a := range alphabets {
		r, err := pick(a)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Harden inserts an uppercase letter, a digit and a punctuation character after the first
// three characters of password and shuffles the result.
func Harden(password string) (string, error) {
	runes := []rune(password)
	at := min(hardenAt, len(runes))

	extra, err := one(uppercase, digits, punctuation)
	if err != nil {
		return "", err
	}

	out := make([]rune, 0, len(runes)+len(extra))
	out = append(out, runes[:at]...)
	out = append(out, extra...)
	out = append(out, runes[at:]...)

	if err = shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// Strong returns a random password of length characters drawn from letters, digits and
// punctuation.
func Strong(length int) (string, error) {
	if length <= 0 {
		return "", ErrInvalidLength
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		r, err := pick(allChars)
		if err != nil {
			return "", err
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// Suggestions returns n random strong passwords of the given length.
func Suggestions(n int, length int) ([]string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := Strong(length)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Answers are the personal questions a DNA password is derived from.
type Answers struct {
	FavoriteCharacter string `json:"favoriteCharacter"`
	ChildhoodPet      string `json:"childhoodPet"`
	DreamDestination  string `json:"dreamDestination"`
}

// Complete reports whether all answers are present.
func (a Answers) Complete() bool {
	return strings.TrimSpace(a.FavoriteCharacter) != "" &&
		strings.TrimSpace(a.ChildhoodPet) != "" &&
		strings.TrimSpace(a.DreamDestination) != ""
}

// Values lists the answers, useful as user inputs for dictionary scoring.
func (a Answers) Values() []string {
	return []string{a.FavoriteCharacter, a.ChildhoodPet, a.DreamDestination}
}

// DNA derives a password from the answers: the first three characters of the favorite
// character, the last three of the pet and the first two of the destination, plus one
// uppercase letter, one digit and one punctuation character, shuffled. A pet shorter than
// three characters is padded with random lowercase letters; shorter character and
// destination answers are used as they are.
func DNA(a Answers) (string, error) {
	char := head(a.FavoriteCharacter, 3)
	pet, err := tail(a.ChildhoodPet, 3)
	if err != nil {
		return "", err
	}
	dest := head(a.DreamDestination, 2)

	extra, err := one(uppercase, digits, punctuation)
	if err != nil {
		return "", err
	}

	out := make([]rune, 0, len(char)+len(pet)+len(dest)+len(extra))
	out = append(out, char...)
	out = append(out, pet...)
	out = append(out, dest...)
	out = append(out, extra...)

	if err = shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func head(s string, n int) []rune {
	r := []rune(s)
	if len(r) >= n {
		return r[:n]
	}
	return r
}

func tail(s string, n int) ([]rune, error) {
	r := []rune(s)
	if len(r) >= n {
		return r[len(r)-n:], nil
	}
	return pad(r, n)
}

func pad(r []rune, n int) ([]rune, error) {
	out := append([]rune(nil), r...)
	for len(out) < n {
		c, err := pick(lowercase)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
