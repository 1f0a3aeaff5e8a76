// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package history keeps the passwords a user chose to remember, so new candidates can be
// compared against them.
//
// Every mutation reads the full list, changes it and writes the full list back. There is
// no locking between stores sharing a backend: with concurrent writers the last writer
// wins.
package history

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alvinbaena/pwd-meter/pkg/strength"
	"github.com/jfcg/sorty/v2"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// Key is the backend key the history list is stored under.
const Key = "passwordHistory"

var (
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrSimilar       = errors.New("password is too similar to one in history")
)

// Entry is a remembered password. The password is stored raw and masked for display.
type Entry struct {
	ID          string    `json:"id"`
	Password    string    `json:"password"`
	CreatedAt   time.Time `json:"createdAt"`
	EntropyBits float64   `json:"entropy"`
	Labels      []string  `json:"labels"`
}

func (e Entry) Masked() string {
	return strings.Repeat("*", len([]rune(e.Password)))
}

type Store struct {
	backend Backend
	now     func() time.Time
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// Load returns the stored entries. A missing or corrupt list loads as empty.
func (s *Store) Load() ([]Entry, error) {
	data, err := s.backend.Get(Key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading history: %w", err)
	}

	var entries []Entry
	if err = json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Msg("History is corrupt, starting with an empty list")
		return nil, nil
	}

	return entries, nil
}

// Save replaces the stored list.
func (s *Store) Save(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	for i := range entries {
		entries[i].Labels = normaliseLabels(entries[i].Labels)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	if err = s.backend.Set(Key, data); err != nil {
		return fmt.Errorf("error writing history: %w", err)
	}
	return nil
}

// Check compares a candidate with every stored password.
func (s *Store) Check(password string) (strength.Similarity, error) {
	entries, err := s.Load()
	if err != nil {
		return strength.Similarity{}, err
	}

	return strength.IsSimilarToAny(password, samples(entries)), nil
}

// Add remembers a password. Unless force is set, a password similar to a stored one is
// rejected with ErrSimilar and the similarity that triggered it.
func (s *Store) Add(password string, labels []string, force bool) (Entry, strength.Similarity, error) {
	if password == "" {
		return Entry{}, strength.Similarity{Index: -1}, ErrEmptyPassword
	}

	entries, err := s.Load()
	if err != nil {
		return Entry{}, strength.Similarity{}, err
	}

	sim := strength.IsSimilarToAny(password, samples(entries))
	if sim.Similar && !force {
		return Entry{}, sim, fmt.Errorf("%w: %s", ErrSimilar, sim.Reason)
	}

	now := s.now()
	id, err := ulid.New(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return Entry{}, sim, err
	}

	entry := Entry{
		ID:          id.String(),
		Password:    password,
		CreatedAt:   now.UTC(),
		EntropyBits: strength.Estimate(password).EntropyBits,
		Labels:      normaliseLabels(labels),
	}

	if err = s.Save(append(entries, entry)); err != nil {
		return Entry{}, sim, err
	}

	log.Debug().Str("id", entry.ID).Msg("Added password to history")
	return entry, sim, nil
}

// Remove deletes an entry by id.
func (s *Store) Remove(id string) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}

	i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("history entry %s: %w", id, ErrNotFound)
	}

	return s.Save(slices.Delete(entries, i, i+1))
}

// SetLabels replaces the labels of an entry.
func (s *Store) SetLabels(id string, labels []string) (Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return Entry{}, err
	}

	i := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, fmt.Errorf("history entry %s: %w", id, ErrNotFound)
	}

	entries[i].Labels = normaliseLabels(labels)
	if err = s.Save(entries); err != nil {
		return Entry{}, err
	}
	return entries[i], nil
}

// List returns the entries newest first, optionally only those carrying label.
func (s *Store) List(label string) ([]Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}

	if label != "" {
		entries = slices.DeleteFunc(entries, func(e Entry) bool {
			return !slices.Contains(e.Labels, label)
		})
	}

	sorty.Sort(len(entries), func(i, k, r, s int) bool {
		if entries[i].CreatedAt.After(entries[k].CreatedAt) ||
			(entries[i].CreatedAt.Equal(entries[k].CreatedAt) && entries[i].ID > entries[k].ID) {
			if r != s {
				entries[r], entries[s] = entries[s], entries[r]
			}
			return true
		}
		return false
	})

	return entries, nil
}

func samples(entries []Entry) []strength.Sample {
	out := make([]strength.Sample, 0, len(entries))
	for _, e := range entries {
		out = append(out, strength.Estimate(e.Password))
	}
	return out
}

// normaliseLabels makes labels a set: trimmed, without empties or duplicates, sorted.
func normaliseLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}

	slices.Sort(out)
	return slices.Compact(out)
}
