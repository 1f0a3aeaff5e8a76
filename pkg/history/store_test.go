package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alvinbaena/pwd-meter/pkg/strength"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   NewFileBackend(filepath.Join(t.TempDir(), "nested")),
		"sqlite": sqlite,
	}
}

func clock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewStore(backend)

			entries, err := s.Load()
			require.NoError(t, err)
			assert.Empty(t, entries)

			created := time.Date(2024, 3, 1, 10, 30, 15, 123456789, time.FixedZone("X", 3600))
			require.NoError(t, s.Save([]Entry{{
				ID:          "1",
				Password:    "hunter2",
				CreatedAt:   created,
				EntropyBits: 36.19,
				Labels:      []string{"work", "bank", "work", " "},
			}}))

			entries, err = s.Load()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, 36.19, entries[0].EntropyBits)
			assert.Equal(t, []string{"bank", "work"}, entries[0].Labels)
			assert.True(t, created.Equal(entries[0].CreatedAt))
		})
	}
}

func TestStore_CorruptLoadsEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(Key, []byte("{not json")))

	entries, err := NewStore(backend).Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_Add(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	s.now = clock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	e, sim, err := s.Add("correct-horse", []string{"home"}, false)
	require.NoError(t, err)
	assert.False(t, sim.Similar)
	assert.Len(t, e.ID, 26)
	assert.Equal(t, strength.Estimate("correct-horse").EntropyBits, e.EntropyBits)
	assert.Equal(t, "*************", e.Masked())

	_, sim, err = s.Add("correct-horse!", nil, false)
	assert.ErrorIs(t, err, ErrSimilar)
	assert.True(t, sim.Similar)
	assert.Equal(t, strength.TestSubstring, sim.Test)

	_, _, err = s.Add("correct-horse!", nil, true)
	require.NoError(t, err)

	entries, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, _, err = s.Add("", nil, true)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestStore_Check(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	_, _, err := s.Add("summer2021", nil, false)
	require.NoError(t, err)

	sim, err := s.Check("Xq7#vL9!pR")
	require.NoError(t, err)
	assert.False(t, sim.Similar)

	sim, err = s.Check("summer2022")
	require.NoError(t, err)
	assert.True(t, sim.Similar)
}

func TestStore_RemoveAndList(t *testing.T) {
	s := NewStore(NewMemoryBackend())
	s.now = clock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	first, _, err := s.Add("alpha-Q9#", []string{"a"}, false)
	require.NoError(t, err)
	second, _, err := s.Add("7&zTm!pw", []string{"b"}, false)
	require.NoError(t, err)
	third, _, err := s.Add("Kx$40vv_LL", []string{"a", "b"}, false)
	require.NoError(t, err)

	list, err := s.List("")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	list, err = s.List("a")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.Remove(second.ID))
	assert.ErrorIs(t, s.Remove(second.ID), ErrNotFound)

	list, err = s.List("b")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, third.ID, list[0].ID)

	e, err := s.SetLabels(first.ID, []string{"z", "z", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "z"}, e.Labels)

	_, err = s.SetLabels("missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackend_Missing(t *testing.T) {
	_, err := NewFileBackend(t.TempDir()).Get(Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteBackend_Upsert(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set("k", []byte("one")))
	require.NoError(t, b.Set("k", []byte("two")))

	v, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(v))
}
