package analysis

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned to a submission that was overtaken by a newer one.
var ErrSuperseded = errors.New("analysis superseded by a newer submission")

// Session serializes the user's submissions: only the latest one gets a result. Submitting
// cancels the context of the previous in-flight analysis.
type Session struct {
	analyzer *Analyzer

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSession(analyzer *Analyzer) *Session {
	return &Session{analyzer: analyzer}
}

func (s *Session) Submit(ctx context.Context, password string) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.seq++
	id := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	res := s.analyzer.Analyze(ctx, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.seq {
		return Result{}, ErrSuperseded
	}
	s.cancel = nil

	return res, nil
}
