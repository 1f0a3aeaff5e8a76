// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alvinbaena/pwd-meter/pkg/generate"
	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/rs/zerolog/log"
)

// BreachChecker looks up how often a password appears in known breaches.
type BreachChecker interface {
	Lookup(ctx context.Context, password string) hibp.Result
}

type Options struct {
	// Remote is optional. Without it results are always local.
	Remote DeepAnalyzer
	// Breach is optional. Without it the breach result is skipped.
	Breach        BreachChecker
	RemoteTimeout time.Duration
	BreachTimeout time.Duration
	// Suggestions is the number of local random suggestions. Zero disables them.
	Suggestions int
}

// Analyzer computes the local estimate and merges whatever the collaborators return in
// time.
type Analyzer struct {
	opts Options
}

func NewAnalyzer(opts Options) *Analyzer {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = 5 * time.Second
	}
	if opts.BreachTimeout <= 0 {
		opts.BreachTimeout = 5 * time.Second
	}

	return &Analyzer{opts: opts}
}

// Analyze never fails: collaborator errors and timeouts degrade to the local estimate and
// are reported as notices.
func (a *Analyzer) Analyze(ctx context.Context, password string) Result {
	res := local(password)
	if password == "" {
		return res
	}

	var (
		wg     sync.WaitGroup
		remote Outcome[Report]
		breach hibp.Result
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		remote = a.deepAnalyze(ctx, password)
	}()
	go func() {
		defer wg.Done()
		breach = a.lookup(ctx, password)
	}()

	a.fillLocal(&res, password)
	wg.Wait()

	if remote.OK() {
		res.merge(remote.Value)
	} else if !errors.Is(remote.Err, ErrNoRemote) {
		log.Warn().Err(remote.Err).Msg("Deep analysis failed, falling back to local estimate")
		res.Notices = append(res.Notices, NoticeLocal)
	}

	res.Breach = breach
	if breach.Status == hibp.Unavailable && !errors.Is(breach.Err, hibp.ErrSkipped) {
		res.Notices = append(res.Notices, NoticeBreachUnavailable)
	}

	res.classify()
	return res
}

func (a *Analyzer) fillLocal(res *Result, password string) {
	if hardened, err := generate.Harden(password); err == nil {
		res.Hardened = hardened
	} else {
		log.Warn().Err(err).Msg("Could not harden password")
	}

	if a.opts.Suggestions > 0 {
		if s, err := generate.Suggestions(a.opts.Suggestions, generate.DefaultLength); err == nil {
			res.Suggestions = s
		} else {
			log.Warn().Err(err).Msg("Could not generate suggestions")
		}
	}
}

func (a *Analyzer) deepAnalyze(ctx context.Context, password string) Outcome[Report] {
	if a.opts.Remote == nil {
		return Fail[Report](ErrNoRemote)
	}

	return within(ctx, a.opts.RemoteTimeout, func(ctx context.Context) Outcome[Report] {
		return a.opts.Remote.DeepAnalyze(ctx, password)
	}, Fail[Report])
}

func (a *Analyzer) lookup(ctx context.Context, password string) hibp.Result {
	if a.opts.Breach == nil {
		return hibp.Skipped()
	}

	return within(ctx, a.opts.BreachTimeout, func(ctx context.Context) hibp.Result {
		return a.opts.Breach.Lookup(ctx, password)
	}, hibp.Failure)
}

// within runs fn with a deadline and gives up waiting when the deadline passes, even if fn
// ignores its context.
func within[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) T, onDone func(error) T) T {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan T, 1)
	go func() {
		ch <- fn(ctx)
	}()

	select {
	case v := <-ch:
		return v
	case <-ctx.Done():
		return onDone(ctx.Err())
	}
}
