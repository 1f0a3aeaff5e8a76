// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package wordset

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// status logs the progress of the build stages.
type status struct {
	stageName  string
	workCount  uint64
	doneCount  atomic.Uint64
	step       uint64
	start      time.Time
	stageStart time.Time
	printer    *message.Printer
}

func newStatus() *status {
	return &status{start: time.Now(), printer: message.NewPrinter(language.English)}
}

func (s *status) Stage(stage string) {
	s.FinishStage()

	s.stageName = stage
	log.Info().Msgf("%s starting...", s.stageName)

	s.stageStart = time.Now()
	s.doneCount.Store(0)
}

func (s *status) SetWork(count uint64) {
	s.workCount = count
	s.step = count / 20
}

func (s *status) StageWork(name string, work uint64) {
	s.Stage(name)
	s.SetWork(work)
}

func (s *status) PrintStatus() {
	done := s.doneCount.Load()
	elapsed := time.Since(s.stageStart).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}

	if s.workCount > 0 {
		log.Info().Msg(s.printer.Sprintf("%s: %d of %d, %.2f%%, %.0f/s",
			s.stageName, done, s.workCount, float64(done)/float64(s.workCount)*100, float64(done)/elapsed))
	} else {
		log.Info().Msg(s.printer.Sprintf("%s: %d, %.0f/s", s.stageName, done, float64(done)/elapsed))
	}
}

func (s *status) Incr() {
	done := s.doneCount.Add(1)

	step := s.step
	if step == 0 {
		step = 1_000_000
	}
	if done%step == 0 {
		s.PrintStatus()
	}
}

func (s *status) FinishStage() {
	if s.stageName != "" {
		log.Info().Msgf("%s complete in %v", s.stageName, time.Since(s.stageStart))
	}
	s.stageName = ""
}

func (s *status) Done() {
	s.FinishStage()
	log.Info().Msgf("complete in %v", time.Since(s.start))
}
