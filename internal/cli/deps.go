// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/analysis"
	"github.com/alvinbaena/pwd-meter/pkg/hibp"
	"github.com/alvinbaena/pwd-meter/pkg/history"
	"github.com/rs/zerolog/log"
)

// cacheCeiling caps the automatic range cache budget.
const cacheCeiling = 64 << 20

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}

	if noBreach {
		cfg.BreachDisabled = true
	}
	if remoteURL != "" {
		cfg.AnalysisURL = remoteURL
	}

	return cfg, nil
}

// newBreachClient returns nil when breach lookups are disabled.
func newBreachClient(cfg config.Config) (*hibp.Client, error) {
	if cfg.BreachDisabled {
		log.Debug().Msg("breach lookups are disabled")
		return nil, nil
	}

	hc := hibp.DefaultConfig()
	hc.BaseURL = cfg.BreachURL
	hc.Timeout = cfg.BreachTimeout
	hc.RequestsPerSecond = cfg.BreachRate
	hc.CacheMaxCost = cfg.CacheMaxCost
	if hc.CacheMaxCost == 0 {
		hc.CacheMaxCost = util.CacheBudget(0.02, cacheCeiling)
	}

	return hibp.NewClient(hc)
}

func newAnalyzer(cfg config.Config, breach *hibp.Client, suggestions int) *analysis.Analyzer {
	opts := analysis.Options{
		RemoteTimeout: cfg.AnalysisTimeout,
		BreachTimeout: cfg.BreachTimeout,
		Suggestions:   suggestions,
	}

	if cfg.AnalysisURL != "" {
		opts.Remote = analysis.NewRemoteClient(cfg.AnalysisURL, 1)
	}
	// A nil *hibp.Client in the interface would not compare equal to nil.
	if breach != nil {
		opts.Breach = breach
	}

	return analysis.NewAnalyzer(opts)
}

// openHistory opens the configured history backend. The returned function releases it.
func openHistory(cfg config.Config) (*history.Store, func(), error) {
	switch cfg.HistoryBackend {
	case "memory":
		return history.NewStore(history.NewMemoryBackend()), func() {}, nil
	case "sqlite":
		backend, err := history.OpenSQLite(filepath.Join(cfg.HistoryPath, "history.db"))
		if err != nil {
			return nil, nil, err
		}
		return history.NewStore(backend), func() {
			if err := backend.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing history database")
			}
		}, nil
	case "file":
		return history.NewStore(history.NewFileBackend(cfg.HistoryPath)), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}
