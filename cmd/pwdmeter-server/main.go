// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Command pwdmeter-server serves the analysis API configured only through the environment,
// for container deployments.
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alvinbaena/pwd-meter/internal/api"
	"github.com/alvinbaena/pwd-meter/internal/config"
	"github.com/alvinbaena/pwd-meter/pkg/wordset"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}

	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	var set *wordset.Set
	if cfg.WordsetFile != "" {
		if set, err = wordset.Open(cfg.WordsetFile); err != nil {
			log.Fatal().Err(err).Msg("error initializing Server")
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(set, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	api.Run(srv, api.TLSOptions{Cert: cfg.TLSCert, Key: cfg.TLSKey, SelfSigned: cfg.SelfTLS})
}
