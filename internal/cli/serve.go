// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alvinbaena/pwd-meter/internal/api"
	"github.com/alvinbaena/pwd-meter/internal/util"
	"github.com/alvinbaena/pwd-meter/pkg/wordset"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the password analysis API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand(cmd)
		},
	}
)

func init() {
	serveCmd.Flags().StringVarP(&wordsetFile, "wordset", "i", "", "Compromised password wordset file. Overrides WORDSET_FILE. Without one the built-in common password list is used")
	serveCmd.Flags().BoolVar(&selfTLS, "self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	serveCmd.Flags().BoolVar(&noTLS, "no-tls", false, "Serve plain HTTP. Only meant for local development")
	serveCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	serveCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	serveCmd.Flags().Uint16VarP(&port, "port", "p", 3100, "Port to be used by the server. Overrides PORT")
	serveCmd.Flags().StringSliceVar(&origins, "origins", nil, "Allowed CORS origins, all when empty")

	rootCmd.AddCommand(serveCmd)
}

func serveCommand(cmd *cobra.Command) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !verbose && !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Flags win over the environment.
	if wordsetFile == "" {
		wordsetFile = cfg.WordsetFile
	}
	if !cmd.Flags().Changed("port") {
		port = cfg.Port
	}
	if tlsCert == "" && tlsKey == "" {
		tlsCert, tlsKey = cfg.TLSCert, cfg.TLSKey
	}
	selfTLS = selfTLS || cfg.SelfTLS

	var set *wordset.Set
	if wordsetFile != "" {
		if set, err = wordset.Open(wordsetFile); err != nil {
			return fmt.Errorf("error initializing API: %w", err)
		}
	} else {
		log.Warn().Msg("no wordset configured, compromised checks use the built-in common password list")
	}

	srvAddr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:              srvAddr,
		Handler:           api.NewRouter(set, origins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	api.Run(srv, api.TLSOptions{Cert: tlsCert, Key: tlsKey, SelfSigned: selfTLS, Disabled: noTLS})
	return nil
}
