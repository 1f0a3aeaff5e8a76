// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/likexian/selfca"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"
)

// ErrNoTLS is returned when no way of serving TLS was configured.
var ErrNoTLS = errors.New("server requires TLS configuration to start. " +
	"Please use either the --self-tls flag or set a certificate with the --tls-cert and --tls-key flags")

type TLSOptions struct {
	Cert string
	Key  string
	// SelfSigned generates a 30 day certificate on each start.
	SelfSigned bool
	// Disabled serves plain HTTP.
	Disabled bool
}

// ListenAndServe blocks serving srv according to opts. A certificate pair wins over a
// self-signed certificate.
func ListenAndServe(srv *http.Server, opts TLSOptions) error {
	switch {
	case opts.Cert != "" && opts.Key != "":
		log.Info().Msgf("starting TLS Server on address: %s", srv.Addr)
		// service connections with tls certs
		return srv.ListenAndServeTLS(opts.Cert, opts.Key)
	case opts.SelfSigned:
		log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
		pair, err := selfSignedPair()
		if err != nil {
			return err
		}

		srv.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{pair},
		}

		log.Info().Msgf("starting TLS Server on address: %s", srv.Addr)
		// service connections with tls config, no need to pass files
		return srv.ListenAndServeTLS("", "")
	case opts.Disabled:
		log.Warn().Msgf("serving plain HTTP on address: %s. Passwords travel unencrypted.", srv.Addr)
		return srv.ListenAndServe()
	default:
		return ErrNoTLS
	}
}

func selfSignedPair() (tls.Certificate, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: time.Now(),
		// 30 day self-signed cert.
		NotAfter: time.Now().Add(time.Duration(30*24) * time.Hour),
	}

	// generating the certificate
	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("error generating auto self-signed certificate: %w", err)
	}

	return tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
}

// Run serves srv in the background and shuts it down gracefully on SIGINT or SIGTERM.
func Run(srv *http.Server, opts TLSOptions) {
	go func() {
		if err := ListenAndServe(srv, opts); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("error starting server")
		}
	}()

	GracefulShutdown(srv)
}

func GracefulShutdown(srv *http.Server) {
	// Wait for interrupt signal to gracefully shut down the server with
	// a timeout.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall. SIGKILL but can't be a catch, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}
	log.Info().Msg("server exiting...")
}
