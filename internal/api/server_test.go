package api

import (
	"errors"
	"net/http"
	"testing"
)

func TestListenAndServe_RequiresTLS(t *testing.T) {
	err := ListenAndServe(&http.Server{Addr: ":0"}, TLSOptions{})
	if !errors.Is(err, ErrNoTLS) {
		t.Errorf("Should fail without TLS options, got %v", err)
	}
}

func TestSelfSignedPair(t *testing.T) {
	pair, err := selfSignedPair()
	if err != nil {
		t.Fatalf("Should not fail generating a certificate: %s", err)
	}
	if len(pair.Certificate) == 0 {
		t.Errorf("There should be a certificate")
	}
}
