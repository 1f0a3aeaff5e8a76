// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// ErrNoRemote is returned when no deep analysis endpoint is configured.
var ErrNoRemote = errors.New("deep analysis endpoint not configured")

// Report is the deep analysis response. Every field is optional: nil or empty means the
// local value is kept.
type Report struct {
	Entropy     *float64          `json:"entropy,omitempty"`
	CrackTimes  map[string]string `json:"crackTimes,omitempty"`
	Compromised *bool             `json:"compromised,omitempty"`
	Hardened    *string           `json:"hardened,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
}

type reportRequest struct {
	Password string `json:"password"`
}

// DeepAnalyzer returns a richer report for a password.
type DeepAnalyzer interface {
	DeepAnalyze(ctx context.Context, password string) Outcome[Report]
}

// RemoteClient posts passwords to a deep analysis endpoint.
type RemoteClient struct {
	url  string
	http *retryablehttp.Client
}

func NewRemoteClient(url string, retryMax int) *RemoteClient {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = retryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second

	return &RemoteClient{url: url, http: client}
}

func (c *RemoteClient) DeepAnalyze(ctx context.Context, password string) Outcome[Report] {
	if c == nil || c.url == "" {
		return Fail[Report](ErrNoRemote)
	}

	body, err := json.Marshal(reportRequest{Password: password})
	if err != nil {
		return Fail[Report](err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Fail[Report](err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return Fail[Report](fmt.Errorf("deep analysis request failed: %w", err))
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing deep analysis response body")
		}
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Fail[Report](fmt.Errorf("deep analysis failed with status [%d] %s", res.StatusCode, res.Status))
	}

	var report Report
	if err = json.NewDecoder(res.Body).Decode(&report); err != nil {
		return Fail[Report](fmt.Errorf("error decoding deep analysis response: %w", err))
	}

	return Ok(report)
}
