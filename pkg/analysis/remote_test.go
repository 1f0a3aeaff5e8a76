package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteClient_DeepAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "hunter2", req.Password)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entropy": 42.5, "compromised": true, "crackTimes": {"Online": "1.00 days"}}`))
	}))
	defer srv.Close()

	out := NewRemoteClient(srv.URL, 0).DeepAnalyze(context.Background(), "hunter2")
	require.True(t, out.OK(), "%v", out.Err)
	require.NotNil(t, out.Value.Entropy)
	assert.Equal(t, 42.5, *out.Value.Entropy)
	assert.True(t, *out.Value.Compromised)
	assert.Nil(t, out.Value.Hardened)
	assert.Empty(t, out.Value.Suggestions)
	assert.Equal(t, "1.00 days", out.Value.CrackTimes["Online"])
}

func TestRemoteClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad-json":
			_, _ = w.Write([]byte(`{"entropy":`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	out := NewRemoteClient(srv.URL+"/status", 0).DeepAnalyze(context.Background(), "x")
	assert.False(t, out.OK())

	out = NewRemoteClient(srv.URL+"/bad-json", 0).DeepAnalyze(context.Background(), "x")
	assert.False(t, out.OK())

	var nilClient *RemoteClient
	out = nilClient.DeepAnalyze(context.Background(), "x")
	assert.ErrorIs(t, out.Err, ErrNoRemote)
}
