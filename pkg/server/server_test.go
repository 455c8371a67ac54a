// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestNewOptions(t *testing.T) {
	s := New(
		WithName("herderd"),
		WithVersion("v0.4.0"),
		WithHandler(map[string]http.HandlerFunc{"/v1/dashboards": noContent}),
	)
	assert.Equal(t, "herderd", s.config.Name)
	assert.Equal(t, "v0.4.0", s.config.Version)
	assert.Contains(t, s.config.Handlers, "/v1/dashboards")
	assert.Contains(t, s.config.Handlers, "/")
	assert.False(t, s.isReady())

	t.Run("nil config is ignored", func(t *testing.T) {
		s := New(WithConfig(nil))
		assert.Equal(t, "server", s.config.Name)
	})

	t.Run("config address and port", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Address = "127.0.0.1"
		cfg.Port = 9191
		s := New(WithConfig(cfg))
		assert.Equal(t, "127.0.0.1:9191", s.httpServer.Addr)
		assert.Equal(t, cfg.WriteTimeout, s.httpServer.WriteTimeout)
	})

	t.Run("custom root handler kept", func(t *testing.T) {
		h := New(WithHandler(map[string]http.HandlerFunc{"/": noContent})).Handler()
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHealthAndReadiness(t *testing.T) {
	s := New()
	h := s.Handler()

	get := func(path string) (int, HealthResponse) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w.Code, resp
	}

	code, resp := get("/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)

	code, resp = get("/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", resp.Status)
	assert.NotEmpty(t, resp.Reason)

	s.setReady(true)
	code, resp = get("/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", resp.Status)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRootHandler(t *testing.T) {
	h := New(
		WithName("herderd"),
		WithVersion("v0.4.0"),
		WithHandler(map[string]http.HandlerFunc{
			"/v1/queries":    noContent,
			"/v1/dashboards": noContent,
		}),
	).Handler()

	t.Run("identity and sorted routes", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Name    string   `json:"name"`
			Version string   `json:"version"`
			Ready   bool     `json:"ready"`
			Routes  []string `json:"routes"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "herderd", body.Name)
		assert.Equal(t, "v0.4.0", body.Version)
		assert.False(t, body.Ready)
		assert.Equal(t, []string{"/health", "/metrics", "/ready", "/v1/dashboards", "/v1/queries"}, body.Routes)
	})

	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   cnserrors.ErrorCode
	}{
		{name: "unknown route", method: http.MethodGet, path: "/v2/dashboards", status: http.StatusNotFound, code: cnserrors.ErrCodeNotFound},
		{name: "post to root", method: http.MethodPost, path: "/", status: http.StatusMethodNotAllowed, code: cnserrors.ErrCodeMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.status, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, string(tt.code), resp.Code)
			assert.False(t, resp.Retryable)
			assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := New(WithHandler(map[string]http.HandlerFunc{"/v1/queries": noContent})).Handler()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/queries", nil))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	for _, name := range []string{
		"herder_http_requests_total",
		"herder_http_request_duration_seconds",
		"herder_http_requests_in_flight",
	} {
		assert.True(t, strings.Contains(w.Body.String(), name), name)
	}
	assert.Empty(t, w.Header().Get("X-Request-Id"), "health and metrics routes bypass the chain")
}

func TestStartAndShutdown(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second
	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	require.Eventually(t, s.isReady, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.isReady())
}

func TestStartPortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := NewConfig()
	cfg.Address = "127.0.0.1"
	cfg.Port = l.Addr().(*net.TCPAddr).Port
	s := New(WithConfig(cfg))

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(context.Background()) }()

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.True(t, cnserrors.IsCode(err, cnserrors.ErrCodeUnavailable))
	case <-time.After(2 * time.Second):
		t.Fatal("expected listen failure")
	}
	assert.False(t, s.isReady())
}
