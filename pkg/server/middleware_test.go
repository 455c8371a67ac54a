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
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
)

// seriesValue scrapes the default registry and returns the value of the
// exact series, or 0 when it has not been observed yet.
func seriesValue(t *testing.T, series string) float64 {
	t.Helper()
	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	sc := bufio.NewScanner(w.Body)
	for sc.Scan() {
		line := sc.Text()
		if rest, ok := strings.CutPrefix(line, series+" "); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			require.NoError(t, err)
			return v
		}
	}
	return 0
}

func requestsSeries(method, path, status string) string {
	return `herder_http_requests_total{method="` + method + `",path="` + path + `",status="` + status + `"}`
}

// dashboardStub stands in for the herderd dashboard handler and reports what
// the chain put into the request context.
func dashboardStub(w http.ResponseWriter, r *http.Request) {
	v, _ := r.Context().Value(contextKeyAPIVersion).(string)
	w.Header().Set("X-Seen-Request-Id", RequestID(r))
	w.Header().Set("X-Seen-Api-Version", v)
	w.WriteHeader(http.StatusCreated)
}

func newHerderTestServer(rl rate.Limit, burst int) *Server {
	cfg := NewConfig()
	cfg.Name = "herderd"
	cfg.RateLimit = rl
	cfg.RateLimitBurst = burst
	cfg.Handlers = map[string]http.HandlerFunc{
		"/v1/dashboards": dashboardStub,
		"/v1/queries": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}
	return New(WithConfig(cfg))
}

func TestMiddlewareChainOnDashboardRoute(t *testing.T) {
	s := newHerderTestServer(100, 10)
	h := s.Handler()

	tests := []struct {
		name      string
		requestID string
		accept    string
		keepID    bool
	}{
		{name: "fresh request"},
		{name: "client request id kept", requestID: "0b6a4c1e-8f5d-4d43-a7f0-2d7c9b1e6f10", keepID: true},
		{name: "non uuid request id replaced", requestID: "orders-render-1"},
		{name: "vendor media type", accept: "application/vnd.cloudherder.v1+json"},
		{name: "unsupported version falls back", accept: "application/vnd.cloudherder.v9+yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/dashboards", strings.NewReader("spec: {}"))
			if tt.requestID != "" {
				req.Header.Set("X-Request-Id", tt.requestID)
			}
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code)

			id := w.Header().Get("X-Request-Id")
			_, err := uuid.Parse(id)
			require.NoError(t, err)
			assert.Equal(t, id, w.Header().Get("X-Seen-Request-Id"))
			if tt.keepID {
				assert.Equal(t, tt.requestID, id)
			} else {
				assert.NotEqual(t, tt.requestID, id)
			}

			assert.Equal(t, DefaultAPIVersion, w.Header().Get("X-API-Version"))
			assert.Equal(t, DefaultAPIVersion, w.Header().Get("X-Seen-Api-Version"))
			assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
		})
	}
}

func TestMetricsRouteLabel(t *testing.T) {
	s := newHerderTestServer(100, 10)
	h := s.Handler()

	dashboards := requestsSeries(http.MethodPost, "/v1/dashboards", "201")
	queries := requestsSeries(http.MethodPost, "/v1/queries", "200")
	fallback := requestsSeries(http.MethodGet, "/", "404")
	rawPath := requestsSeries(http.MethodGet, "/v1/dashboards/pu-dev-orders", "404")
	unmatched := requestsSeries(http.MethodPut, "unmatched", "201")

	before := map[string]float64{}
	for _, series := range []string{dashboards, queries, fallback, unmatched} {
		before[series] = seriesValue(t, series)
	}

	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/v1/dashboards", nil),
		httptest.NewRequest(http.MethodPost, "/v1/dashboards", nil),
		httptest.NewRequest(http.MethodPost, "/v1/queries", nil),
		httptest.NewRequest(http.MethodGet, "/v1/dashboards/pu-dev-orders", nil),
	} {
		h.ServeHTTP(httptest.NewRecorder(), r)
	}

	// Outside a mux there is no pattern to report.
	s.withMiddleware(dashboardStub).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPut, "/v1/dashboards", nil))

	assert.Equal(t, before[dashboards]+2, seriesValue(t, dashboards))
	assert.Equal(t, before[queries]+1, seriesValue(t, queries))
	assert.Equal(t, before[fallback]+1, seriesValue(t, fallback))
	assert.Equal(t, before[unmatched]+1, seriesValue(t, unmatched))
	assert.Zero(t, seriesValue(t, rawPath))
}

func TestRateLimitEnvelope(t *testing.T) {
	s := newHerderTestServer(rate.Limit(0.5), 1)
	h := s.Handler()

	rejectsBefore := seriesValue(t, "herder_rate_limit_rejects_total")

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/queries", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/v1/queries", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
	assert.NotEmpty(t, second.Header().Get("X-Request-Id"))

	resp := decodeError(t, second)
	assert.Equal(t, string(cnserrors.ErrCodeRateLimitExceeded), resp.Code)
	assert.True(t, resp.Retryable)
	assert.Equal(t, second.Header().Get("X-Request-Id"), resp.RequestID)
	assert.InDelta(t, 0.5, resp.Details["limit"], 1e-9)
	assert.Equal(t, float64(1), resp.Details["burst"])

	assert.Equal(t, rejectsBefore+1, seriesValue(t, "herder_rate_limit_rejects_total"))
}

func TestRateLimitBurstFromEnvironment(t *testing.T) {
	t.Setenv("RATE_LIMIT", "1")
	t.Setenv("RATE_LIMIT_BURST", "3")

	h := New(WithHandler(map[string]http.HandlerFunc{
		"/v1/queries": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) },
	})).Handler()

	codes := make([]int, 0, 4)
	for range 4 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/queries", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429}, codes)
}

func TestPanicRecovery(t *testing.T) {
	cfg := NewConfig()
	cfg.Handlers = map[string]http.HandlerFunc{
		"/v1/dashboards": func(http.ResponseWriter, *http.Request) {
			panic("nil section")
		},
	}
	h := New(WithConfig(cfg)).Handler()

	panicsBefore := seriesValue(t, "herder_panic_recoveries_total")
	internalBefore := seriesValue(t, requestsSeries(http.MethodPost, "/v1/dashboards", "500"))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/dashboards", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, string(cnserrors.ErrCodeInternal), resp.Code)
	assert.Equal(t, w.Header().Get("X-Request-Id"), resp.RequestID)
	assert.NotContains(t, w.Body.String(), "nil section")

	assert.Equal(t, panicsBefore+1, seriesValue(t, "herder_panic_recoveries_total"))
	assert.Equal(t, internalBefore+1, seriesValue(t, requestsSeries(http.MethodPost, "/v1/dashboards", "500")))
}

func TestLoggingMiddlewareRecordsOutcome(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := newHerderTestServer(100, 10).Handler()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/dashboards", nil))

	var completed map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		if entry["msg"] == "request completed" {
			completed = entry
		}
	}
	require.NotNil(t, completed, buf.String())
	assert.Equal(t, float64(http.StatusCreated), completed["status"])
	assert.Equal(t, "/v1/dashboards", completed["path"])
	assert.Equal(t, w.Header().Get("X-Request-Id"), completed["requestID"])
}
