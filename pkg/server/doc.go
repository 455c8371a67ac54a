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

// Package server provides the HTTP server used by herderd.
//
// Application handlers are registered by route and wrapped with a fixed
// middleware chain:
//
//   - Prometheus metrics (herder_http_* series)
//   - API version negotiation via the Accept header
//   - Request ID propagation (X-Request-Id, UUID)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Debug request logging
//
// The /health, /ready and /metrics endpoints are served without middleware.
// A root handler listing the registered routes is added unless the caller
// provides one.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("herderd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/dashboards": handleDashboards,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// NewConfig reads these environment variables:
//   - PORT: listen port (default 8080)
//   - RATE_LIMIT: requests per second (default 100)
//   - RATE_LIMIT_BURST: burst size (default 200)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown timeout (default 30)
//
// # Errors
//
// Failed requests are answered with an ErrorResponse. WriteErrorFromErr
// maps structured error codes from pkg/errors onto HTTP statuses:
//
//	INVALID_REQUEST     -> 400
//	NOT_FOUND           -> 404
//	METHOD_NOT_ALLOWED  -> 405
//	RATE_LIMIT_EXCEEDED -> 429
//	SERVICE_UNAVAILABLE -> 503
//	TIMEOUT             -> 504
//	anything else       -> 500
package server
