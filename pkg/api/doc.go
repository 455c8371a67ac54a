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

// Package api wires the herderd HTTP endpoints onto pkg/server.
//
// # Endpoints
//
// Application endpoints (rate limited):
//   - POST /v1/dashboards - render a DashboardDefinition (JSON or YAML body)
//     into a dashboard document; ?queries=true adds the saved log queries
//   - POST /v1/queries    - build a sanitized Logs-Insights query from
//     {"logGroupName", "query", "footer"}
//
// System endpoints:
//   - GET /health
//   - GET /ready
//   - GET /metrics
//
// The request format of /v1/dashboards follows Content-Type: any yaml media
// type selects YAML, everything else is decoded as JSON. Bodies are capped at
// defaults.MaxRequestBodyBytes.
//
// Example:
//
//	curl -X POST http://localhost:8080/v1/dashboards \
//	  -H "Content-Type: application/yaml" \
//	  --data-binary @orders.yaml
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/cloudherder/cloudherder/pkg/api.version=1.0.0'"
package api
