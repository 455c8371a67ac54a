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

// Package defaults provides centralized configuration constants for herder.
//
// This package defines timeout values and limits used across the codebase.
// Centralizing these values keeps the CLI, the API server and the bundle
// renderer consistent.
//
// # Timeout Categories
//
//   - Handler timeouts: For HTTP request processing
//   - Server timeouts: For HTTP server configuration
//   - HTTP client timeouts: For fetching remote definition documents
//   - ConfigMap timeouts: For reading and writing documents in Kubernetes
//   - CLI timeouts: For render, bundle and push commands
//
// # Usage
//
//	import "github.com/cloudherder/cloudherder/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.DashboardHandlerTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - HTTP handlers: 15s for dashboards, 5s for queries
//   - ConfigMap operations: 30s for writes, 15s for reads
//   - Server shutdown: 30s for graceful shutdown
package defaults
