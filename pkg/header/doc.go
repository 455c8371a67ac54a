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

// Package header provides the common header of herder documents.
//
// Every document read or written by herder starts with a kind, an API
// version and free-form string metadata:
//
//	kind: DashboardDefinition
//	apiVersion: cloudherder.io/v1
//	metadata:
//	  timestamp: "2026-01-05T10:30:00Z"
//	  version: v0.4.0
//
// Kinds:
//   - DashboardDefinition: input describing a dashboard
//   - Dashboard: a rendered dashboard document
//   - Bundle: the manifest of a bundle directory
//
// Timestamps use RFC 3339 in UTC.
package header
