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

// Package oci publishes dashboard bundles to OCI registries with ORAS.
//
// A bundle directory is packed as a single gzip layer of artifact type
// application/vnd.cloudherder.dashboard.bundle. Packaging writes an OCI
// image layout locally; pushing copies it to the registry:
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/acme/dashboards:v1.0.0")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.PackageAndPush(ctx, oci.OutputConfig{
//	    SourceDir: "./out",
//	    OutputDir: os.TempDir(),
//	    Reference: ref,
//	})
//
// Credentials come from the Docker configuration. PlainHTTP and
// InsecureTLS exist for local registries.
package oci
