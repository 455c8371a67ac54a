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

// Package bundle renders dashboard definitions into a directory of
// documents suitable for review, deployment or publishing as an OCI
// artifact.
//
// A bundle directory contains:
//
//	<dashboard-name>.json           one dashboard document per definition
//	<dashboard-name>.queries.json   saved log queries (optional)
//	manifest.json                   the bundle Result
//	checksums.txt                   SHA-256 of every file above
//
// Definitions are built concurrently; each writes only its own files.
//
//	res, err := bundle.Render(ctx, defs, bundle.Options{OutputDir: "./out"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Summary())
//
// VerifyChecksums recomputes checksums.txt before a bundle is published.
package bundle
