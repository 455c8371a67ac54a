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

// Package serializer reads and writes herder documents in JSON, YAML and
// table form.
//
// Output destinations are chosen by path:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatJSON, "orders.json")
//	defer w.Close()
//	if err := w.Serialize(ctx, dashboard); err != nil {
//	    return err
//	}
//
// An empty path writes to stdout and a cm://namespace/name path applies a
// ConfigMap. Values implementing TableRenderer control their own table
// layout; anything else is flattened into FIELD/VALUE rows.
//
// Definition documents are loaded from files, HTTP(S) URLs or ConfigMaps:
//
//	def, err := serializer.FromFile[definition.Definition]("orders.yaml")
//
// JSON output never HTML-escapes, so query text containing '<', '>' or
// '&' is written verbatim.
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer
