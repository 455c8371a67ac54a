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

package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/cloudherder/cloudherder/pkg/dashboard"
	"github.com/cloudherder/cloudherder/pkg/defaults"
	"github.com/cloudherder/cloudherder/pkg/definition"
	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
	"github.com/cloudherder/cloudherder/pkg/query"
	"github.com/cloudherder/cloudherder/pkg/section"
	"github.com/cloudherder/cloudherder/pkg/serializer"
	"github.com/cloudherder/cloudherder/pkg/server"
)

// Handler serves the dashboard and query endpoints.
type Handler struct {
	// Version is recorded in rendered dashboard metadata.
	Version string
}

// DashboardResponse is returned by POST /v1/dashboards.
type DashboardResponse struct {
	Dashboard *dashboard.Dashboard       `json:"dashboard"`
	Queries   []section.QueryDefinition `json:"queries,omitempty"`
}

// QueryRequest is the body of POST /v1/queries.
type QueryRequest struct {
	LogGroupName string `json:"logGroupName"`
	Query        string `json:"query"`
	// Footer appends the newest-first sort and result limit clauses.
	Footer bool `json:"footer,omitempty"`
}

// QueryResponse is returned by POST /v1/queries.
type QueryResponse struct {
	Query      string `json:"query"`
	Definition string `json:"definition"`
}

// HandleDashboards renders a definition document posted as JSON or YAML.
// With ?queries=true the saved log queries are included in the response.
func (h *Handler) HandleDashboards(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	data, ok := readBody(w, r)
	if !ok {
		return
	}

	def, err := definition.Parse(requestFormat(r), data)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to parse definition", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.DashboardHandlerTimeout)
	defer cancel()

	d, err := def.Build(ctx, dashboard.WithVersion(h.Version))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to build dashboard", nil)
		return
	}

	resp := DashboardResponse{Dashboard: d}
	if r.URL.Query().Get("queries") == "true" {
		resp.Queries = def.QueryDefinitions()
	}

	slog.Debug("dashboard rendered",
		"requestID", server.RequestID(r),
		"name", d.Name,
		"widgets", len(d.Body.Widgets),
	)

	serializer.RespondJSON(w, http.StatusOK, resp)
}

// HandleQueries returns the sanitized query for a log group and base query.
func (h *Handler) HandleQueries(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	data, ok := readBody(w, r)
	if !ok {
		return
	}

	req, err := serializer.FromBytes[QueryRequest](serializer.FormatJSON, data)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to parse query request", nil)
		return
	}

	if req.LogGroupName == "" || req.Query == "" {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"logGroupName and query are required", false, nil)
		return
	}

	base := req.Query
	if req.Footer {
		base += "\n    " + query.Footer
	}

	serializer.RespondJSON(w, http.StatusOK, QueryResponse{
		Query:      query.Build(req.LogGroupName, base),
		Definition: query.Definition(base),
	})
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	server.WriteError(w, r, http.StatusMethodNotAllowed, cnserrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body := http.MaxBytesReader(w, r.Body, defaults.MaxRequestBodyBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			server.WriteError(w, r, http.StatusRequestEntityTooLarge, cnserrors.ErrCodeInvalidRequest,
				"Request body too large", false, map[string]any{"limit": tooLarge.Limit})
			return nil, false
		}
		server.WriteErrorFromErr(w, r,
			cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to read request body", err),
			"Failed to read request body", nil)
		return nil, false
	}
	if len(data) == 0 {
		server.WriteError(w, r, http.StatusBadRequest, cnserrors.ErrCodeInvalidRequest,
			"Request body is required", false, nil)
		return nil, false
	}
	return data, true
}

// requestFormat picks YAML for yaml content types and JSON otherwise.
func requestFormat(r *http.Request) serializer.Format {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && strings.Contains(mediaType, "yaml") {
		return serializer.FormatYAML
	}
	return serializer.FormatJSON
}
