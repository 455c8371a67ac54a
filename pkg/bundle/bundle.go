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

package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cloudherder/cloudherder/pkg/dashboard"
	"github.com/cloudherder/cloudherder/pkg/defaults"
	"github.com/cloudherder/cloudherder/pkg/definition"
	cnserrors "github.com/cloudherder/cloudherder/pkg/errors"
	"github.com/cloudherder/cloudherder/pkg/header"
	"github.com/cloudherder/cloudherder/pkg/serializer"
)

// ManifestBaseName is the base name of the bundle manifest.
const ManifestBaseName = "manifest"

// queriesSuffix marks the saved-query file written next to a dashboard.
const queriesSuffix = ".queries"

// Options configures Render.
type Options struct {
	// OutputDir receives the bundle. It is created when missing.
	OutputDir string

	// Format of the written documents, json or yaml. Defaults to json.
	Format serializer.Format

	// IncludeQueries writes the saved log queries next to each dashboard.
	IncludeQueries bool

	// Version is recorded in document metadata.
	Version string

	// Concurrency bounds parallel builds. Defaults to
	// defaults.BundleMaxConcurrency.
	Concurrency int
}

// Dashboard describes one rendered dashboard.
type Dashboard struct {
	Name    string   `json:"name" yaml:"name"`
	Widgets int      `json:"widgets" yaml:"widgets"`
	Files   []string `json:"files" yaml:"files"`
}

// Result is the bundle manifest.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	OutputDir  string        `json:"outputDir" yaml:"outputDir"`
	Dashboards []Dashboard   `json:"dashboards" yaml:"dashboards"`
	Files      []string      `json:"files" yaml:"files"`
	TotalSize  int64         `json:"totalSizeBytes" yaml:"totalSizeBytes"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Summary returns a one line description of the bundle.
func (r *Result) Summary() string {
	return fmt.Sprintf("Rendered %d dashboards into %d files (%d bytes) in %v",
		len(r.Dashboards), len(r.Files), r.TotalSize, r.Duration.Round(time.Millisecond))
}

// Render builds every definition in parallel and writes the dashboards,
// a manifest and checksums.txt into opts.OutputDir.
func Render(ctx context.Context, defs []*definition.Definition, opts Options) (*Result, error) {
	start := time.Now()
	defer func() {
		renderDuration.Observe(time.Since(start).Seconds())
	}()

	if len(defs) == 0 {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "at least one definition is required")
	}
	if opts.OutputDir == "" {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "output directory is required")
	}
	format := opts.Format
	if format == "" {
		format = serializer.FormatJSON
	}
	if format != serializer.FormatJSON && format != serializer.FormatYAML {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported bundle format %q", format),
			map[string]any{"supported": []string{string(serializer.FormatJSON), string(serializer.FormatYAML)}})
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaults.BundleMaxConcurrency
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to create output directory", err)
	}

	if err := checkNames(ctx, defs); err != nil {
		return nil, err
	}

	// Each goroutine writes only its own index and its own files.
	rendered := make([]Dashboard, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, def := range defs {
		g.Go(func() error {
			d, err := renderOne(gctx, def, opts.OutputDir, format, opts)
			if err != nil {
				renderedDashboards.WithLabelValues("error").Inc()
				return cnserrors.WrapWithContext(cnserrors.CodeOf(err),
					fmt.Sprintf("failed to render definition %d", i), err,
					map[string]any{"definition": i})
			}
			renderedDashboards.WithLabelValues("success").Inc()
			rendered[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		OutputDir:  opts.OutputDir,
		Dashboards: rendered,
	}
	res.Init(header.KindBundle, header.APIVersion, opts.Version)
	for _, d := range rendered {
		res.Files = append(res.Files, d.Files...)
	}
	manifest := ManifestBaseName + "." + format.Extension()
	res.Files = append(res.Files, manifest)

	var size int64
	for _, f := range res.Files[:len(res.Files)-1] {
		info, err := os.Stat(filepath.Join(opts.OutputDir, f))
		if err != nil {
			return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to stat bundle file", err)
		}
		size += info.Size()
	}
	res.TotalSize = size
	res.Duration = time.Since(start)

	if err := writeDocument(filepath.Join(opts.OutputDir, manifest), format, res); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		paths = append(paths, filepath.Join(opts.OutputDir, f))
	}
	if err := GenerateChecksums(ctx, opts.OutputDir, paths); err != nil {
		return nil, err
	}

	slog.Info("bundle rendered",
		"dir", opts.OutputDir,
		"dashboards", len(res.Dashboards),
		"files", len(res.Files),
		"duration", res.Duration)

	return res, nil
}

// checkNames rejects definitions that would write the same file.
func checkNames(ctx context.Context, defs []*definition.Definition) error {
	seen := make(map[string]int, len(defs))
	for i, def := range defs {
		if def == nil {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest, "definition is nil",
				map[string]any{"definition": i})
		}
		if err := ctx.Err(); err != nil {
			return cnserrors.Wrap(cnserrors.ErrCodeTimeout, "bundle rendering canceled", err)
		}
		name := dashboardName(def)
		if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("dashboard name %q cannot be used as a file name", name),
				map[string]any{"definition": i})
		}
		if name == ManifestBaseName || strings.HasSuffix(name, queriesSuffix) {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("dashboard name %q collides with a reserved bundle file", name),
				map[string]any{"definition": i})
		}
		if j, ok := seen[name]; ok {
			return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
				fmt.Sprintf("definitions %d and %d both render dashboard %q", j, i, name),
				map[string]any{"name": name})
		}
		seen[name] = i
	}
	return nil
}

func dashboardName(def *definition.Definition) string {
	if def.Spec.DashboardName != "" {
		return def.Spec.DashboardName
	}
	return def.Spec.Prefix.Dashboard()
}

func renderOne(ctx context.Context, def *definition.Definition, dir string, format serializer.Format, opts Options) (Dashboard, error) {
	var dopts []dashboard.Option
	if opts.Version != "" {
		dopts = append(dopts, dashboard.WithVersion(opts.Version))
	}
	d, err := def.Build(ctx, dopts...)
	if err != nil {
		return Dashboard{}, err
	}

	out := Dashboard{Name: d.Name, Widgets: len(d.Body.Widgets)}

	file := d.Name + "." + format.Extension()
	if err := writeDocument(filepath.Join(dir, file), format, d); err != nil {
		return Dashboard{}, err
	}
	out.Files = append(out.Files, file)

	if opts.IncludeQueries {
		if queries := def.QueryDefinitions(); len(queries) > 0 {
			qfile := d.Name + queriesSuffix + "." + format.Extension()
			if err := writeDocument(filepath.Join(dir, qfile), format, queries); err != nil {
				return Dashboard{}, err
			}
			out.Files = append(out.Files, qfile)
		}
	}

	slog.Debug("dashboard rendered", "name", d.Name, "widgets", out.Widgets, "files", out.Files)
	return out, nil
}

func writeDocument(path string, format serializer.Format, v any) error {
	data, err := serializer.Marshal(format, v)
	if err != nil {
		return cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize document", err)
	}
	return serializer.WriteToFile(path, data)
}
