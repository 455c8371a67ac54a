/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/cloudherder/cloudherder/pkg/bundle"
	"github.com/cloudherder/cloudherder/pkg/defaults"
	"github.com/cloudherder/cloudherder/pkg/definition"
	"github.com/cloudherder/cloudherder/pkg/oci"
	"github.com/cloudherder/cloudherder/pkg/serializer"
)

const defaultOCITag = "latest"

// bundleCmdOptions holds parsed options for the bundle command.
type bundleCmdOptions struct {
	definitions    []string
	target         *oci.Reference
	format         serializer.Format
	kubeconfig     string
	includeQueries bool
	concurrency    int
	plainHTTP      bool
	insecureTLS    bool
}

// parseBundleCmdOptions parses and validates command options.
func parseBundleCmdOptions(cmd *cli.Command) (*bundleCmdOptions, error) {
	opts := &bundleCmdOptions{
		definitions:    cmd.StringSlice("definition"),
		kubeconfig:     cmd.String("kubeconfig"),
		includeQueries: cmd.Bool("queries"),
		concurrency:    int(cmd.Int("concurrency")),
		plainHTTP:      cmd.Bool("plain-http"),
		insecureTLS:    cmd.Bool("insecure-tls"),
	}

	if len(opts.definitions) == 0 {
		return nil, fmt.Errorf("at least one --definition is required")
	}

	format, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}
	if format == serializer.FormatTable {
		return nil, fmt.Errorf("--format must be json or yaml for bundles")
	}
	opts.format = format

	if opts.concurrency < 0 {
		return nil, fmt.Errorf("--concurrency cannot be negative")
	}

	opts.target, err = oci.ParseOutputTarget(cmd.String("output"))
	if err != nil {
		return nil, fmt.Errorf("invalid --output: %w", err)
	}
	if opts.target.IsOCI && opts.target.Tag == "" {
		opts.target = opts.target.WithTag(defaultOCITag)
	}
	if !opts.target.IsOCI && opts.target.LocalPath == "" {
		return nil, fmt.Errorf("--output cannot be empty")
	}

	return opts, nil
}

func bundleCmd() *cli.Command {
	return &cli.Command{
		Name:                  "bundle",
		EnableShellCompletion: true,
		Usage:                 "Render dashboard definitions into a bundle directory or OCI artifact",
		Description: `Renders every definition concurrently into one directory:

  - <dashboard-name>.<ext>: dashboard document per definition
  - <dashboard-name>.queries.<ext>: saved log queries (with --queries)
  - manifest.<ext>: bundle summary
  - checksums.txt: SHA-256 of every file

When --output is an oci:// reference the bundle is rendered into a
temporary directory, verified against its checksums, packaged as an OCI
artifact and pushed. The tag defaults to "latest".

# Examples

Render into a local directory:
  herder bundle -d orders.yaml -d billing.yaml -o ./dashboards

Push to a registry:
  herder bundle -d orders.yaml -o oci://ghcr.io/acme/dashboards:v1.0.0

Push to a local registry over HTTP:
  herder bundle -d orders.yaml -o oci://localhost:5000/dashboards --plain-http`,
		Flags: []cli.Flag{
			definitionFlag(true),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "./dashboards",
				Usage:   "Output directory, or oci://registry/repository[:tag] to push",
				Sources: cli.EnvVars("HERDER_BUNDLE_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   string(serializer.FormatJSON),
				Usage:   "Document format (json, yaml)",
			},
			&cli.BoolFlag{
				Name:  "queries",
				Usage: "Also write the saved log queries of each definition",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: defaults.BundleMaxConcurrency,
				Usage: "Number of definitions rendered in parallel",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification for the OCI registry",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the OCI registry (local development)",
			},
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parseBundleCmdOptions(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.CLIBundleTimeout)
			defer cancel()

			defs, err := loadDefinitions(opts.definitions, opts.kubeconfig)
			if err != nil {
				return err
			}

			if !opts.target.IsOCI {
				res, err := renderBundle(ctx, opts, opts.target.LocalPath, defs)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.Root().Writer, res.Summary())
				return nil
			}

			stage, err := os.MkdirTemp("", "herder-bundle-")
			if err != nil {
				return fmt.Errorf("failed to create staging directory: %w", err)
			}
			defer func() {
				if err := os.RemoveAll(stage); err != nil {
					slog.Warn("failed to remove staging directory", "path", stage, "error", err)
				}
			}()

			sourceDir := filepath.Join(stage, "bundle")
			res, err := renderBundle(ctx, opts, sourceDir, defs)
			if err != nil {
				return err
			}

			if err := bundle.VerifyChecksums(ctx, sourceDir); err != nil {
				return fmt.Errorf("bundle failed checksum verification: %w", err)
			}

			pushCtx, pushCancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
			defer pushCancel()

			pushed, err := oci.PackageAndPush(pushCtx, oci.OutputConfig{
				SourceDir:   sourceDir,
				OutputDir:   stage,
				Reference:   opts.target,
				Version:     version,
				PlainHTTP:   opts.plainHTTP,
				InsecureTLS: opts.insecureTLS,
			})
			if err != nil {
				return fmt.Errorf("failed to push bundle: %w", err)
			}

			fmt.Fprintln(cmd.Root().Writer, res.Summary())
			fmt.Fprintf(cmd.Root().Writer, "Pushed %s@%s\n", pushed.Reference, pushed.Digest)
			return nil
		},
	}
}

func renderBundle(ctx context.Context, opts *bundleCmdOptions, dir string, defs []*definition.Definition) (*bundle.Result, error) {
	slog.Info("rendering bundle",
		"definitions", len(defs),
		"output", dir,
		"format", opts.format)

	res, err := bundle.Render(ctx, defs, bundle.Options{
		OutputDir:      dir,
		Format:         opts.format,
		IncludeQueries: opts.includeQueries,
		Version:        version,
		Concurrency:    opts.concurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("bundle rendering failed: %w", err)
	}

	slog.Info("bundle rendered",
		"dashboards", len(res.Dashboards),
		"files", len(res.Files),
		"size_bytes", res.TotalSize,
		"duration_sec", res.Duration.Seconds(),
		"output_dir", res.OutputDir)

	return res, nil
}
