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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/cloudherder/cloudherder/pkg/definition"
	"github.com/cloudherder/cloudherder/pkg/serializer"
)

// Flags are built per command so that parsed state is never shared.

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars("HERDER_LOG_LEVEL", "LOG_LEVEL"),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage: `Output destination (default: stdout).
	Supports: file paths or ConfigMap URIs (cm://namespace/name).`,
		Sources: cli.EnvVars("HERDER_OUTPUT"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
		Sources: cli.EnvVars("HERDER_FORMAT"),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig used for ConfigMap URIs (default: KUBECONFIG or ~/.kube/config)",
		Sources: cli.EnvVars("HERDER_KUBECONFIG"),
	}
}

func definitionFlag(multiple bool) cli.Flag {
	usage := `Path/URI to a dashboard definition.
	Supports: file paths, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name).`
	if multiple {
		return &cli.StringSliceFlag{
			Name:     "definition",
			Aliases:  []string{"d"},
			Required: true,
			Usage:    usage + "\n\tCan be repeated.",
		}
	}
	return &cli.StringFlag{
		Name:     "definition",
		Aliases:  []string{"d"},
		Required: true,
		Usage:    usage,
	}
}

// parseOutputFormat returns the validated --format value.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	return serializer.ParseFormat(cmd.String("format"))
}

// loadDefinitions loads and validates every path in order.
func loadDefinitions(paths []string, kubeconfig string) ([]*definition.Definition, error) {
	defs := make([]*definition.Definition, 0, len(paths))
	for _, p := range paths {
		slog.Debug("loading definition", "uri", p)
		def, err := definition.LoadWithKubeconfig(p, kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load definition from %q: %w", p, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// writeOutput serializes v to the --output destination.
func writeOutput(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	ser := serializer.NewFileWriterOrStdoutWithKubeconfig(format, cmd.String("output"), cmd.String("kubeconfig"))
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, v)
}
