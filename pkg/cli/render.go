/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/cloudherder/cloudherder/pkg/dashboard"
	"github.com/cloudherder/cloudherder/pkg/defaults"
	"github.com/cloudherder/cloudherder/pkg/definition"
	"github.com/cloudherder/cloudherder/pkg/serializer"
)

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Render a dashboard definition into a dashboard document",
		Description: `Loads a dashboard definition, stacks its sections and writes the
resulting dashboard document.

# Examples

Render to stdout as JSON:
  herder render -d orders.yaml

Print only the compact dashboard body:
  herder render -d orders.yaml --body

Write the saved log queries instead of the dashboard:
  herder render -d orders.yaml --queries -t yaml

Store the document in a ConfigMap:
  herder render -d orders.yaml -o cm://monitoring/orders-dashboard`,
		Flags: []cli.Flag{
			definitionFlag(false),
			&cli.BoolFlag{
				Name:  "body",
				Usage: "Write only the compact dashboard body string",
			},
			&cli.BoolFlag{
				Name:  "queries",
				Usage: "Write the saved log query definitions instead of the dashboard",
			},
			outputFlag(),
			formatFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("body") && cmd.Bool("queries") {
				return fmt.Errorf("--body and --queries are mutually exclusive")
			}

			ctx, cancel := context.WithTimeout(ctx, defaults.CLIRenderTimeout)
			defer cancel()

			path := cmd.String("definition")
			def, err := definition.LoadWithKubeconfig(path, cmd.String("kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to load definition from %q: %w", path, err)
			}

			if cmd.Bool("queries") {
				return writeOutput(ctx, cmd, outFormat, def.QueryDefinitions())
			}

			d, err := def.Build(ctx, dashboard.WithVersion(version))
			if err != nil {
				return fmt.Errorf("failed to build dashboard: %w", err)
			}

			slog.Info("dashboard rendered", "name", d.Name, "widgets", len(d.Body.Widgets))

			if cmd.Bool("body") {
				body, err := d.BodyJSON()
				if err != nil {
					return err
				}
				return writeBody(cmd, body)
			}

			return writeOutput(ctx, cmd, outFormat, d)
		},
	}
}

// writeBody writes the raw body string to --output or the command writer.
func writeBody(cmd *cli.Command, body string) error {
	if out := cmd.String("output"); out != "" {
		return serializer.WriteToFile(out, []byte(body+"\n"))
	}
	_, err := fmt.Fprintln(cmd.Root().Writer, body)
	return err
}
