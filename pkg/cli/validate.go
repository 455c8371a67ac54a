/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/cloudherder/cloudherder/pkg/defaults"
	"github.com/cloudherder/cloudherder/pkg/definition"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate dashboard definitions",
		Description: `Loads each definition, checks its fields and composes its dashboard to
verify panel geometry. Nothing is written.

# Examples

  herder validate -d orders.yaml -d billing.yaml
  herder validate -d cm://monitoring/orders-definition`,
		Flags: []cli.Flag{
			definitionFlag(true),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, defaults.CLIRenderTimeout)
			defer cancel()

			paths := cmd.StringSlice("definition")
			kubeconfig := cmd.String("kubeconfig")

			var errs []error
			for _, p := range paths {
				if err := validateOne(ctx, p, kubeconfig); err != nil {
					slog.Error("definition is invalid", "uri", p, "error", err)
					fmt.Fprintf(cmd.Root().Writer, "INVALID %s: %v\n", p, err)
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.Root().Writer, "OK      %s\n", p)
			}

			if len(errs) > 0 {
				return fmt.Errorf("%d of %d definitions failed validation: %w",
					len(errs), len(paths), errors.Join(errs...))
			}
			return nil
		},
	}
}

func validateOne(ctx context.Context, path, kubeconfig string) error {
	def, err := definition.LoadWithKubeconfig(path, kubeconfig)
	if err != nil {
		return err
	}
	_, err = def.Build(ctx)
	return err
}
