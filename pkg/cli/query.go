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

	"github.com/urfave/cli/v3"

	"github.com/cloudherder/cloudherder/pkg/query"
)

func queryCmd() *cli.Command {
	return &cli.Command{
		Name:                  "query",
		EnableShellCompletion: true,
		Usage:                 "Build a sanitized Logs-Insights query",
		Description: `Prints the query text embedded in log panels for a log group and base
query. Double quotes and backslashes in the base query come back escaped.

# Examples

  herder query --log-group pu-dev-orders-log-grp --query 'filter @message like /ERROR/'
  herder query --query 'filter @message like /ERROR/' --saved --footer`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-group",
				Aliases: []string{"g"},
				Usage:   "Log group name used in the SOURCE clause",
			},
			&cli.StringFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Required: true,
				Usage:    "Base query appended after the fields clause",
			},
			&cli.BoolFlag{
				Name:  "footer",
				Usage: "Append the newest-first sort and result limit clauses",
			},
			&cli.BoolFlag{
				Name:  "saved",
				Usage: "Print the saved query form, which has no SOURCE clause",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			base := cmd.String("query")
			if cmd.Bool("footer") {
				base += "\n    " + query.Footer
			}

			if cmd.Bool("saved") {
				_, err := fmt.Fprint(cmd.Root().Writer, query.Definition(base))
				return err
			}

			logGroup := cmd.String("log-group")
			if logGroup == "" {
				return fmt.Errorf("--log-group is required unless --saved is set")
			}
			_, err := fmt.Fprintln(cmd.Root().Writer, query.Build(logGroup, base))
			return err
		},
	}
}
