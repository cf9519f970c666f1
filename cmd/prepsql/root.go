// Copyright 2023 Dolthub, Inc.
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

package main

import (
	"context"
	"io"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sqle "github.com/src-d/go-prepared-sql"
	"github.com/src-d/go-prepared-sql/internal/shell"
	"github.com/src-d/go-prepared-sql/sql"
)

type rootOptions struct {
	config   string
	policy   string
	logLevel string
	debug    bool
	execute  []string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "prepsql",
		Short: "Prepare and explain parameterized SQL statements",
		Long: "prepsql runs PREPARE, EXECUTE, EXPLAIN EXECUTE and DEALLOCATE PREPARE " +
			"statements against the catalog declared in a YAML configuration file.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			e, err := sqle.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			ctx := e.NewContext(context.Background())
			defer ctx.Close()

			sh := shell.New(e, ctx, cmd.OutOrStdout())
			if len(opts.execute) > 0 {
				return runStatements(sh, opts.execute)
			}
			return runInteractive(sh, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.config, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.policy, "prepare-policy", "", "what a PREPARE does with an existing name (overwrite|error)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.BoolVar(&opts.debug, "debug-analyzer", false, "log every analyzer rule application")
	flags.StringArrayVarP(&opts.execute, "execute", "e", nil, "run the statement and exit, can be repeated")

	return cmd
}

// load reads the configuration file, if any, and applies the flags given on
// the command line on top of it.
func (o *rootOptions) load(cmd *cobra.Command) (*sqle.Config, error) {
	cfg := sqle.NewConfig()
	if o.config != "" {
		var err error
		if cfg, err = sqle.LoadConfig(o.config); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("prepare-policy") {
		policy, err := sql.ParsePreparePolicy(o.policy)
		if err != nil {
			return nil, err
		}
		cfg.PreparePolicy = policy
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	if o.debug {
		cfg.DebugAnalyzer = true
	}

	return cfg, nil
}

func runStatements(sh *shell.Shell, statements []string) error {
	for _, s := range statements {
		if err := sh.Exec(s); err != nil {
			logrus.WithField(sqle.QueryLogField, s).Debug("statement failed")
			return err
		}
	}
	return nil
}

func runInteractive(sh *shell.Shell, in io.Reader, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: shell.Prompt,
		Stdin:  io.NopCloser(in),
		Stdout: out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	return sh.Run(rl)
}
