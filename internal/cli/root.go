package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testhooks/changed-test-ids/internal/glob"
	"github.com/testhooks/changed-test-ids/internal/logging"
	"github.com/testhooks/changed-test-ids/internal/report"
	"github.com/testhooks/changed-test-ids/internal/vcs"
)

func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, nil)
}

// newRootCommand builds the command tree. A nil lister means git in the
// working directory.
func newRootCommand(version string, lister vcs.Lister) *cobra.Command {
	v := newViper()

	rootCmd := &cobra.Command{
		Use:   "changed-test-ids",
		Short: "Find test ids in component sources and the specs that use them",
		Long: `changed-test-ids finds the test ids declared by JSX/TSX components
(data-test, data-cy, testId and friends) and the test ids queried by
Cypress-style specs with cy.get('[data-test=...]') or custom commands.

It reports ids that no spec covers, the specs using a given list of ids,
and the specs affected by the components changed against a git branch.`,
		Example: `  changed-test-ids --sources 'src/**/*.jsx' --specs 'cypress/e2e/**/*.cy.js'
  changed-test-ids --specs 'cypress/e2e/**/*.cy.js' --test-ids greeting,name
  changed-test-ids --sources 'src/**/*.jsx' --specs 'cypress/e2e/**/*.cy.js' --branch main --parent`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			logger, closer := logging.New(logging.Config{
				Level:  cfg.LogLevel,
				File:   cfg.LogFile,
				Stderr: cmd.ErrOrStderr(),
			})
			defer closer.Close()
			logger.Debug("resolved config", "config", v.ConfigFileUsed(), "sources", cfg.Sources, "specs", cfg.Specs, "branch", cfg.Branch)

			actions := report.ActionsFromEnv()
			actions.Fallback = cmd.OutOrStdout()

			r := &runner{
				cfg:    cfg,
				logger: logger,
				printer: &report.Printer{
					Out:        cmd.OutOrStdout(),
					Err:        cmd.ErrOrStderr(),
					Format:     cfg.Format,
					Verbose:    cfg.Verbose,
					Comma:      cfg.Comma,
					UnusedOnly: cfg.Unused,
				},
				actions:  actions,
				lister:   lister,
				progress: newProgressReporter(cmd.ErrOrStderr(), cfg.Format == report.FormatText),
				excludes: glob.NewExcludes(cfg.Exclude),
			}
			if r.lister == nil {
				r.lister = vcs.NewGit(searchRoot, logger)
			}
			return r.run(cmd.Context())
		},
	}
	registerFlags(rootCmd)
	cobra.CheckErr(bindFlags(rootCmd, v))

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "changed-test-ids %s\n", version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
