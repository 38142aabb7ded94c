// Package cli implements the marginalia command line.
package cli

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/tsawler/marginalia"
	"github.com/tsawler/marginalia/internal/logger"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	jsonLogs   bool

	options marginalia.Options
	logger  hclog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{options: marginalia.DefaultOptions()}

	root := &cobra.Command{
		Use:                   "marginalia [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Place analyzer findings on the pages they describe.",
		Long: `marginalia correlates the findings of a document analyzer with the text
layer of the document, producing one highlight per finding on the page where
its keywords first appear. Critical findings win positions shared with
warnings.`,
		PersistentPreRunE: a.init,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML options file.")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (env "+logger.EnvLogLevel+" wins).")
	root.PersistentFlags().BoolVar(&a.jsonLogs, "json-logs", false, "Write logs as JSON.")

	root.AddCommand(
		newCorrelateCmd(a),
		newKeywordsCmd(a),
		newPagesCmd(a),
	)
	return root
}

// init loads options and builds the logger before any subcommand runs.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	if a.configPath != "" {
		opts, err := marginalia.LoadOptions(a.configPath)
		if err != nil {
			return err
		}
		a.options = opts
	}

	level := a.options.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logger = logger.New(logger.Options{
		Name:       "marginalia",
		Level:      level,
		JSONFormat: a.jsonLogs,
		Output:     cmd.ErrOrStderr(),
	})
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}
