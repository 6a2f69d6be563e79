package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/monkeylang/monkey/internal/cli"
	"github.com/monkeylang/monkey/internal/diagnostic"
	"github.com/monkeylang/monkey/internal/position"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool

	config *cli.Config
	logger *cli.Logger
)

// errReported is returned after diagnostics were already printed, so the
// command exits non-zero without repeating them.
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "monkey",
	Short: "Monkey language front end",
	Long: `monkey scans and parses Monkey source code.

Commands:
  repl     - interactive shell (tokens or ast mode)
  tokens   - print the token stream of a file
  parse    - parse files and print their syntax trees
  watch    - re-parse a file whenever it changes
  version  - print version information`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

// Execute runs the root command with a background context
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command. Errors other than already reported
// diagnostics are printed to stderr.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		printError(rootCmd, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+cli.DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}

func setup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = cli.DefaultConfigFile
	}

	c, err := cli.LoadConfig(path)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := cli.NewLogger(cmd.ErrOrStderr(), c.Log)
	if err != nil {
		return err
	}

	config, logger = c, l
	logger.Debug("configuration loaded", "file", path, "command", cmd.Name())
	return nil
}

// useColor reports whether diagnostics written to stdout should be styled
func useColor() bool {
	return !noColor && cli.IsTerminal(os.Stdout)
}

func renderError(cmd *cobra.Command, source *position.SourceFile, err error) {
	_ = diagnostic.NewRenderer(source, useColor()).RenderError(cmd.OutOrStdout(), err)
}

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
}
