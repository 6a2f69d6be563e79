package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monkeylang/monkey/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-parse a file whenever it changes",
	Long: `Parses a file, then parses it again after every save until
interrupted.

Examples:
  monkey watch main.mk
  monkey watch --quiet main.mk`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&parseRecovery, "recovery", "", "error recovery: synchronize or fail-fast (default from config)")
	watchCmd.Flags().BoolVarP(&parseQuiet, "quiet", "q", false, "print diagnostics only")
}

func runWatch(cmd *cobra.Command, args []string) error {
	mode, err := recoveryMode()
	if err != nil {
		return err
	}

	name := args[0]
	check := func() error {
		source, err := readSource(cmd, name)
		if err != nil {
			return err
		}
		if reportResult(cmd, parseSource(source, mode)) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", source.Filename)
		}
		return nil
	}

	if err := check(); err != nil {
		return err
	}

	logger.Info("watching for changes", "file", name)

	err = watch.Run(cmd.Context(), name, func(ev watch.Event) error {
		logger.Debug("change detected", "file", ev.Path, "op", ev.Op)
		if err := check(); err != nil {
			// A save in progress may briefly leave the file unreadable.
			logger.Warn("re-parse failed", "file", ev.Path, "error", err)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
