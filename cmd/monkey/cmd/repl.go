package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/monkeylang/monkey/internal/cli"
	"github.com/monkeylang/monkey/internal/repl"
)

var (
	replMode     string
	replNoPrompt bool
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Reads Monkey source line by line. In tokens mode every token of
the line is printed; in ast mode the line is parsed and its tree printed.

Examples:
  monkey repl
  monkey repl --mode ast
  echo 'let x = 5;' | monkey repl --no-prompt`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replMode, "mode", "", "output mode: tokens or ast (default from config)")
	replCmd.Flags().BoolVar(&replNoPrompt, "no-prompt", false, "disable the prompt and welcome banner")
}

func runREPL(cmd *cobra.Command, args []string) error {
	modeName := config.REPL.Mode
	if replMode != "" {
		modeName = replMode
	}
	mode, err := repl.ParseMode(modeName)
	if err != nil {
		return err
	}

	// Piped input gets no prompt unless stdin is a terminal.
	noPrompt := replNoPrompt || (cmd.InOrStdin() == os.Stdin && !cli.IsTerminal(os.Stdin))

	r := repl.New(cmd.InOrStdin(), cmd.OutOrStdout(), logger.Logger, repl.Options{
		Prompt:      config.REPL.Prompt,
		Mode:        mode,
		NoPrompt:    noPrompt,
		HistoryFile: config.REPL.HistoryFile,
		MaxHistory:  config.REPL.MaxHistory,
		Recovery:    config.RecoveryMode(),
		Color:       useColor(),
	})

	if err := r.LoadHistory(); err != nil {
		logger.Warn("failed to load history", "file", config.REPL.HistoryFile, "error", err)
	}

	return r.Run(cmd.Context())
}
