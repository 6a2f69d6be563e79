package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/monkeylang/monkey/internal/lexer"
	"github.com/monkeylang/monkey/internal/position"
)

var tokensSpans bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file|->",
	Short: "Print the token stream of a file",
	Long: `Scans a file and prints one token per line, ending with EOF.

Examples:
  monkey tokens main.mk
  echo 'let x = 5;' | monkey tokens -
  monkey tokens --spans main.mk`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().BoolVar(&tokensSpans, "spans", false, "prefix each token with its source span")
}

// readSource reads a named file, or standard input for "-"
func readSource(cmd *cobra.Command, name string) (*position.SourceFile, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		name = "<stdin>"
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return position.NewSourceFile(name, string(data)), nil
}

func runTokens(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	l := lexer.NewWithFilename(source.Content, source.Filename)

	count := 0
	for {
		tok, err := l.NextToken()
		if err != nil {
			renderError(cmd, source, err)
			logger.Debug("scan failed", "file", source.Filename, "tokens", count, "error", err)
			return errReported
		}

		if tokensSpans {
			fmt.Fprintf(out, "%-12s %s\n", tok.Span, tok)
		} else {
			fmt.Fprintln(out, tok)
		}
		count++

		if tok.Type == lexer.TokenEOF {
			break
		}
	}

	logger.Debug("scanned file", "file", source.Filename, "tokens", count)
	return nil
}
