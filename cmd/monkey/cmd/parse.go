package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/monkeylang/monkey/internal/ast"
	"github.com/monkeylang/monkey/internal/diagnostic"
	"github.com/monkeylang/monkey/internal/lexer"
	"github.com/monkeylang/monkey/internal/parser"
	"github.com/monkeylang/monkey/internal/position"
)

var (
	parseRecovery string
	parseQuiet    bool
	parseFormat   string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parse files and print their syntax trees",
	Long: `Parses each file and prints its syntax tree, or the diagnostics
for files that fail. Files are parsed concurrently; output keeps the
order of the arguments. The exit status is 1 if any file fails.

Examples:
  monkey parse main.mk lib.mk
  monkey parse --recovery fail-fast main.mk
  monkey parse --format source main.mk
  monkey parse --quiet *.mk`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseRecovery, "recovery", "", "error recovery: synchronize or fail-fast (default from config)")
	parseCmd.Flags().BoolVarP(&parseQuiet, "quiet", "q", false, "print diagnostics only")
	parseCmd.Flags().StringVar(&parseFormat, "format", "tree", "output format: tree or source")
}

// parseResult is the outcome of parsing one file
type parseResult struct {
	source  *position.SourceFile
	program *ast.Program
	err     error
}

func parseSource(source *position.SourceFile, mode parser.ErrorRecoveryMode) parseResult {
	p := parser.NewParser(lexer.NewWithFilename(source.Content, source.Filename))
	p.SetRecoveryMode(mode)

	program, err := p.ParseProgram()
	return parseResult{source: source, program: program, err: err}
}

func recoveryMode() (parser.ErrorRecoveryMode, error) {
	if parseRecovery == "" {
		return config.RecoveryMode(), nil
	}
	return parser.ParseRecoveryMode(parseRecovery)
}

func runParse(cmd *cobra.Command, args []string) error {
	mode, err := recoveryMode()
	if err != nil {
		return err
	}
	if parseFormat != "tree" && parseFormat != "source" {
		return fmt.Errorf("unknown format %q", parseFormat)
	}

	results := make([]parseResult, len(args))

	g, gctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := readSource(cmd, name)
			if err != nil {
				return err
			}
			results[i] = parseSource(source, mode)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !reportResult(cmd, r) {
			failed++
		}
	}

	logger.Debug("parsed files", "files", len(results), "failed", failed, "recovery", mode)

	if failed > 0 {
		return errReported
	}
	return nil
}

// reportResult prints one file's tree or diagnostics and reports success
func reportResult(cmd *cobra.Command, r parseResult) bool {
	out := cmd.OutOrStdout()

	if r.err != nil {
		renderError(cmd, r.source, r.err)
		logger.Info("parse failed", "file", r.source.Filename, "errors", len(diagnostic.FromError(r.err)))
		return false
	}

	if parseQuiet {
		return true
	}

	var buf bytes.Buffer
	switch parseFormat {
	case "source":
		buf.WriteString(r.program.String())
		buf.WriteByte('\n')
	default:
		fmt.Fprintf(&buf, "# %s\n", r.source.Filename)
		if err := ast.Print(&buf, r.program); err != nil {
			printError(cmd, err)
			return false
		}
	}
	_, _ = out.Write(buf.Bytes())
	return true
}
