// Package repl implements the interactive Monkey shell.
//
// Each input line is scanned (tokens mode) or parsed (ast mode) on its own.
// Lines starting with ':' are shell commands.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/monkeylang/monkey/internal/ast"
	"github.com/monkeylang/monkey/internal/cli"
	"github.com/monkeylang/monkey/internal/diagnostic"
	"github.com/monkeylang/monkey/internal/lexer"
	"github.com/monkeylang/monkey/internal/parser"
	"github.com/monkeylang/monkey/internal/position"
)

const sourceName = "<repl>"

// Mode selects what the shell prints for an input line
type Mode int

const (
	// ModeTokens prints every token of the line up to EOF.
	ModeTokens Mode = iota
	// ModeAST parses the line and prints the syntax tree.
	ModeAST
)

func (m Mode) String() string {
	switch m {
	case ModeTokens:
		return "tokens"
	case ModeAST:
		return "ast"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to a Mode. The empty string selects tokens.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "tokens":
		return ModeTokens, nil
	case "ast":
		return ModeAST, nil
	default:
		return ModeTokens, fmt.Errorf("unknown repl mode %q", s)
	}
}

// Options configures a REPL
type Options struct {
	Prompt      string
	Mode        Mode
	NoPrompt    bool
	HistoryFile string
	MaxHistory  int
	Recovery    parser.ErrorRecoveryMode
	Color       bool
}

// REPL is one interactive session
type REPL struct {
	in      *bufio.Scanner
	out     io.Writer
	logger  *slog.Logger
	opts    Options
	session string

	history   []string
	variables map[string]position.Span
}

// New creates a session reading lines from in and writing to out. A nil
// logger discards log records.
func New(in io.Reader, out io.Writer, logger *slog.Logger, opts Options) *REPL {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = 1000
	}

	return &REPL{
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
		opts:      opts,
		session:   uuid.NewString(),
		history:   make([]string, 0),
		variables: make(map[string]position.Span),
	}
}

// Session returns the id attached to this session's log records
func (r *REPL) Session() string {
	return r.session
}

// Mode returns the current mode
func (r *REPL) Mode() Mode {
	return r.opts.Mode
}

// History returns the lines entered so far, oldest first
func (r *REPL) History() []string {
	return slices.Clone(r.history)
}

func (r *REPL) PrintWelcome() {
	fmt.Fprintf(r.out, "Monkey REPL v%s\n", cli.Version)
	fmt.Fprintf(r.out, "Type :help for help, :quit to exit\n\n")
}

// Run reads lines until EOF, :quit or ctx is done. History is saved on
// return.
func (r *REPL) Run(ctx context.Context) error {
	ctx = cli.WithSession(ctx, r.session)
	r.logger.DebugContext(ctx, "repl session started", "mode", r.opts.Mode)

	if !r.opts.NoPrompt {
		r.PrintWelcome()
	}

	for ctx.Err() == nil {
		if !r.opts.NoPrompt {
			fmt.Fprint(r.out, r.opts.Prompt)
		}

		if !r.in.Scan() {
			break
		}

		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		r.AddToHistory(line)

		if strings.HasPrefix(line, ":") {
			if r.HandleCommand(line) {
				break
			}
			continue
		}

		r.Evaluate(ctx, line)
	}

	if err := r.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := r.SaveHistory(); err != nil {
		r.logger.WarnContext(ctx, "failed to save history", "file", r.opts.HistoryFile, "error", err)
	}

	r.logger.DebugContext(ctx, "repl session ended", "lines", len(r.history))
	return nil
}

// Evaluate handles one input line in the current mode
func (r *REPL) Evaluate(ctx context.Context, input string) {
	switch r.opts.Mode {
	case ModeAST:
		r.evaluateAST(ctx, input)
	default:
		r.evaluateTokens(ctx, input)
	}
}

func (r *REPL) evaluateTokens(ctx context.Context, input string) {
	l := lexer.NewWithFilename(input, sourceName)

	count := 0
	for {
		tok, err := l.NextToken()
		if err != nil {
			r.report(input, err)
			r.logger.DebugContext(ctx, "scan failed", "error", err)
			return
		}
		if tok.Type == lexer.TokenEOF {
			break
		}
		fmt.Fprintln(r.out, tok)
		count++
	}

	r.logger.DebugContext(ctx, "scanned line", "tokens", count)
}

func (r *REPL) evaluateAST(ctx context.Context, input string) {
	p := parser.NewParser(lexer.NewWithFilename(input, sourceName))
	p.SetRecoveryMode(r.opts.Recovery)

	program, err := p.ParseProgram()
	if err != nil {
		r.report(input, err)
		r.logger.DebugContext(ctx, "parse failed", "errors", len(p.Errors()))
		return
	}

	for _, let := range ast.Bindings(program) {
		r.variables[let.Name.Value] = let.Span
	}

	if err := ast.Print(r.out, program); err != nil {
		r.logger.WarnContext(ctx, "failed to print tree", "error", err)
	}

	r.logger.DebugContext(ctx, "parsed line", "statements", len(program.Statements))
}

func (r *REPL) report(input string, err error) {
	renderer := diagnostic.NewRenderer(position.NewSourceFile(sourceName, input), r.opts.Color)
	_ = renderer.RenderError(r.out, err)
}

// HandleCommand runs a ':' command and reports whether the session should
// end.
func (r *REPL) HandleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case ":help", ":h":
		r.PrintHelp()
	case ":quit", ":q", ":exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case ":mode":
		if len(parts) < 2 {
			fmt.Fprintf(r.out, "Mode: %s\n", r.opts.Mode)
			break
		}
		mode, err := ParseMode(parts[1])
		if err != nil {
			fmt.Fprintln(r.out, "Usage: :mode tokens|ast")
			break
		}
		r.opts.Mode = mode
		fmt.Fprintf(r.out, "Mode set to %s\n", mode)
	case ":history":
		r.ShowHistory()
	case ":vars":
		r.ShowVariables()
	case ":reset":
		clear(r.variables)
		fmt.Fprintln(r.out, "Bindings cleared")
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.out, "Type :help for available commands")
	}

	return false
}

func (r *REPL) PrintHelp() {
	fmt.Fprintln(r.out, "REPL Commands:")
	fmt.Fprintln(r.out, "  :help, :h          Show this help")
	fmt.Fprintln(r.out, "  :quit, :q, :exit   Exit REPL")
	fmt.Fprintln(r.out, "  :mode [tokens|ast] Show or change the output mode")
	fmt.Fprintln(r.out, "  :history           Show command history")
	fmt.Fprintln(r.out, "  :vars              Show names bound by let in ast mode")
	fmt.Fprintln(r.out, "  :reset             Forget bound names")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Enter Monkey source to scan or parse it.")
}

// AddToHistory appends a line, dropping the oldest beyond MaxHistory
func (r *REPL) AddToHistory(line string) {
	r.history = append(r.history, line)
	if len(r.history) > r.opts.MaxHistory {
		r.history = r.history[len(r.history)-r.opts.MaxHistory:]
	}
}

func (r *REPL) ShowHistory() {
	if len(r.history) == 0 {
		fmt.Fprintln(r.out, "No history")
		return
	}

	fmt.Fprintln(r.out, "Command history:")
	for i, cmd := range r.history {
		fmt.Fprintf(r.out, "%3d: %s\n", i+1, cmd)
	}
}

func (r *REPL) ShowVariables() {
	if len(r.variables) == 0 {
		fmt.Fprintln(r.out, "No variables defined")
		return
	}

	names := make([]string, 0, len(r.variables))
	for name := range r.variables {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(r.out, "Current variables:")
	for _, name := range names {
		fmt.Fprintf(r.out, "  %s = <empty>\n", name)
	}
}

// LoadHistory reads the history file, if configured. A missing file is not
// an error.
func (r *REPL) LoadHistory() error {
	if r.opts.HistoryFile == "" {
		return nil
	}

	content, err := os.ReadFile(r.opts.HistoryFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read history: %w", err)
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			r.history = append(r.history, line)
		}
	}

	if len(r.history) > r.opts.MaxHistory {
		r.history = r.history[len(r.history)-r.opts.MaxHistory:]
	}
	return nil
}

// SaveHistory writes the history file, if configured
func (r *REPL) SaveHistory() error {
	if r.opts.HistoryFile == "" || len(r.history) == 0 {
		return nil
	}

	content := strings.Join(r.history, "\n") + "\n"
	if err := os.WriteFile(r.opts.HistoryFile, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
