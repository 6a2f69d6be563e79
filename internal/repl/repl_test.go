package repl

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func run(t *testing.T, input string, opts Options) (*REPL, string) {
	t.Helper()

	var out bytes.Buffer
	r := New(strings.NewReader(input), &out, nil, opts)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return r, out.String()
}

func TestTokensMode(t *testing.T) {
	_, out := run(t, "let x = 5;\n", Options{NoPrompt: true})

	want := "LET\nIDENT(\"x\")\nASSIGN\nINT(5)\nSEMICOLON\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestTokensModeOverflow(t *testing.T) {
	_, out := run(t, "99999999999\nlet\n", Options{NoPrompt: true})

	if !strings.Contains(out, "error[lexical error]: integer literal out of range: 99999999999") {
		t.Errorf("missing diagnostic in %q", out)
	}
	// The session keeps going after a bad line.
	if !strings.HasSuffix(out, "LET\n") {
		t.Errorf("next line not scanned: %q", out)
	}
}

func TestASTMode(t *testing.T) {
	r, out := run(t, "let x = 5;\nlet y 1;\n:vars\n", Options{NoPrompt: true, Mode: ModeAST})

	if !strings.Contains(out, "Program (1 statements)\n  LetStatement @<repl>:1:1-11\n    Identifier \"x\"\n") {
		t.Errorf("tree missing in %q", out)
	}
	if !strings.Contains(out, "error[unexpected token]: expected next token to be ASSIGN, got INT(1) instead") {
		t.Errorf("diagnostic missing in %q", out)
	}
	if !strings.Contains(out, "Current variables:\n  x = <empty>\n") {
		t.Errorf(":vars output missing in %q", out)
	}
	if r.Mode() != ModeAST {
		t.Errorf("mode = %s", r.Mode())
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"help", ":help\n", []string{"REPL Commands:", ":mode [tokens|ast]"}},
		{"unknown", ":frobnicate\n", []string{"Unknown command: :frobnicate"}},
		{"mode switch", ":mode ast\n:mode\n", []string{"Mode set to ast", "Mode: ast"}},
		{"bad mode", ":mode eval\n", []string{"Usage: :mode tokens|ast"}},
		{"empty vars", ":vars\n", []string{"No variables defined"}},
		{"history", "let a = 1;\n:history\n", []string{"  1: let a = 1;", "  2: :history"}},
		{"reset", ":mode ast\nlet a = 1;\n:reset\n:vars\n", []string{"Bindings cleared", "No variables defined"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := run(t, tt.input, Options{NoPrompt: true})
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}
}

func TestQuitStopsReading(t *testing.T) {
	r, out := run(t, "let a = 1;\n:quit\nlet b = 2;\n", Options{NoPrompt: true})

	if strings.Contains(out, "IDENT(\"b\")") {
		t.Errorf("input after :quit was evaluated: %q", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("missing farewell: %q", out)
	}
	if got := len(r.History()); got != 2 {
		t.Errorf("history has %d entries, want 2", got)
	}
}

func TestPrompt(t *testing.T) {
	_, out := run(t, "let\n", Options{Prompt: ">> "})

	if !strings.HasPrefix(out, "Monkey REPL v") {
		t.Errorf("missing welcome: %q", out)
	}
	if strings.Count(out, ">> ") != 2 {
		t.Errorf("expected a prompt before each read: %q", out)
	}
}

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(path, []byte("old1\nold2\nold3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	opts := Options{NoPrompt: true, HistoryFile: path, MaxHistory: 3}

	var out bytes.Buffer
	r := New(strings.NewReader("let a = 1;\n"), &out, nil, opts)
	if err := r.LoadHistory(); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "old2\nold3\nlet a = 1;\n" {
		t.Errorf("history file = %q", got)
	}
}

func TestLoadHistoryMissingFile(t *testing.T) {
	r := New(strings.NewReader(""), &bytes.Buffer{}, nil, Options{HistoryFile: filepath.Join(t.TempDir(), "none")})
	if err := r.LoadHistory(); err != nil {
		t.Errorf("LoadHistory on a missing file = %v", err)
	}
}

func TestSessionID(t *testing.T) {
	a := New(strings.NewReader(""), &bytes.Buffer{}, nil, Options{})
	b := New(strings.NewReader(""), &bytes.Buffer{}, nil, Options{})

	if _, err := uuid.Parse(a.Session()); err != nil {
		t.Errorf("session %q is not a uuid: %v", a.Session(), err)
	}
	if a.Session() == b.Session() {
		t.Error("sessions share an id")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeTokens, false},
		{"tokens", ModeTokens, false},
		{"ast", ModeAST, false},
		{"eval", ModeTokens, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.input, got, err)
		}
	}
}
