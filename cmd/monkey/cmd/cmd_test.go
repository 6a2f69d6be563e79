package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the root command with fresh flag state and captured output
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgFile = filepath.Join(t.TempDir(), "none.toml")
	logLevel, noColor = "error", true
	parseRecovery, parseQuiet, parseFormat = "", false, "tree"
	tokensSpans, versionJSON = false, false
	replMode, replNoPrompt = "", false

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := ExecuteContext(context.Background())
	return out.String(), err
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokensCommand(t *testing.T) {
	out, err := execute(t, "let x = 5;", "tokens", "-")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	want := "LET\nIDENT(\"x\")\nASSIGN\nINT(5)\nSEMICOLON\nEOF\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestTokensCommandOverflow(t *testing.T) {
	out, err := execute(t, "let x = 99999999999;", "tokens", "-")
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if !strings.Contains(out, "<stdin>:1:9: error[lexical error]") {
		t.Errorf("missing diagnostic: %q", out)
	}
}

func TestParseCommand(t *testing.T) {
	good := writeSource(t, "good.mk", "let x = 5;\nlet y = 10;\n")
	bad := writeSource(t, "bad.mk", "let x 5;\n")

	out, err := execute(t, "", "parse", good)
	if err != nil {
		t.Fatalf("parse good: %v", err)
	}
	if !strings.Contains(out, "# "+good+"\nProgram (2 statements)\n") {
		t.Errorf("tree missing: %q", out)
	}

	out, err = execute(t, "", "parse", "--quiet", good, bad)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if strings.Contains(out, "Program") {
		t.Errorf("--quiet printed a tree: %q", out)
	}
	if !strings.Contains(out, "bad.mk:1:7: error[unexpected token]: expected next token to be ASSIGN, got INT(5) instead") {
		t.Errorf("diagnostic missing: %q", out)
	}
}

func TestParseCommandKeepsArgumentOrder(t *testing.T) {
	var paths []string
	for _, name := range []string{"a.mk", "b.mk", "c.mk", "d.mk"} {
		paths = append(paths, writeSource(t, name, "let "+strings.TrimSuffix(name, ".mk")+" = 1;"))
	}

	out, err := execute(t, "", append([]string{"parse", "--format", "source"}, paths...)...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "let a = <empty>;\nlet b = <empty>;\nlet c = <empty>;\nlet d = <empty>;\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestParseCommandRecoveryFlag(t *testing.T) {
	path := writeSource(t, "bad.mk", "let x 5;\nlet = 1;\n")

	out, _ := execute(t, "", "parse", "--recovery", "fail-fast", path)
	if !strings.HasSuffix(out, "1 error\n") {
		t.Errorf("fail-fast output = %q", out)
	}

	out, _ = execute(t, "", "parse", path)
	if !strings.HasSuffix(out, "2 errors\n") {
		t.Errorf("synchronize output = %q", out)
	}

	if _, err := execute(t, "", "parse", "--recovery", "bogus", path); err == nil || errors.Is(err, errReported) {
		t.Errorf("bogus recovery mode accepted: %v", err)
	}
}

func TestParseCommandMissingFile(t *testing.T) {
	_, err := execute(t, "", "parse", filepath.Join(t.TempDir(), "missing.mk"))
	if err == nil || errors.Is(err, errReported) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestREPLCommand(t *testing.T) {
	out, err := execute(t, "let x = 1;\n:quit\n", "repl", "--no-prompt", "--mode", "ast")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}
	if !strings.Contains(out, "Program (1 statements)") || !strings.HasSuffix(out, "Goodbye!\n") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "monkey"`) {
		t.Errorf("output = %q", out)
	}
}

func TestConfigFileIsApplied(t *testing.T) {
	path := writeSource(t, "bad.mk", "let x 5;\nlet = 1;\n")
	configPath := writeSource(t, "monkey.toml", "[parser]\nrecovery = \"fail-fast\"\n")

	// execute resets cfgFile, so pass the flag explicitly.
	out, _ := execute(t, "", "--config", configPath, "parse", path)
	if !strings.HasSuffix(out, "1 error\n") {
		t.Errorf("config recovery ignored: %q", out)
	}

	bad := writeSource(t, "broken.toml", "[parser]\nrecovery = \"retry\"\n")
	if _, err := execute(t, "", "--config", bad, "version"); err == nil {
		t.Error("invalid config accepted")
	}
}
