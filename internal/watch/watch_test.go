package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "NONE"},
		{OpWrite, "WRITE"},
		{OpCreate | OpWrite, "CREATE|WRITE"},
		{OpRemove | OpRename | OpChmod, "REMOVE|RENAME|CHMOD"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}

	if !(OpCreate | OpWrite).Has(OpWrite) || OpWrite.Has(OpCreate|OpWrite) {
		t.Error("Has mismatch")
	}
}

func TestTranslate(t *testing.T) {
	got := translate(fsnotify.Create | fsnotify.Write | fsnotify.Chmod)
	if got != OpCreate|OpWrite|OpChmod {
		t.Errorf("translate = %s", got)
	}
}

var errDone = errors.New("done")

func TestRunReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.mk")
	other := filepath.Join(dir, "other.mk")
	if err := os.WriteFile(path, []byte("let x = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events := make(chan Event, 16)
	result := make(chan error, 1)
	go func() {
		result <- Run(ctx, path, func(ev Event) error {
			events <- ev
			return errDone
		})
	}()

	// The watcher registers asynchronously, so keep touching both files
	// until the first notification arrives.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if ev.Path != path {
				t.Errorf("event path = %s, want %s", ev.Path, path)
			}
			if ev.Op&(OpWrite|OpCreate) == 0 {
				t.Errorf("unexpected op %s", ev.Op)
			}
			if err := <-result; !errors.Is(err, errDone) {
				t.Errorf("Run returned %v", err)
			}
			return
		case <-ticker.C:
			_ = os.WriteFile(other, []byte("noise"), 0o644)
			_ = os.WriteFile(path, []byte("let x = 2;"), 0o644)
		case <-ctx.Done():
			t.Fatal("timed out waiting for a write event")
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.mk")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, path, func(Event) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestRunMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "main.mk")
	if err := Run(context.Background(), path, func(Event) error { return nil }); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
