// Package watch reports changes to source files using OS-native
// notifications.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Op describes a set of file operations.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

func (op Op) String() string {
	var parts []string
	for _, f := range []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	} {
		if op&f.op != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Has reports whether op contains every flag in other
func (op Op) Has(other Op) bool { return op&other == other }

// Event is a single change notification.
type Event struct {
	Path string
	Op   Op
}

// Watcher implements change notification on top of fsnotify.
type Watcher struct {
	w   *fsnotify.Watcher
	evC chan Event
	erC chan error
}

// NewWatcher creates a Watcher with no paths registered.
func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{w: w, evC: make(chan Event, 128), erC: make(chan error, 1)}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)
	defer close(fw.erC)

	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			fw.evC <- Event{Path: ev.Name, Op: translate(ev.Op)}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func translate(in fsnotify.Op) Op {
	var op Op
	if in&fsnotify.Create != 0 {
		op |= OpCreate
	}
	if in&fsnotify.Write != 0 {
		op |= OpWrite
	}
	if in&fsnotify.Remove != 0 {
		op |= OpRemove
	}
	if in&fsnotify.Rename != 0 {
		op |= OpRename
	}
	if in&fsnotify.Chmod != 0 {
		op |= OpChmod
	}
	return op
}

func (fw *Watcher) Events() <-chan Event     { return fw.evC }
func (fw *Watcher) Errors() <-chan error     { return fw.erC }
func (fw *Watcher) Add(name string) error    { return fw.w.Add(name) }
func (fw *Watcher) Remove(name string) error { return fw.w.Remove(name) }
func (fw *Watcher) Close() error             { return fw.w.Close() }

// Run watches path and calls fn for every write to it or re-creation of it,
// until ctx is done or fn returns an error. The parent directory is watched
// so editors that save by renaming a temporary file are still seen.
func Run(ctx context.Context, path string, fn func(Event) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Path) != abs {
				continue
			}
			if ev.Op&(OpWrite|OpCreate) == 0 {
				continue
			}
			if err := fn(Event{Path: path, Op: ev.Op}); err != nil {
				return err
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}
