package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

type sessionKey struct{}

// WithSession returns a context whose log records carry the given session id
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// Handler adds context-scoped attributes to every record
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if v, ok := ctx.Value(sessionKey{}).(string); ok {
		record.Add("session", v)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name)}
}

// Logger is a configured slog logger plus the resources it owns
type Logger struct {
	*slog.Logger
	Level *slog.LevelVar

	closers []io.Closer
}

// NewLogger builds a logger writing to w, plus an optional JSON file and the
// systemd journal as configured. Handlers are fanned out so each record
// reaches every destination.
func NewLogger(w io.Writer, config LogConfig) (*Logger, error) {
	level, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	logger := &Logger{Level: new(slog.LevelVar)}
	logger.Level.Set(level)

	options := &slog.HandlerOptions{Level: logger.Level}

	var handlers []slog.Handler

	// terminal
	var terminalHandler slog.Handler
	if config.Format == "json" {
		terminalHandler = slog.NewJSONHandler(w, options)
	} else {
		terminalHandler = slog.NewTextHandler(w, options)
	}
	handlers = append(handlers, terminalHandler)

	// file
	if config.File != "" {
		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.closers = append(logger.closers, f)
		handlers = append(handlers, slog.NewJSONHandler(f, options))
	}

	// systemd journal
	if config.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	logger.Logger = slog.New(&Handler{
		Handler: slogmulti.Fanout(handlers...),
	})

	return logger, nil
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	return first
}

// toJournalKey maps an attribute key to the upper-case form journald
// requires for field names.
func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}
