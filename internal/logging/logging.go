// Package logging собирает логгер узла: читаемые записи в stderr
// и дописываемый файл журнала событий.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel преобразует имя уровня в slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", name, err)
	}
	return level, nil
}

// Logger - настроенный slog.Logger вместе с ресурсами, которыми он владеет
type Logger struct {
	*slog.Logger
	eventLog *os.File
}

// Close закрывает файл журнала событий, если он открыт
func (l *Logger) Close() error {
	if l.eventLog == nil {
		return nil
	}
	return l.eventLog.Close()
}

// New создает логгер, пишущий в console с уровнем level. Если eventLogPath
// не пуст, записи уровня Info и выше дописываются также в этот файл.
func New(console io.Writer, level string, eventLogPath string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: lvl}),
	}

	var file *os.File
	if eventLogPath != "" {
		file, err = os.OpenFile(eventLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return &Logger{
		Logger:   slog.New(NewFanout(handlers...)),
		eventLog: file,
	}, nil
}

// Fanout рассылает каждую запись всем handler-ам, принимающим ее уровень
type Fanout struct {
	handlers []slog.Handler
}

var _ slog.Handler = (*Fanout)(nil)

// NewFanout возвращает handler, пишущий в каждый из handlers
func NewFanout(handlers ...slog.Handler) *Fanout {
	return &Fanout{handlers: handlers}
}

// Enabled сообщает, принимает ли уровень хотя бы один handler
func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle передает копию r каждому включенному handler-у
func (f *Fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &Fanout{handlers: next}
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &Fanout{handlers: next}
}
