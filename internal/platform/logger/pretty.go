package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// PrettyHandler escribe una línea coloreada por registro: hora, nivel, mensaje y attrs key=value ordenados.
type PrettyHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	opts  slog.HandlerOptions
	attrs []slog.Attr
	group string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	h := &PrettyHandler{mu: &sync.Mutex{}, w: w}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

func (h *PrettyHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return lvl >= min
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		fields[key] = a.Value.Any()
		return true
	})

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(r.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(levelColor(r.Level).Sprintf("%-5s", r.Level.String()))
	b.WriteByte(' ')
	b.WriteString(color.New(color.Bold).Sprint(r.Message))
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(color.CyanString(k))
		b.WriteByte('=')
		fmt.Fprint(&b, fields[k])
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return color.New(color.FgRed)
	case l >= slog.LevelWarn:
		return color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgMagenta)
	}
}
