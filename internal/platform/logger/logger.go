// Package logger construye el slog.Logger del proceso.
//
// APP_ENV elige la salida:
//   - local: líneas coloreadas y legibles en stdout (debug)
//   - dev:   JSON en stdout (debug)
//   - prod:  JSON en stdout (info)
//
// Un level no vacío ("debug", "info", "warn", "error") pisa el default del env.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"horse-treatment-records/internal/config"
)

func New(env, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, env, level)
}

func NewWithWriter(w io.Writer, env, level string) *slog.Logger {
	lvl := defaultLevel(env)
	if l, ok := ParseLevel(level); ok {
		lvl = l
	}

	var h slog.Handler
	switch env {
	case config.EnvLocal, "":
		h = NewPrettyHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(h).With(slog.String("app", config.AppName))
}

func defaultLevel(env string) slog.Level {
	if env == config.EnvProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// ParseLevel devuelve false para un nivel vacío o desconocido.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
