package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/emberapp/ember/internal/config"
)

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// Init sets up the global logger from the Log section of the app config.
// Safe to call multiple times; a nil config yields the defaults.
func Init(cfg *config.Config) {
	mu.Lock()
	defer mu.Unlock()
	logger = build(cfg)
}

func build(cfg *config.Config) *slog.Logger {
	level, format, component := "info", "text", ""
	withSource := false
	if cfg != nil {
		level = cfg.Log.Level
		format = cfg.Log.Format
		component = cfg.Log.Component
		withSource = cfg.Log.Source
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: withSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && !isJSON(format) {
				return slog.String(slog.TimeKey, time.Now().Format("2006-01-02 15:04:05"))
			}
			return a
		},
	}

	var handler slog.Handler
	if isJSON(format) {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	base := slog.New(handler)
	if component != "" {
		base = base.With("component", component)
	}
	return base
}

// L returns the global logger. Always returns a non-nil instance.
func L() *slog.Logger {
	mu.RLock()
	if logger != nil {
		defer mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	// initialize default logger if not set
	Init(nil)

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

// --- helpers ---

func isJSON(format string) bool {
	return strings.EqualFold(strings.TrimSpace(format), "json")
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
