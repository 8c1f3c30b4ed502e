// Package logger provides structured logging on top of log/slog.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ParseLogLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

type Logger struct {
	handler slog.Handler
}

func New(w io.Writer, minLevel Level, service string) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     minLevel.slog(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					v := source.File
					if idx := strings.LastIndexByte(v, '/'); idx >= 0 {
						v = v[idx+1:]
					}
					a.Value = slog.StringValue(v)
					a.Key = "file"
				}
			}
			return a
		},
	})

	attrs := []slog.Attr{{Key: "service", Value: slog.StringValue(service)}}
	return &Logger{handler: h.WithAttrs(attrs)}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, 3, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, 3, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, 3, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, 3, msg, args...)
}

func (l *Logger) Log(ctx context.Context, level Level, msg string, args ...any) {
	l.write(ctx, level, 3, msg, args...)
}

// BuildInfo logs the module version and vcs revision when available.
func (l *Logger) BuildInfo(ctx context.Context) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	args := []any{"go", bi.GoVersion, "module", bi.Main.Path, "version", bi.Main.Version}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			args = append(args, "revision", s.Value)
		}
	}
	l.write(ctx, LevelInfo, 3, "build info", args...)
}

func (l *Logger) write(ctx context.Context, level Level, caller int, msg string, args ...any) {
	sl := level.slog()
	if !l.handler.Enabled(ctx, sl) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(caller, pcs[:])

	r := slog.NewRecord(time.Now(), sl, msg, pcs[0])
	r.Add(args...)

	_ = l.handler.Handle(ctx, r)
}

// NewStdLogger bridges the structured logger into a *log.Logger so it can be
// handed to APIs that expect one, like http.Server.ErrorLog.
func NewStdLogger(l *Logger, level Level) *log.Logger {
	return log.New(&stdWriter{log: l, level: level}, "", 0)
}

type stdWriter struct {
	log   *Logger
	level Level
}

func (w *stdWriter) Write(p []byte) (int, error) {
	w.log.write(context.Background(), w.level, 4, strings.TrimSpace(string(p)))
	return len(p), nil
}
