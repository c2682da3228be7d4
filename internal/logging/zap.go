package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the production logger.
type Options struct {
	App       string
	Dir       string // rotating log file directory, empty disables the file
	Level     string // level of the file output
	Format    string // "json" or "console"
	Retention int    // rotated files to keep
	Stdout    io.Writer
}

// ZapLogger implements Logger on top of a sugared zap logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// New builds a logger writing info and above to stdout, and everything at
// or above opts.Level to a rotating file in opts.Dir.
func New(opts Options) (*ZapLogger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console", "text":
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(stdout)), zapcore.InfoLevel),
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, opts.App+".log"),
			MaxSize:    100,
			MaxBackups: opts.Retention,
			MaxAge:     opts.Retention * 7,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), level))
	}

	l := zap.New(zapcore.NewTee(cores...)).Named(opts.App)
	return &ZapLogger{s: l.Sugar()}, nil
}

// NewFromCore wraps an existing zap core.
func NewFromCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{s: zap.New(core).Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewFromCore(zapcore.NewNopCore())
}

func (l *ZapLogger) Debug(msg string, args ...any) { l.s.Debugw(msg, args...) }
func (l *ZapLogger) Info(msg string, args ...any)  { l.s.Infow(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...any)  { l.s.Warnw(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...any) { l.s.Errorw(msg, args...) }

// With returns a child logger carrying args on every entry.
func (l *ZapLogger) With(args ...any) *ZapLogger {
	return &ZapLogger{s: l.s.With(args...)}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.s.Sync()
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(value string) (zapcore.Level, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", value)
	}
}
