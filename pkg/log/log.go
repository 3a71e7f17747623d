// Copyright 2018 ETH Zurich
// Copyright 2019 ETH Zurich, Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is a thin wrapper around zap. Log calls take a message followed by alternating
// keys and values:
//
//	log.Info("Route table loaded", "routes", len(routes))
//
// Until Setup is called, the root logger discards everything.
package log

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
)

const (
	// DefaultConsoleLevel is the default log level for the console.
	DefaultConsoleLevel = "info"
	// DefaultStacktraceLevel is the default level above which stack traces are attached.
	DefaultStacktraceLevel = "none"
)

// Level of a log entry.
type Level zapcore.Level

const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// Logger describes the logger interface.
type Logger interface {
	New(ctx ...any) Logger
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(lvl Level) bool
}

// ConsoleConfig is the configuration of the console logger.
type ConsoleConfig struct {
	// Level of the console logging. Defaults to info.
	Level string `toml:"level,omitempty"`
	// Format of the console logging: human or json. Defaults to human.
	Format string `toml:"format,omitempty"`
	// StacktraceLevel sets from which level stacktraces are printed. Defaults to none.
	StacktraceLevel string `toml:"stacktrace_level,omitempty"`
	// DisableCaller stops annotating logs with the calling function's file name and line number.
	DisableCaller bool `toml:"disable_caller,omitempty"`
}

// InitDefaults populates unset fields with their defaults.
func (c *ConsoleConfig) InitDefaults() {
	if c.Level == "" {
		c.Level = DefaultConsoleLevel
	}
	if c.Format == "" {
		c.Format = "human"
	}
	if c.StacktraceLevel == "" {
		c.StacktraceLevel = DefaultStacktraceLevel
	}
}

// Validate checks the levels and the format.
func (c *ConsoleConfig) Validate() error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return serrors.Wrap("invalid log.console.level", err, "level", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "human", "json":
	default:
		return serrors.New("unknown log.console.format", "format", c.Format)
	}
	if c.StacktraceLevel != "none" {
		if err := lvl.UnmarshalText([]byte(c.StacktraceLevel)); err != nil {
			return serrors.Wrap("invalid log.console.stacktrace_level", err,
				"level", c.StacktraceLevel)
		}
	}
	return nil
}

// Config is the configuration of the logger.
type Config struct {
	Console ConsoleConfig `toml:"console,omitempty"`
}

// InitDefaults populates unset fields with their defaults.
func (c *Config) InitDefaults() {
	c.Console.InitDefaults()
}

// EntriesCounter counts emitted log entries per level.
type EntriesCounter struct {
	Debug prometheus.Counter
	Info  prometheus.Counter
	Error prometheus.Counter
}

type options struct {
	entriesCounter EntriesCounter
}

// Option configures Setup.
type Option func(o *options)

// WithEntriesCounter makes Setup count the emitted entries with the given counters.
func WithEntriesCounter(m EntriesCounter) Option {
	return func(o *options) {
		o.entriesCounter = m
	}
}

var (
	zapLogger = zap.NewNop()
	atom      = zap.NewAtomicLevel()
)

// Setup configures the root logger. It must be called once, before any goroutine logs.
func Setup(cfg Config, opts ...Option) error {
	cfg.InitDefaults()
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := atom.UnmarshalText([]byte(cfg.Console.Level)); err != nil {
		return serrors.Wrap("unable to parse log.console.level", err,
			"level", cfg.Console.Level)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Console.Format) {
	case "human":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		if isatty.IsTerminal(os.Stdout.Fd()) {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return serrors.New("unknown log.console.format", "format", cfg.Console.Format)
	}

	zopts := []zap.Option{zap.AddCallerSkip(1)}
	if !cfg.Console.DisableCaller {
		zopts = append(zopts, zap.AddCaller())
	}
	if cfg.Console.StacktraceLevel != "none" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(cfg.Console.StacktraceLevel)); err != nil {
			return serrors.Wrap("unable to parse log.console.stacktrace_level", err,
				"level", cfg.Console.StacktraceLevel)
		}
		zopts = append(zopts, zap.AddStacktrace(lvl))
	}
	if c := o.entriesCounter; c.Debug != nil || c.Info != nil || c.Error != nil {
		zopts = append(zopts, zap.Hooks(func(e zapcore.Entry) error {
			var ctr prometheus.Counter
			switch e.Level {
			case zapcore.DebugLevel:
				ctr = c.Debug
			case zapcore.InfoLevel:
				ctr = c.Info
			case zapcore.ErrorLevel:
				ctr = c.Error
			}
			if ctr != nil {
				ctr.Inc()
			}
			return nil
		}))
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), atom)
	zapLogger = zap.New(core, zopts...)
	zap.ReplaceGlobals(zapLogger)
	return nil
}

// SetLevel changes the console level of the root logger at runtime.
func SetLevel(lvl string) error {
	return atom.UnmarshalText([]byte(lvl))
}

// ConsoleLevel returns the current console level.
func ConsoleLevel() string {
	return atom.Level().String()
}

// Flush writes the buffered entries of the root logger.
func Flush() {
	_ = zapLogger.Sync()
}

// HandlePanic catches panics and logs them. It must be deferred directly, as the first
// statement of every goroutine:
//
//	go func() {
//		defer log.HandlePanic()
//		...
//	}()
func HandlePanic() {
	if msg := recover(); msg != nil {
		zapLogger.Error("Panic", zap.Any("msg", msg), zap.ByteString("stack", debug.Stack()))
		zapLogger.Error("=====================> Service panicked!")
		Flush()
		fmt.Fprintf(os.Stderr, "panic: %v\n\n%s", msg, debug.Stack())
		os.Exit(255)
	}
}

type logger struct {
	logger *zap.Logger
}

// New creates a logger with the given context on top of the root logger.
func New(ctx ...any) Logger {
	return &logger{logger: zapLogger.With(convertCtx(ctx)...)}
}

// Root returns the root logger. It is a logger without any context.
func Root() Logger {
	return &logger{logger: zapLogger}
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(zapcore.Level(lvl))
}

// Debug logs at debug level on the root logger.
func Debug(msg string, ctx ...any) {
	zapLogger.Debug(msg, convertCtx(ctx)...)
}

// Info logs at info level on the root logger.
func Info(msg string, ctx ...any) {
	zapLogger.Info(msg, convertCtx(ctx)...)
}

// Error logs at error level on the root logger.
func Error(msg string, ctx ...any) {
	zapLogger.Error(msg, convertCtx(ctx)...)
}

func convertCtx(ctx []any) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(ctx[i]), ctx[i+1]))
	}
	return fields
}
