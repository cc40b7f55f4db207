// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging wraps go.uber.org/zap behind a small Logger interface so
// every component in the state-history subsystem logs through the same
// severity levels and can be swapped for a no-op logger in tests.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the interface every component in this module takes at
// construction. Fatal does not exit the process; callers decide whether a
// fatal-kind error is itself fatal to them.
type Logger interface {
	Fatal(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Verbo(msg string, fields ...zap.Field)

	// With returns a child logger that always includes the given fields.
	With(fields ...zap.Field) Logger

	// Stop flushes and closes every writer backing this logger.
	Stop()
}

var _ Logger = (*log)(nil)

type log struct {
	internal *zap.Logger
	closers  []io.Closer
}

func toZapLevel(l Level) zapcore.Level {
	switch l {
	case Fatal:
		return zapcore.FatalLevel
	case Error:
		return zapcore.ErrorLevel
	case Warn:
		return zapcore.WarnLevel
	case Info:
		return zapcore.InfoLevel
	case Debug:
		return zapcore.DebugLevel
	case Verbo:
		// zap has no level below Debug; Verbo is our own finer-grained
		// tier and shares zap's Debug core.
		return zapcore.DebugLevel
	default:
		return zapcore.FatalLevel + 1 // Off: nothing is ever enabled.
	}
}

// buildCore returns a zapcore.Core writing to w at or above minLevel.
// highlight selects whether the level field carries ANSI color: only Colors
// does, and Auto is treated like Plain, so a console sink resolves Auto with
// ResolveHighlight first; a rotated file sink should always pass Plain.
func buildCore(minLevel Level, highlight Highlight, w io.Writer) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if highlight == Colors {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(toZapLevel(minLevel)),
	)
}

// New builds a Logger named prefix, writing a single uncolored sink w at
// or above minLevel. Closing w (via Stop) is the caller's responsibility
// unless w also implements io.Closer, in which case Stop closes it too.
func New(prefix string, minLevel Level, w io.Writer) Logger {
	return newLogger(prefix, buildCore(minLevel, Plain, w), closerOf(w))
}

// newLogger wires core into a Logger named prefix, closing every non-nil
// closer on Stop. Factory.Make uses this with a zapcore.NewTee of a
// colorized console core and a plain file core, each at its own level.
func newLogger(prefix string, core zapcore.Core, closers ...io.Closer) Logger {
	internal := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.WithFatalHook(continueAfterFatal{}))
	if prefix != "" {
		internal = internal.Named(prefix)
	}

	kept := make([]io.Closer, 0, len(closers))
	for _, c := range closers {
		if c != nil {
			kept = append(kept, c)
		}
	}
	return &log{internal: internal, closers: kept}
}

// continueAfterFatal is the zap fatal hook every Logger uses: it does
// nothing, so writing a Fatal entry never exits the process.
type continueAfterFatal struct{}

func (continueAfterFatal) OnWrite(*zapcore.CheckedEntry, []zapcore.Field) {}

func closerOf(w io.Writer) io.Closer {
	c, _ := w.(io.Closer)
	return c
}

func (l *log) log(level Level, msg string, fields ...zap.Field) {
	zl := toZapLevel(level)
	if ce := l.internal.Check(zl, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Fatal always attaches the calling goroutine's stack, the way a fatal
// condition's log line needs to be self-sufficient for a postmortem.
func (l *log) Fatal(msg string, fields ...zap.Field) {
	fields = append(fields, zap.Stringer("stack", Stacktrace{}))
	l.log(Fatal, msg, fields...)
}
func (l *log) Error(msg string, fields ...zap.Field) { l.log(Error, msg, fields...) }
func (l *log) Warn(msg string, fields ...zap.Field)  { l.log(Warn, msg, fields...) }
func (l *log) Info(msg string, fields ...zap.Field)  { l.log(Info, msg, fields...) }
func (l *log) Debug(msg string, fields ...zap.Field) { l.log(Debug, msg, fields...) }
func (l *log) Verbo(msg string, fields ...zap.Field) { l.log(Verbo, msg, fields...) }

func (l *log) With(fields ...zap.Field) Logger {
	return &log{internal: l.internal.With(fields...), closers: l.closers}
}

func (l *log) Stop() {
	_ = l.internal.Sync()
	for _, c := range l.closers {
		_ = c.Close()
	}
}
