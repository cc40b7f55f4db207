// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Factory builds named Loggers that all write to rotating files under one
// Config.Directory, mirroring everything else written to the console.
type Factory struct {
	mu      sync.Mutex
	config  Config
	loggers map[string]Logger
}

// NewFactory returns a Factory producing loggers configured per config.
func NewFactory(config Config) *Factory {
	return &Factory{
		config:  config,
		loggers: make(map[string]Logger),
	}
}

// Make creates a new named Logger, e.g. "history" or "session". Names must
// be unique within a Factory.
func (f *Factory) Make(name string) (Logger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}

	if err := os.MkdirAll(f.config.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("logging: creating log directory %s: %w", f.config.Directory, err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(f.config.Directory, name+".log"),
		MaxSize:    8, // megabytes
		MaxBackups: 7,
	}

	// The console gets Config.Highlight (resolved against whether stdout
	// is actually a terminal) at Config.DisplayLevel; the rotated file
	// always stays uncolored, at its own, typically more verbose,
	// Config.LogLevel threshold.
	highlight := ResolveHighlight(f.config.Highlight, os.Stdout.Fd())
	console := buildCore(f.config.DisplayLevel, highlight, os.Stdout)
	file := buildCore(f.config.LogLevel, Plain, rotator)

	l := newLogger(name, zapcore.NewTee(console, file), rotator)
	f.loggers[name] = l
	return l, nil
}

// Close stops every Logger this Factory has produced.
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}
