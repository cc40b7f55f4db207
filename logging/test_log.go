// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import "go.uber.org/zap"

var _ Logger = NoLog{}

// NoLog discards everything. It's the Logger every package's tests use when
// they don't care about log output but still need to satisfy a constructor
// that takes one.
type NoLog struct{}

func (NoLog) Fatal(string, ...zap.Field) {}
func (NoLog) Error(string, ...zap.Field) {}
func (NoLog) Warn(string, ...zap.Field)  {}
func (NoLog) Info(string, ...zap.Field)  {}
func (NoLog) Debug(string, ...zap.Field) {}
func (NoLog) Verbo(string, ...zap.Field) {}
func (NoLog) With(...zap.Field) Logger   { return NoLog{} }
func (NoLog) Stop()                      {}
