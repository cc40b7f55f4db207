// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

// Config controls how the loggers built by a Factory behave.
type Config struct {
	Directory    string
	LogLevel     Level
	DisplayLevel Level
	Highlight    Highlight
}

// DefaultConfig returns the logging defaults used when statehistoryd is run
// without log-related flags.
func DefaultConfig() Config {
	return Config{
		Directory:    "state-history-logs",
		LogLevel:     Debug,
		DisplayLevel: Info,
		Highlight:    Auto,
	}
}
