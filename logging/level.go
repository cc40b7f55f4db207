// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"encoding/json"
	"fmt"
	"strings"
)

const alignedStringLen = 5

// Level is a logging severity, ordered from most to least severe.
type Level int

const (
	Off Level = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Verbo
)

const (
	offStr     = "OFF"
	fatalStr   = "FATAL"
	errorStr   = "ERROR"
	warnStr    = "WARN"
	infoStr    = "INFO"
	debugStr   = "DEBUG"
	verboStr   = "VERBO"
	unknownStr = "UNKNO"
)

// ToLevel is the inverse of Level.String.
func ToLevel(l string) (Level, error) {
	switch strings.ToUpper(l) {
	case offStr:
		return Off, nil
	case fatalStr:
		return Fatal, nil
	case errorStr:
		return Error, nil
	case warnStr:
		return Warn, nil
	case infoStr:
		return Info, nil
	case debugStr:
		return Debug, nil
	case verboStr:
		return Verbo, nil
	default:
		return Off, fmt.Errorf("unknown log level: %q", l)
	}
}

func (l Level) String() string {
	switch l {
	case Fatal:
		return fatalStr
	case Error:
		return errorStr
	case Warn:
		return warnStr
	case Info:
		return infoStr
	case Debug:
		return debugStr
	case Verbo:
		return verboStr
	case Off:
		return offStr
	default:
		return unknownStr
	}
}

// AlignedString pads or truncates String() to a fixed width so log lines
// line up in a terminal.
func (l Level) AlignedString() string {
	s := l.String()
	switch {
	case len(s) < alignedStringLen:
		return s + strings.Repeat(" ", alignedStringLen-len(s))
	case len(s) == alignedStringLen:
		return s
	default:
		return s[:alignedStringLen]
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	var err error
	*l, err = ToLevel(str)
	return err
}
