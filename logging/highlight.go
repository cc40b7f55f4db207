// Copyright (C) 2020, Alex Willmer, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"fmt"
	"strings"

	"golang.org/x/term"
)

// Highlight selects whether displayed logs carry ANSI color.
type Highlight int

const (
	Plain Highlight = iota
	Colors
	Auto
)

// ResolveHighlight turns Auto into Plain or Colors depending on whether fd
// is attached to a terminal; Plain and Colors pass through unchanged.
func ResolveHighlight(h Highlight, fd uintptr) Highlight {
	if h != Auto {
		return h
	}
	if term.IsTerminal(int(fd)) {
		return Colors
	}
	return Plain
}

func (h *Highlight) MarshalJSON() ([]byte, error) {
	switch *h {
	case Plain:
		return []byte(`"PLAIN"`), nil
	case Colors:
		return []byte(`"COLORS"`), nil
	case Auto:
		return []byte(`"AUTO"`), nil
	default:
		return nil, fmt.Errorf("unknown highlight mode: %d", *h)
	}
}

func (h *Highlight) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(b), `"`) {
	case "PLAIN":
		*h = Plain
	case "COLORS":
		*h = Colors
	case "AUTO":
		*h = Auto
	default:
		return fmt.Errorf("unknown highlight mode: %s", b)
	}
	return nil
}
