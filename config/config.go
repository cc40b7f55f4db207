// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config registers and resolves the three CLI options the
// state-history plugin needs, the way the rest of the node registers flags
// into a shared pflag.FlagSet and resolves them into a typed struct.
package config

import (
	"fmt"
	"net/netip"
	"path/filepath"

	"github.com/spf13/pflag"

	"chain-node/state-history/errkind"
	"chain-node/state-history/utils/ips"
)

// Flag names, also usable as the config file / env var keys a surrounding
// node might map onto these flags.
const (
	DirKey      = "state-history-dir"
	DeleteKey   = "delete-state-history"
	EndpointKey = "state-history-endpoint"

	defaultDir      = "state-history"
	defaultEndpoint = "0.0.0.0:8080"
)

// Config is the resolved, typed form of the three state-history flags.
type Config struct {
	// Dir is the directory the three logs live in; a relative flag value
	// is joined onto the app data directory.
	Dir string
	// Delete wipes Dir before the logs are opened, if true.
	Delete bool
	// Endpoint is the address the Acceptor listens on.
	Endpoint netip.AddrPort
}

// AddFlags registers the state-history flags into fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String(DirKey, defaultDir, "directory for state-history log files, resolved relative to the app data directory if relative")
	fs.Bool(DeleteKey, false, "wipe the state-history directory before opening it")
	fs.String(EndpointKey, defaultEndpoint, "host:port to listen for state-history client connections on")
}

// Resolve reads the flags registered by AddFlags out of fs and validates
// them, resolving a relative directory against appDataDir.
func Resolve(fs *pflag.FlagSet, appDataDir string) (Config, error) {
	dir, err := fs.GetString(DirKey)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", errkind.ConfigError, err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(appDataDir, dir)
	}

	del, err := fs.GetBool(DeleteKey)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", errkind.ConfigError, err)
	}

	endpoint, err := fs.GetString(EndpointKey)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", errkind.ConfigError, err)
	}
	addrPort, err := ips.ParseAddrPort(endpoint)
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid %s %q: %v", errkind.ConfigError, EndpointKey, endpoint, err)
	}

	return Config{
		Dir:      dir,
		Delete:   del,
		Endpoint: addrPort,
	}, nil
}
