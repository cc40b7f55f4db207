// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command statehistoryd wires the state-history plugin into a standalone
// process: parse flags, build a logger, bring the plugin up, and shut it
// down cleanly on SIGINT/SIGTERM. A real deployment embeds this subsystem
// in the node process and supplies its own ChainPlugin; this binary links
// in demoChain, a minimal reference implementation, so the wiring itself is
// buildable and runnable on its own.
package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"chain-node/state-history/config"
	"chain-node/state-history/logging"
	"chain-node/state-history/plugin"
	"chain-node/state-history/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("statehistoryd", pflag.ContinueOnError)
	config.AddFlags(fs)
	logDir := fs.String("log-dir", "state-history-logs", "directory for statehistoryd's own log files")
	appDataDir := fs.String("data-dir", ".", "base directory relative config paths are resolved against")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.Resolve(fs, *appDataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logConfig := logging.DefaultConfig()
	logConfig.Directory = *logDir
	factory := logging.NewFactory(logConfig)
	defer factory.Close()

	log, err := factory.Make("statehistoryd")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	chain := newDemoChain()
	p, err := plugin.Initialize(log, cfg, chain, chain, prometheus.DefaultRegisterer)
	if err != nil {
		log.Error("failed to initialize state-history plugin", zap.Error(err))
		return 1
	}

	p.Startup()
	log.Info("state-history plugin listening", zap.Stringer("endpoint", cfg.Endpoint))

	done := make(chan struct{})
	var shutdownErr error
	var once sync.Once
	sigChan := utils.HandleSignals(func(os.Signal) {
		once.Do(func() {
			log.Info("shutting down")
			shutdownErr = p.Shutdown()
			close(done)
		})
	}, syscall.SIGINT, syscall.SIGTERM)
	defer utils.ClearSignals(sigChan)

	<-done
	if shutdownErr != nil {
		log.Error("error during shutdown", zap.Error(shutdownErr))
		return 1
	}
	return 0
}
