// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plugin implements the Plugin lifecycle (C7): initialize, start,
// and shut down the whole subsystem, wiring the three history logs, the
// ingestor, the session registry, and the acceptor together.
package plugin

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"chain-node/state-history/acceptor"
	"chain-node/state-history/chainid"
	"chain-node/state-history/config"
	"chain-node/state-history/deltas"
	"chain-node/state-history/errkind"
	"chain-node/state-history/history"
	"chain-node/state-history/ingest"
	"chain-node/state-history/logging"
	"chain-node/state-history/metrics"
	"chain-node/state-history/session"
	"chain-node/state-history/utils/wrappers"
)

const (
	blockStateLogName = "block_state_history"
	traceLogName      = "trace_history"
	chainStateLogName = "chain_state_history"
)

// Plugin owns every long-lived resource of the subsystem and drives its
// three lifecycle phases.
type Plugin struct {
	log logging.Logger
	cfg config.Config

	chain  ChainPlugin
	blocks BlockStore

	blockStateLog *history.Log
	traceLog      *history.Log
	chainStateLog *history.Log

	traces   *ingest.TraceBuffer
	ingestor *ingest.Ingestor
	registry *session.Registry
	accept   *acceptor.Acceptor
	unsub    Unsubscribe
	metrics  *metrics.Metrics

	stopping atomic.Bool
}

// Initialize resolves the chain plugin, opens the three logs (wiping the
// directory first if configured to), and subscribes to the chain's two
// signals. It binds the listening socket but does not accept connections;
// call Startup for that.
func Initialize(log logging.Logger, cfg config.Config, chain ChainPlugin, blocks BlockStore, registerer prometheus.Registerer) (*Plugin, error) {
	if chain == nil {
		return nil, fmt.Errorf("%w: no chain plugin provided", errkind.ConfigError)
	}

	if cfg.Delete {
		if err := os.RemoveAll(cfg.Dir); err != nil {
			return nil, fmt.Errorf("%w: wiping state-history directory %s: %v", errkind.ConfigError, cfg.Dir, err)
		}
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating state-history directory %s: %v", errkind.ConfigError, cfg.Dir, err)
	}

	open := func(name string) (*history.Log, error) {
		logPath := filepath.Join(cfg.Dir, name+".log")
		indexPath := filepath.Join(cfg.Dir, name+".index")
		l, err := history.Open(logPath, indexPath, log.With(zap.String("log", name)))
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", errkind.ConfigError, name, err)
		}
		return l, nil
	}

	blockStateLog, err := open(blockStateLogName)
	if err != nil {
		return nil, err
	}
	traceLog, err := open(traceLogName)
	if err != nil {
		blockStateLog.Close()
		return nil, err
	}
	chainStateLog, err := open(chainStateLogName)
	if err != nil {
		blockStateLog.Close()
		traceLog.Close()
		return nil, err
	}

	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	m, err := metrics.New(registerer)
	if err != nil {
		blockStateLog.Close()
		traceLog.Close()
		chainStateLog.Close()
		return nil, fmt.Errorf("%w: registering metrics: %v", errkind.ConfigError, err)
	}

	traces := ingest.NewTraceBuffer()
	extractor := deltas.NewExtractor(log.With(zap.String("component", "deltas"))).WithObserver(m.Deltas)
	ingestor := ingest.NewIngestor(log.With(zap.String("component", "ingest")), blockStateLog, traceLog, chainStateLog, traces, extractor)

	p := &Plugin{
		log:           log,
		cfg:           cfg,
		chain:         chain,
		blocks:        blocks,
		blockStateLog: blockStateLog,
		traceLog:      traceLog,
		chainStateLog: chainStateLog,
		traces:        traces,
		ingestor:      ingestor,
		registry:      session.NewRegistry(),
		metrics:       m,
	}

	p.unsub = chain.Subscribe(p.onAppliedTransaction, p.onAcceptedBlock)

	accept, err := acceptor.Listen(log.With(zap.String("component", "acceptor")), cfg.Endpoint.String(), p.newSession)
	if err != nil {
		p.unsub()
		blockStateLog.Close()
		traceLog.Close()
		chainStateLog.Close()
		return nil, fmt.Errorf("%w: listening on %s: %v", errkind.ConfigError, cfg.Endpoint, err)
	}
	p.accept = accept.WithMetrics(m.Accept)

	return p, nil
}

// Startup begins accepting connections. The accept loop runs until
// Shutdown closes it.
func (p *Plugin) Startup() {
	go func() {
		if err := p.accept.Run(); err != nil {
			p.log.Error("acceptor stopped", zap.Error(err))
		}
	}()
}

// Shutdown disconnects the chain signals, closes every session, stops
// accepting new ones, and closes the three logs. Every in-flight callback
// that later checks stopping short-circuits instead of touching plugin
// state. Calls after the first do nothing and return nil.
func (p *Plugin) Shutdown() error {
	if p.stopping.Swap(true) {
		return nil
	}

	if p.unsub != nil {
		p.unsub()
	}
	if p.accept != nil {
		p.accept.Close()
	}
	p.registry.Stop()

	errs := wrappers.Errs{}
	errs.Add(p.blockStateLog.Close(), p.traceLog.Close(), p.chainStateLog.Close())
	return errs.Err
}

func (p *Plugin) onAppliedTransaction(txID chainid.ID, hasReceipt bool, traceData []byte) {
	if p.stopping.Load() {
		return
	}
	p.ingestor.OnAppliedTransaction(txID, hasReceipt, traceData)
}

func (p *Plugin) onAcceptedBlock(blockNum uint32, blockID, previousID chainid.ID, transactions []chainid.ID) {
	if p.stopping.Load() {
		return
	}
	b := ingest.Block{
		Num:          blockNum,
		ID:           blockID,
		PreviousID:   previousID,
		Transactions: transactions,
	}
	if err := p.ingestor.OnAcceptedBlock(b, p.chain.Database()); err != nil {
		p.log.Error("ingesting accepted block failed", zap.Uint32("blockNum", blockNum), zap.Error(err))
	}
}

// chainStatusAdapter narrows ChainPlugin down to the single method
// session.ChainStatus needs.
type chainStatusAdapter struct{ chain ChainPlugin }

func (a chainStatusAdapter) LastIrreversibleBlock() (uint32, chainid.ID) {
	return a.chain.LastIrreversibleBlock()
}

// blockStoreAdapter narrows BlockStore down to session.BlockStore; the two
// interfaces are structurally identical today but are kept separate so
// each package only declares the method set it actually calls.
type blockStoreAdapter struct{ blocks BlockStore }

func (a blockStoreAdapter) GetBlock(blockNum uint32) ([]byte, bool) {
	if a.blocks == nil {
		return nil, false
	}
	return a.blocks.GetBlock(blockNum)
}

func (p *Plugin) newSession(conn net.Conn) *session.Session {
	if p.stopping.Load() {
		conn.Close()
		return nil
	}

	deps := session.Deps{
		BlockStateLog: p.blockStateLog,
		TraceLog:      p.traceLog,
		ChainStateLog: p.chainStateLog,
		Chain:         chainStatusAdapter{p.chain},
		Blocks:        blockStoreAdapter{p.blocks},
		Registry:      p.registry,
		Metrics:       p.metrics.Sessions,
	}
	s := session.New(p.registry.NextID(), conn, p.log.With(zap.String("component", "session")), deps)
	if !p.registry.Add(s) {
		conn.Close()
		return nil
	}
	return s
}
