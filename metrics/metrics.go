// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics registers the subsystem's prometheus metrics: per-table
// delta counters (C2), per-request-type counters and a session gauge (C5),
// and accept/reject counters (C6). The registration style — one struct per
// component, aggregated registration errors via wrappers.Errs — is
// grounded on avalanchego's network/metrics.go.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"chain-node/state-history/deltas"
	"chain-node/state-history/utils/wrappers"
)

const namespace = "state_history"

// Metrics aggregates every prometheus collector this subsystem registers.
type Metrics struct {
	Deltas   *DeltaMetrics
	Sessions *SessionMetrics
	Accept   *AcceptMetrics
}

// New builds and registers every collector against registerer, returning
// the first registration error encountered (if any), alongside whatever
// was successfully registered.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	errs := wrappers.Errs{}

	deltaMetrics, err := newDeltaMetrics(registerer)
	errs.Add(err)

	sessionMetrics, err := newSessionMetrics(registerer)
	errs.Add(err)

	acceptMetrics, err := newAcceptMetrics(registerer)
	errs.Add(err)

	return &Metrics{
		Deltas:   deltaMetrics,
		Sessions: sessionMetrics,
		Accept:   acceptMetrics,
	}, errs.Err
}

// DeltaMetrics counts the deltas DeltaExtractor produces, broken down by
// table (C2).
type DeltaMetrics struct {
	rowsByTable map[deltas.Table]prometheus.Counter
}

func newDeltaMetrics(registerer prometheus.Registerer) (*DeltaMetrics, error) {
	m := &DeltaMetrics{rowsByTable: make(map[deltas.Table]prometheus.Counter, len(deltas.Tables))}
	errs := wrappers.Errs{}

	for _, table := range deltas.Tables {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "deltas",
			Name:      fmt.Sprintf("%s_rows_total", table),
			Help:      fmt.Sprintf("Number of %s rows emitted in a delta", table),
		})
		if err := registerer.Register(c); err != nil {
			errs.Add(fmt.Errorf("registering delta counter for table %s: %w", table, err))
			continue
		}
		m.rowsByTable[table] = c
	}
	return m, errs.Err
}

// ObserveDelta records that a table's delta carried n rows.
func (m *DeltaMetrics) ObserveDelta(table deltas.Table, rows int) {
	if c, ok := m.rowsByTable[table]; ok {
		c.Add(float64(rows))
	}
}

// SessionMetrics counts request traffic and tracks how many sessions are
// currently open (C5).
type SessionMetrics struct {
	ActiveSessions    prometheus.Gauge
	GetStatusRequests prometheus.Counter
	GetBlockRequests  prometheus.Counter
	RequestErrors     prometheus.Counter
}

func newSessionMetrics(registerer prometheus.Registerer) (*SessionMetrics, error) {
	m := &SessionMetrics{
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of currently open state-history sessions",
		}),
		GetStatusRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "get_status_requests_total",
			Help:      "Number of get_status requests handled",
		}),
		GetBlockRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "get_block_requests_total",
			Help:      "Number of get_block requests handled",
		}),
		RequestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "request_errors_total",
			Help:      "Number of requests that closed their session with an error",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(registerer.Register(m.ActiveSessions))
	errs.Add(registerer.Register(m.GetStatusRequests))
	errs.Add(registerer.Register(m.GetBlockRequests))
	errs.Add(registerer.Register(m.RequestErrors))
	return m, errs.Err
}

// IncGetStatus records one handled get_status request.
func (m *SessionMetrics) IncGetStatus() { m.GetStatusRequests.Inc() }

// IncGetBlock records one handled get_block request.
func (m *SessionMetrics) IncGetBlock() { m.GetBlockRequests.Inc() }

// IncRequestError records one request that closed its session with an
// error.
func (m *SessionMetrics) IncRequestError() { m.RequestErrors.Inc() }

// SessionOpened records a new session joining the registry.
func (m *SessionMetrics) SessionOpened() { m.ActiveSessions.Inc() }

// SessionClosed records a session leaving the registry.
func (m *SessionMetrics) SessionClosed() { m.ActiveSessions.Dec() }

// AcceptMetrics counts accept outcomes (C6).
type AcceptMetrics struct {
	Accepted         prometheus.Counter
	TooManyOpenFiles prometheus.Counter
	Rejected         prometheus.Counter
}

func newAcceptMetrics(registerer prometheus.Registerer) (*AcceptMetrics, error) {
	m := &AcceptMetrics{
		Accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acceptor",
			Name:      "accepted_total",
			Help:      "Number of connections accepted",
		}),
		TooManyOpenFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acceptor",
			Name:      "too_many_open_files_total",
			Help:      "Number of accepts that failed due to the file descriptor limit",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "acceptor",
			Name:      "rejected_total",
			Help:      "Number of accepts that failed for a reason other than the file descriptor limit",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(registerer.Register(m.Accepted))
	errs.Add(registerer.Register(m.TooManyOpenFiles))
	errs.Add(registerer.Register(m.Rejected))
	return m, errs.Err
}

// IncAccepted records one successfully accepted connection.
func (m *AcceptMetrics) IncAccepted() { m.Accepted.Inc() }

// IncTooManyOpenFiles records one accept retry due to the descriptor limit.
func (m *AcceptMetrics) IncTooManyOpenFiles() { m.TooManyOpenFiles.Inc() }

// IncRejected records one accept failure for any other reason.
func (m *AcceptMetrics) IncRejected() { m.Rejected.Inc() }
