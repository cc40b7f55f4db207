// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package session implements SessionProtocol (C5): one goroutine pair per
// accepted connection, a request/response state machine, and an ordered
// per-session send queue. The read/write goroutine split and the sender
// channel are grounded on avalanchego's network/peer.go; the protocol
// itself (ABI handshake, state_request/state_result frames) is new.
package session

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chain-node/state-history/chainid"
	"chain-node/state-history/errkind"
	"chain-node/state-history/history"
	"chain-node/state-history/ingest"
	"chain-node/state-history/logging"
	"chain-node/state-history/wire"
)

// maxFrameSize bounds an inbound frame so a malformed or hostile peer can't
// force an unbounded allocation.
const maxFrameSize = 1 << 24

// state is the session's position in its OPENING/ACTIVE/CLOSING machine
// (§4.4). It only ever moves forward.
type state int32

const (
	stateOpening state = iota
	stateActive
	stateClosing
)

// ChainStatus is the subset of the chain plugin a session needs to answer
// get_status requests.
type ChainStatus interface {
	LastIrreversibleBlock() (num uint32, id chainid.ID)
}

// BlockStore is the external block store collaborator (§1): raw serialized
// blocks by number, looked up for get_block requests.
type BlockStore interface {
	GetBlock(blockNum uint32) (data []byte, ok bool)
}

// Remover takes a session out of whatever registry is tracking it. Session
// calls this exactly once, when it transitions to CLOSING.
type Remover interface {
	Remove(id uuid.UUID)
}

// Metrics receives request and lifecycle counts. metrics.SessionMetrics
// satisfies this without session importing the metrics package.
type Metrics interface {
	IncGetStatus()
	IncGetBlock()
	IncRequestError()
	SessionOpened()
	SessionClosed()
}

type noopMetrics struct{}

func (noopMetrics) IncGetStatus()    {}
func (noopMetrics) IncGetBlock()     {}
func (noopMetrics) IncRequestError() {}
func (noopMetrics) SessionOpened()   {}
func (noopMetrics) SessionClosed()   {}

// Session is one accepted connection's protocol state machine.
type Session struct {
	id  uuid.UUID
	log logging.Logger

	conn net.Conn

	blockStateLog *history.Log
	traceLog      *history.Log
	chainStateLog *history.Log

	chain  ChainStatus
	blocks BlockStore

	registry Remover
	metrics  Metrics

	state int32 // atomic, holds a state value

	sender chan []byte
	once   sync.Once
}

// Deps collects a session's external collaborators. Metrics may be left
// nil, in which case Session records nothing.
type Deps struct {
	BlockStateLog *history.Log
	TraceLog      *history.Log
	ChainStateLog *history.Log
	Chain         ChainStatus
	Blocks        BlockStore
	Registry      Remover
	Metrics       Metrics
}

// New creates a session in the OPENING state. Call Start to run it.
func New(id uuid.UUID, conn net.Conn, log logging.Logger, deps Deps) *Session {
	m := deps.Metrics
	if m == nil {
		m = noopMetrics{}
	}
	m.SessionOpened()

	return &Session{
		id:            id,
		log:           log.With(zap.Stringer("sessionID", id)),
		conn:          conn,
		blockStateLog: deps.BlockStateLog,
		traceLog:      deps.TraceLog,
		chainStateLog: deps.ChainStateLog,
		chain:         deps.Chain,
		blocks:        deps.Blocks,
		registry:      deps.Registry,
		metrics:       m,
		state:         int32(stateOpening),
		sender:        make(chan []byte, 64),
	}
}

// Start pushes the ABI frame and launches the read and write loops. It
// returns immediately; the session runs until a protocol or socket error
// closes it.
func (s *Session) Start() {
	go s.writeLoop()

	go func() {
		abi := []byte(wire.ABIDocument())
		if err := s.writeFrame(abi); err != nil {
			s.log.Debug("failed to send ABI frame", zap.Error(err))
			s.Close()
			return
		}

		atomic.CompareAndSwapInt32(&s.state, int32(stateOpening), int32(stateActive))
		s.readLoop()
	}()
}

func (s *Session) readLoop() {
	defer s.Close()

	for {
		frame, err := readFrame(s.conn)
		if err != nil {
			s.log.Debug("session read failed", zap.Error(err))
			return
		}

		req, err := wire.DecodeRequest(frame)
		if err != nil {
			// The decode error can itself be built from bytes the peer
			// chose (an unknown tag value, a length mismatch); sanitize it
			// before it reaches a log line so a crafted frame can't split
			// one log entry into several.
			s.log.Debug("failed to decode request frame", zap.String("error", logging.Sanitize(err.Error())))
			s.metrics.IncRequestError()
			return
		}

		resp, err := s.handle(req)
		if err != nil {
			s.log.Debug("request handler failed", zap.Error(err))
			s.metrics.IncRequestError()
			return
		}

		if !s.enqueue(resp.MarshalBinary()) {
			return
		}
	}
}

func (s *Session) writeLoop() {
	defer s.Close()

	for frame := range s.sender {
		if err := s.writeFrame(frame); err != nil {
			s.log.Debug("session write failed", zap.Error(err))
			return
		}
	}
}

// enqueue appends a frame to the session's FIFO send queue (S1: at most one
// write outstanding, queue order preserved). false means the session is
// already closing, or the queue is full, and the caller should stop reading.
func (s *Session) enqueue(frame []byte) (ok bool) {
	if atomic.LoadInt32(&s.state) == int32(stateClosing) {
		return false
	}
	// Close can still close the sender channel between the check above and
	// the send below; that send's panic is reported as closing too.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case s.sender <- frame:
		return true
	default:
		s.log.Warn("session send queue full, closing")
		return false
	}
}

func (s *Session) handle(req wire.Request) (wire.Response, error) {
	switch r := req.(type) {
	case wire.GetStatusRequest:
		s.metrics.IncGetStatus()
		return s.handleGetStatus(), nil
	case wire.GetBlockRequest:
		s.metrics.IncGetBlock()
		return s.handleGetBlock(r.BlockNum), nil
	default:
		return nil, fmt.Errorf("%w: unhandled request type %T", errkind.SessionError, req)
	}
}

func (s *Session) handleGetStatus() wire.Response {
	num, id := s.chain.LastIrreversibleBlock()
	return wire.GetStatusResult{
		LastIrreversibleBlockNum: num,
		LastIrreversibleBlockID:  id,
		StateBeginBlock:          s.chainStateLog.BeginBlock(),
		StateEndBlock:            s.chainStateLog.EndBlock(),
	}
}

func (s *Session) handleGetBlock(blockNum uint32) wire.Response {
	result := wire.GetBlockResult{BlockNum: blockNum}

	if data, ok := s.blocks.GetBlock(blockNum); ok {
		result.Block, result.HasBlock = data, true
	}

	if _, r, err := s.blockStateLog.GetEntry(blockNum); err == nil {
		if data, err := io.ReadAll(r); err == nil {
			result.BlockState, result.HasState = data, true
		}
	}
	if _, r, err := s.traceLog.GetEntry(blockNum); err == nil {
		if data, err := ingest.UnframePayload(r); err == nil {
			result.Traces, result.HasTraces = data, true
		}
	}
	if _, r, err := s.chainStateLog.GetEntry(blockNum); err == nil {
		if data, err := ingest.UnframePayload(r); err == nil {
			result.Deltas, result.HasDeltas = data, true
		}
	}

	return result
}

// Close transitions the session to CLOSING, removes it from its registry,
// and closes the underlying socket. Safe to call more than once or from
// either loop.
func (s *Session) Close() {
	s.once.Do(func() {
		atomic.StoreInt32(&s.state, int32(stateClosing))
		close(s.sender)
		_ = s.conn.Close()
		s.metrics.SessionClosed()
		if s.registry != nil {
			s.registry.Remove(s.id)
		}
	})
}

func (s *Session) writeFrame(payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := s.conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("%w: writing frame length: %v", errkind.SessionError, err)
	}
	if _, err := s.conn.Write(payload); err != nil {
		return fmt.Errorf("%w: writing frame body: %v", errkind.SessionError, err)
	}
	return nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: reading frame length: %v", errkind.SessionError, err)
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	if size > maxFrameSize {
		return nil, fmt.Errorf("%w: frame of %d bytes exceeds the %d byte limit", errkind.SessionError, size, maxFrameSize)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading frame body: %v", errkind.SessionError, err)
	}
	return buf, nil
}
