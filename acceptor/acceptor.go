// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package acceptor implements the Acceptor (C6): it binds the configured
// TCP endpoint, tunes every accepted socket, and hands each connection to a
// new session. The accept-retry-on-error loop is grounded on avalanchego's
// network.Dispatch.
package acceptor

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"chain-node/state-history/logging"
	"chain-node/state-history/session"
)

// sendRecvBufferSize is the 1 MiB send/receive buffer size §4.5 requires on
// every accepted socket.
const sendRecvBufferSize = 1 << 20

// tooManyOpenFilesRetryDelay bounds how long the accept loop backs off
// after hitting the process's file descriptor limit, before trying again.
const tooManyOpenFilesRetryDelay = 50 * time.Millisecond

// Metrics receives accept outcomes. metrics.AcceptMetrics satisfies this
// without acceptor importing the metrics package.
type Metrics interface {
	IncAccepted()
	IncTooManyOpenFiles()
	IncRejected()
}

type noopMetrics struct{}

func (noopMetrics) IncAccepted()         {}
func (noopMetrics) IncTooManyOpenFiles() {}
func (noopMetrics) IncRejected()         {}

// Acceptor owns the listening socket and the accept loop.
type Acceptor struct {
	log        logging.Logger
	listener   *net.TCPListener
	newSession func(conn net.Conn) *session.Session
	metrics    Metrics

	closed chan struct{}
}

// Listen binds addr ("host:port"), setting SO_REUSEADDR on the listening
// socket before bind via a net.ListenConfig control hook, and returns an
// Acceptor ready to Run.
func Listen(log logging.Logger, addr string, newSession func(conn net.Conn) *session.Session) (*Acceptor, error) {
	cfg := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}

	ln, err := cfg.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, err
	}
	listener, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return nil, errors.New("acceptor: listener is not a TCP listener")
	}

	return &Acceptor{
		log:        log,
		listener:   listener,
		newSession: newSession,
		metrics:    noopMetrics{},
		closed:     make(chan struct{}),
	}, nil
}

// WithMetrics attaches m, which is notified of every accept outcome from
// then on.
func (a *Acceptor) WithMetrics(m Metrics) *Acceptor {
	a.metrics = m
	return a
}

// Run accepts connections until the listener is closed. Each accepted
// connection is tuned (TCP_NODELAY, 1 MiB buffers) and handed to a new
// session, which is started on its own goroutine pair.
func (a *Acceptor) Run() error {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			select {
			case <-a.closed:
				return nil
			default:
			}

			if isTooManyOpenFiles(err) {
				a.log.Warn("accept failed: too many open files, retrying", zap.Error(err))
				a.metrics.IncTooManyOpenFiles()
				time.Sleep(tooManyOpenFilesRetryDelay)
				continue
			}

			a.metrics.IncRejected()
			a.log.Error("accept loop terminating", zap.Error(err))
			return err
		}

		a.metrics.IncAccepted()

		tcpConn, ok := conn.(*net.TCPConn)
		if ok {
			if err := tuneConn(tcpConn); err != nil {
				a.log.Debug("failed to tune accepted socket", zap.Error(err))
			}
		}

		if s := a.newSession(conn); s != nil {
			s.Start()
		}
	}
}

// Addr returns the address the listener is bound to, useful for logging the
// actually-bound port when the configured endpoint used port 0.
func (a *Acceptor) Addr() net.Addr {
	return a.listener.Addr()
}

// Close stops the accept loop and releases the listening socket.
func (a *Acceptor) Close() error {
	close(a.closed)
	return a.listener.Close()
}

func tuneConn(conn *net.TCPConn) error {
	if err := conn.SetNoDelay(true); err != nil {
		return err
	}
	if err := conn.SetReadBuffer(sendRecvBufferSize); err != nil {
		return err
	}
	return conn.SetWriteBuffer(sendRecvBufferSize)
}

func isTooManyOpenFiles(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return strings.Contains(opErr.Err.Error(), "too many open files")
	}
	return strings.Contains(err.Error(), "too many open files")
}
