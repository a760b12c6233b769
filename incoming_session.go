// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"context"

	"github.com/quic-go/quic-go"

	"github.com/kirill-scherba/wtransport/internal/driver"
)

// newDriver is a package-level seam over driver.New so tests can replace
// the real control-stream bring-up with a MockDriver, the same
// package-variable-as-test-seam idiom the pack's quic-go-based HTTP/3
// clients use for swapping out dial/listen functions.
var newDriver = driver.New

// incomingSessionResult is the outcome delivered over IncomingSession's
// channel.
type incomingSessionResult struct {
	request *SessionRequest
	err     *ConnectionError
}

// IncomingSession represents the pending handshake of one inbound QUIC
// connection, from the moment the QUIC handshake completed up to the
// application receiving a SessionRequest to accept or reject.
//
// Unlike the Rust original's lazily-polled future, the handshake here
// starts immediately in a background goroutine when the IncomingSession is
// constructed (the "work does not begin until first poll" alternative the
// specification's design notes call out is not taken; this is the more
// idiomatic Go shape). Call Wait to block for the result.
type IncomingSession struct {
	resultCh chan incomingSessionResult
}

func newIncomingSession(conn quic.Connection) *IncomingSession {
	s := &IncomingSession{resultCh: make(chan incomingSessionResult, 1)}
	go s.run(conn)
	return s
}

func (s *IncomingSession) run(conn quic.Connection) {
	drv := newDriver(conn, driver.RoleServer)

	ctx := context.Background()

	if _, err := drv.AcceptSettings(ctx); err != nil {
		s.resultCh <- incomingSessionResult{err: connectionErrorWithDriverError(err, conn)}
		return
	}

	// TODO(kirill): validate settings instead of discarding them.

	streamSession, err := drv.AcceptSession(ctx)
	if err != nil {
		s.resultCh <- incomingSessionResult{err: connectionErrorWithDriverError(err, conn)}
		return
	}

	s.resultCh <- incomingSessionResult{
		request: newSessionRequest(conn, drv, streamSession),
	}
}

// Wait blocks until the handshake resolves into a SessionRequest, or fails
// with a ConnectionError. Passing a canceled ctx only stops waiting for the
// result locally -- it does not tear down the inner QUIC connection or
// driver, which continue running independently.
func (s *IncomingSession) Wait(ctx context.Context) (*SessionRequest, error) {
	select {
	case res := <-s.resultCh:
		if res.err != nil {
			return nil, res.err
		}
		return res.request, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
