// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Connection module of the wtransport package. Adapted from the teacher's
// session.go: a Connection is what session.go's Session became once it
// stopped being the Body of an http.Request and started being the product
// of the Endpoint/SessionRequest choreography.

package wtransport

import (
	"context"

	"github.com/quic-go/quic-go"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/driver"
)

// Connection is a live, established WebTransport session: a QUIC
// connection plus the session id identifying it to the peer. It is the
// product of ClientEndpoint.Connect or SessionRequest.Accept.
type Connection struct {
	quicConn  quic.Connection
	driver    driver.Driver
	sessionID uint64
}

func newConnection(conn quic.Connection, drv driver.Driver, sessionID uint64) *Connection {
	return &Connection{quicConn: conn, driver: drv, sessionID: sessionID}
}

// SessionID returns the WebTransport session id: the QUIC stream id of the
// CONNECT stream that established this session.
func (c *Connection) SessionID() uint64 {
	return c.sessionID
}

// Context returns the underlying QUIC connection's context, canceled when
// the connection closes.
func (c *Connection) Context() context.Context {
	return c.quicConn.Context()
}

// AcceptStream accepts an incoming (client- or server-initiated,
// whichever this Connection is not) bidirectional stream, blocking until
// one is available or ctx is done.
func (c *Connection) AcceptStream(ctx context.Context) (Stream, error) {
	return c.quicConn.AcceptStream(ctx)
}

// AcceptUniStream accepts an incoming unidirectional stream, blocking
// until one is available or ctx is done.
func (c *Connection) AcceptUniStream(ctx context.Context) (ReceiveStream, error) {
	stream, err := c.quicConn.AcceptUniStream(ctx)
	return ReceiveStream{
		ReceiveStream:        stream,
		readHeaderBeforeData: true,
	}, err
}

// OpenStream creates an outgoing bidirectional stream. It returns
// immediately.
func (c *Connection) OpenStream() (Stream, error) {
	return c.openStream(context.Background(), false)
}

// OpenStreamSync creates an outgoing bidirectional stream, blocking until a
// slot is available if the connection's maximum stream count has been
// reached.
func (c *Connection) OpenStreamSync(ctx context.Context) (Stream, error) {
	return c.openStream(ctx, true)
}

// OpenUniStream creates an outgoing unidirectional stream. It returns
// immediately.
func (c *Connection) OpenUniStream() (SendStream, error) {
	return c.openUniStream(context.Background(), false)
}

// OpenUniStreamSync creates an outgoing unidirectional stream, blocking
// until a slot is available if the connection's maximum stream count has
// been reached.
func (c *Connection) OpenUniStreamSync(ctx context.Context) (SendStream, error) {
	return c.openUniStream(ctx, true)
}

// Close cleanly closes the WebTransport session.
func (c *Connection) Close() error {
	return c.quicConn.CloseWithError(0, "")
}

// CloseWithError closes the WebTransport session with a supplied error code
// and reason string.
func (c *Connection) CloseWithError(code quic.ApplicationErrorCode, reason string) error {
	return c.quicConn.CloseWithError(code, reason)
}

func (c *Connection) openStream(ctx context.Context, sync bool) (Stream, error) {
	var stream quic.Stream
	var err error

	if sync {
		stream, err = c.quicConn.OpenStreamSync(ctx)
	} else {
		stream, err = c.quicConn.OpenStream()
	}
	if err != nil {
		return nil, err
	}

	header := h3.Frame{Type: h3.FRAME_WEBTRANSPORT_STREAM, SessionID: c.sessionID}
	if _, err := header.Write(stream); err != nil {
		stream.Close()
		return nil, err
	}

	return stream, nil
}

func (c *Connection) openUniStream(ctx context.Context, sync bool) (SendStream, error) {
	var stream quic.SendStream
	var err error

	if sync {
		stream, err = c.quicConn.OpenUniStreamSync(ctx)
	} else {
		stream, err = c.quicConn.OpenUniStream()
	}

	return SendStream{
		SendStream:            stream,
		writeHeaderBeforeData: true,
		requestSessionID:      c.sessionID,
	}, err
}
