// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"

	"github.com/quic-go/qpack"
	"github.com/quic-go/quic-go"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/driver"
	"github.com/kirill-scherba/wtransport/internal/wtproto"
)

// dialQUIC is a package-level seam over (*quic.Transport).Dial, the same
// test-seam idiom as lookupIPAddr and newDriver, so tests can substitute a
// fake connection for the post-dial handshake steps without a real network.
var dialQUIC = func(ctx context.Context, t *quic.Transport, addr *net.UDPAddr, tlsConfig *tls.Config, quicConfig *quic.Config) (quic.Connection, error) {
	return t.Dial(ctx, addr, tlsConfig, quicConfig)
}

// ClientEndpoint binds a UDP socket and dials outbound WebTransport
// sessions. Construct one with NewClientEndpoint.
type ClientEndpoint struct {
	*endpoint
	cfg ClientConfig
}

// NewClientEndpoint constructs a client endpoint: it binds the configured
// socket (or an OS-chosen ephemeral one, if BindAddress is nil).
func NewClientEndpoint(cfg ClientConfig) (*ClientEndpoint, error) {
	ep, err := newEndpoint(cfg.BindAddress, cfg.DualStack)
	if err != nil {
		return nil, err
	}

	return &ClientEndpoint{endpoint: ep, cfg: cfg}, nil
}

// Connect establishes a WebTransport session with the server at rawURL,
// blocking until the handshake completes, the peer rejects the session, or
// ctx is done.
//
// This follows the same steps as the specification's §4.3 client connect
// choreography, collapsed where quic-go's synchronous Transport.Dial already
// completes what the Rust original source splits into a separate
// `Connecting` await (see SPEC_FULL.md §4):
//
//  1. parse and validate rawURL ("https" scheme, non-empty host)
//  2. resolve the host to a dial address and TLS server name
//  3. dial the QUIC connection
//  4. bring up the driver (control streams, SETTINGS exchange)
//  5. open the session stream and send the extended-CONNECT request
//  6. read and decode the response; a non-2xx status rejects the session
//  7. on success, register the session and return a Connection
func (c *ClientEndpoint) Connect(ctx context.Context, rawURL string) (*Connection, error) {
	u, err := parseWebTransportURL(rawURL)
	if err != nil {
		return nil, err
	}

	target, err := resolveTarget(ctx, u)
	if err != nil {
		return nil, err
	}

	tlsConfig := c.tlsConfigFor(target.serverName)

	quicConfig := c.cfg.QUICConfig
	if quicConfig == nil {
		quicConfig = &quic.Config{}
	}
	quicConfig.EnableDatagrams = true

	conn, err := dialQUIC(ctx, c.transport, target.addr, tlsConfig, quicConfig)
	if err != nil {
		return nil, connectionErrorFromQUIC(err)
	}
	c.trackConnection(conn)

	drv := newDriver(conn, driver.RoleClient)

	if _, err := drv.AcceptSettings(ctx); err != nil {
		return nil, connectionErrorWithDriverError(err, conn)
	}

	req, err := wtproto.NewSessionRequest(rawURL)
	if err != nil {
		return nil, &InvalidURLError{Detail: err.Error()}
	}

	streamSession, err := drv.OpenSession(ctx, req)
	if err != nil {
		return nil, connectionErrorWithDriverError(err, conn)
	}

	if err := streamSession.WriteFrame(ctx, req.GenerateFrame()); err != nil {
		return nil, c.classifySendError(err, conn)
	}

	frame, err := streamSession.ReadFrame(ctx)
	if err != nil {
		var h3Err *driver.H3Error
		if errors.As(err, &h3Err) {
			closeWithErrorCode(conn, h3Err.Code)
			return nil, localH3Error(h3Err.Code)
		}
		return nil, connectionErrorWithDriverError(err, conn)
	}
	if frame.Type != h3.FRAME_HEADERS {
		closeWithErrorCode(conn, wtproto.ErrorCodeFrameUnexpected)
		return nil, localH3Error(wtproto.ErrorCodeFrameUnexpected)
	}

	decoder := qpack.NewDecoder(nil)
	fields, err := decoder.DecodeFull(frame.Data)
	if err != nil {
		closeWithErrorCode(conn, wtproto.ErrorCodeMessage)
		return nil, localH3Error(wtproto.ErrorCodeMessage)
	}

	response, err := wtproto.ParseSessionResponse(fields)
	if err != nil {
		closeWithErrorCode(conn, wtproto.ErrorCodeMessage)
		return nil, localH3Error(wtproto.ErrorCodeMessage)
	}

	if !response.IsSuccessful() {
		return nil, ErrSessionRejected
	}

	sessionID := streamSession.SessionID()
	if err := drv.RegisterSession(ctx, streamSession); err != nil {
		return nil, connectionErrorWithDriverError(err, conn)
	}

	return newConnection(conn, drv, sessionID), nil
}

// tlsConfigFor derives the per-dial TLS configuration: the caller's
// TLSClientConfig (if any) cloned with ServerName set to target, falling
// back to a bare config carrying only this package's supported ALPN
// protocols.
func (c *ClientEndpoint) tlsConfigFor(serverName string) *tls.Config {
	var tlsConfig *tls.Config
	if c.cfg.TLSClientConfig != nil {
		tlsConfig = c.cfg.TLSClientConfig.Clone()
	} else {
		tlsConfig = &tls.Config{}
	}
	if len(tlsConfig.NextProtos) == 0 {
		tlsConfig.NextProtos = []string{"h3", "h3-32", "h3-31", "h3-30", "h3-29"}
	}
	tlsConfig.ServerName = serverName
	return tlsConfig
}

// classifySendError maps a driver write failure while sending the CONNECT
// request: the peer stopping the stream is a session refusal, not a local
// protocol fault, so the connection stays open and the caller sees
// ErrSessionRejected, same as a non-2xx response.
func (c *ClientEndpoint) classifySendError(err error, conn quic.Connection) error {
	switch {
	case errors.Is(err, driver.ErrStopped):
		return ErrSessionRejected
	case errors.Is(err, driver.ErrNotConnected):
		return noConnectionError(conn)
	default:
		return connectionErrorFromQUIC(err)
	}
}

// Close tears down the transport and the underlying UDP socket.
func (c *ClientEndpoint) Close() error {
	return c.endpoint.Close()
}
