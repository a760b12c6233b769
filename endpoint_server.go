// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"context"
	"errors"

	"github.com/quic-go/quic-go"
)

// ErrEndpointClosed is returned by ServerEndpoint.Accept once the endpoint
// has been closed. The specification treats this case as a contract
// violation by the caller (accepting on a closed endpoint is never expected
// in normal operation); this port surfaces it as a plain error instead of
// panicking, since an orderly shutdown racing with Accept is routine in Go
// server code.
var ErrEndpointClosed = errors.New("wtransport: endpoint closed")

// ServerEndpoint binds a UDP socket and accepts inbound WebTransport
// connection attempts. Construct one with NewServerEndpoint.
type ServerEndpoint struct {
	*endpoint
	listener *quic.Listener
}

// NewServerEndpoint constructs a server endpoint: it binds the configured
// socket and starts a QUIC listener on it.
func NewServerEndpoint(cfg ServerConfig) (*ServerEndpoint, error) {
	ep, err := newEndpoint(cfg.BindAddress, cfg.DualStack)
	if err != nil {
		return nil, err
	}

	tlsConfig, err := cfg.tlsConfig()
	if err != nil {
		ep.Close()
		return nil, err
	}

	quicConfig := cfg.QUICConfig
	if quicConfig == nil {
		quicConfig = &quic.Config{}
	}
	quicConfig.EnableDatagrams = true

	listener, err := ep.transport.Listen(tlsConfig, quicConfig)
	if err != nil {
		ep.Close()
		return nil, err
	}

	return &ServerEndpoint{endpoint: ep, listener: listener}, nil
}

// Accept waits for the next inbound QUIC connection attempt and returns an
// IncomingSession driving its handshake up to the application hand-off.
func (s *ServerEndpoint) Accept(ctx context.Context) (*IncomingSession, error) {
	conn, err := s.listener.Accept(ctx)
	if err != nil {
		if errors.Is(err, quic.ErrServerClosed) {
			return nil, ErrEndpointClosed
		}
		return nil, err
	}

	s.trackConnection(conn)
	return newIncomingSession(conn), nil
}

// Close stops accepting new connections and tears down the socket.
func (s *ServerEndpoint) Close() error {
	_ = s.listener.Close()
	return s.endpoint.Close()
}
