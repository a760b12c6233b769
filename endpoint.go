// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wtransport implements the endpoint and session-establishment
// core of a WebTransport-over-HTTP/3 library: binding a UDP socket,
// driving QUIC connections via github.com/quic-go/quic-go, and choreographing
// the extended-CONNECT handshake that turns a QUIC connection into a
// WebTransport session.
package wtransport

import (
	"net"
	"sync"

	"github.com/quic-go/quic-go"
)

// endpoint is the shared state behind both ServerEndpoint and
// ClientEndpoint: a bound UDP socket and the QUIC transport layered over
// it. The Client/Server distinction from the specification's phantom
// Side parameter is realized as two distinct exported types instead (see
// SPEC_FULL.md §3), each embedding this common core.
type endpoint struct {
	udpConn   *net.UDPConn
	transport *quic.Transport

	wg sync.WaitGroup
}

func newEndpoint(bindAddress *net.UDPAddr, dualStack DualStackConfig) (*endpoint, error) {
	udpConn, err := bindSocket(bindAddress, dualStack)
	if err != nil {
		return nil, err
	}

	return &endpoint{
		udpConn:   udpConn,
		transport: &quic.Transport{Conn: udpConn},
	}, nil
}

// WaitIdle blocks until every connection handed out by this endpoint has
// been observed closed.
func (e *endpoint) WaitIdle() {
	e.wg.Wait()
}

// trackConnection registers conn so WaitIdle observes its closure.
func (e *endpoint) trackConnection(conn quic.Connection) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		<-conn.Context().Done()
	}()
}

// Close tears down the transport and the underlying UDP socket.
func (e *endpoint) Close() error {
	_ = e.transport.Close()
	return e.udpConn.Close()
}
