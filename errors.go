// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"errors"
	"fmt"

	"github.com/quic-go/quic-go"

	"github.com/kirill-scherba/wtransport/internal/driver"
	"github.com/kirill-scherba/wtransport/internal/wtproto"
)

// InvalidURLError is returned by ClientEndpoint.Connect when the supplied
// URL does not parse, or does not use the "https" scheme. No network I/O is
// performed before this error is returned.
type InvalidURLError struct {
	Detail string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("wtransport: invalid url: %s", e.Detail)
}

// DNSLookupError wraps a resolver failure encountered while resolving a
// connect target's host.
type DNSLookupError struct {
	Err error
}

func (e *DNSLookupError) Error() string {
	return fmt.Sprintf("wtransport: dns lookup: %v", e.Err)
}

func (e *DNSLookupError) Unwrap() error { return e.Err }

// ErrDNSNotFound is returned when host resolution succeeds but yields no
// addresses.
var ErrDNSNotFound = errors.New("wtransport: dns lookup returned no addresses")

// ErrSessionRejected is returned when the peer explicitly refuses a
// WebTransport session: either by sending STOP_SENDING on the CONNECT
// stream, or by responding with a non-2xx status.
var ErrSessionRejected = errors.New("wtransport: session rejected by peer")

// ConnectionError wraps whatever underlying failure (QUIC, driver, or local
// HTTP/3 protocol fault) caused a handshake step to fail. It is returned
// from both the client connect and server accept choreographies.
type ConnectionError struct {
	// Quic is the underlying QUIC connection error, when the failure
	// originated at that layer (including a connection observed as already
	// closed).
	Quic error
	// Driver is the underlying driver error, when the failure originated
	// in settings exchange or session stream bring-up.
	Driver error
	// H3Code is set when this endpoint closed the QUIC connection locally
	// because of an HTTP/3 protocol fault; it is the code sent on close.
	H3Code *wtproto.ErrorCode
}

func (e *ConnectionError) Error() string {
	switch {
	case e.H3Code != nil:
		return fmt.Sprintf("wtransport: local h3 error: %s", *e.H3Code)
	case e.Driver != nil:
		return fmt.Sprintf("wtransport: driver error: %v", e.Driver)
	case e.Quic != nil:
		return fmt.Sprintf("wtransport: connection error: %v", e.Quic)
	default:
		return "wtransport: connection error"
	}
}

func (e *ConnectionError) Unwrap() error {
	if e.Driver != nil {
		return e.Driver
	}
	return e.Quic
}

func connectionErrorFromQUIC(err error) *ConnectionError {
	return &ConnectionError{Quic: err}
}

// connectionErrorWithDriverError wraps a driver-layer failure, translating a
// bare *driver.H3Error into a local-h3-error ConnectionError so callers
// don't need to know about the internal driver package's error type.
func connectionErrorWithDriverError(err error, conn quic.Connection) *ConnectionError {
	var h3Err *driver.H3Error
	if errors.As(err, &h3Err) {
		return localH3Error(h3Err.Code)
	}
	return &ConnectionError{Driver: err, Quic: connContextErr(conn)}
}

// localH3Error builds the ConnectionError surfaced after this endpoint has
// closed the QUIC connection locally with code.
func localH3Error(code wtproto.ErrorCode) *ConnectionError {
	c := code
	return &ConnectionError{H3Code: &c}
}

// noConnectionError derives a ConnectionError from a QUIC connection's last
// observed close state, for the "NotConnected" write failure mode.
func noConnectionError(conn quic.Connection) *ConnectionError {
	return &ConnectionError{Quic: connContextErr(conn)}
}

func connContextErr(conn quic.Connection) error {
	if conn == nil {
		return nil
	}
	select {
	case <-conn.Context().Done():
		return conn.Context().Err()
	default:
		return nil
	}
}

// closeWithErrorCode closes the QUIC connection locally with the given
// HTTP/3 error code and an empty reason, per specification §6.
func closeWithErrorCode(conn quic.Connection, code wtproto.ErrorCode) {
	_ = conn.CloseWithError(code.ToCode(), "")
}
