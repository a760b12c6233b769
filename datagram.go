// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Datagram module of the wtransport package. Adapted from the teacher's
// datagram.go onto Connection: the quarter-stream-id framing does not
// depend on the endpoint/session rework, only the receiver type changes.

package wtransport

import (
	"bytes"
	"context"
	"fmt"

	"github.com/quic-go/quic-go/quicvarint"
)

var ErrStreamClosed = fmt.Errorf("wtransport: context done while waiting for datagram")

// datagramMessage is a helper struct for ReceiveDatagram.
type datagramMessage struct {
	msg []byte
	err error
}

// SendDatagram sends a datagram over this WebTransport session.
//
// Note that datagrams are unreliable - depending on network conditions,
// datagrams sent by the server may never be received by the client.
//
// A datagram is a sequence of bytes that is sent in a single UDP packet.
// WebTransport datagrams are associated with a particular HTTP/3 request,
// and are sent on the same connection as that request. The WebTransport
// datagram is sent with the "quarter stream ID" of the associated request
// stream, as per:
// https://datatracker.ietf.org/doc/html/draft-ietf-masque-h3-datagram
func (c *Connection) SendDatagram(msg []byte) error {
	buf := &bytes.Buffer{}

	// "Quarter Stream ID" of the associated request stream, as per:
	// https://datatracker.ietf.org/doc/html/draft-ietf-masque-h3-datagram
	buf.Write(quicvarint.Append(nil, c.sessionID/4))

	// Add the datagram to the end of the buffer
	buf.Write(msg)

	// Send the buffer
	return c.quicConn.SendDatagram(buf.Bytes())
}

// ReceiveDatagram returns a datagram received from this WebTransport
// session, blocking if necessary until one is available or ctx is done.
//
// Note that datagrams are unreliable - depending on network conditions,
// datagrams sent by the peer may never be received.
//
// WebTransport datagrams are associated with a particular HTTP/3 request,
// and are sent on the same connection as that request. The WebTransport
// datagram is sent with the "quarter stream ID" of the associated request
// stream, as per:
// https://datatracker.ietf.org/doc/html/draft-ietf-masque-h3-datagram
func (c *Connection) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	resultCh := make(chan datagramMessage, 1)

	go func() {
		msg, err := c.quicConn.ReceiveDatagram(ctx)
		resultCh <- datagramMessage{msg: msg, err: err}
	}()

	select {
	case result := <-resultCh:
		if result.err != nil {
			return nil, result.err
		}

		// The datagram is a sequence of bytes that is sent in a single UDP
		// packet. Read the "quarter stream ID" of the associated request
		// stream from the beginning of the datagram, and return the rest.
		datastream := bytes.NewReader(result.msg)
		quarterStreamID, err := quicvarint.Read(datastream)
		if err != nil {
			return nil, err
		}

		return result.msg[quicvarint.Len(quarterStreamID):], nil

	case <-ctx.Done():
		return nil, ErrStreamClosed
	}
}
