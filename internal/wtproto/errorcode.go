// Package wtproto implements the small slice of the HTTP/3 wire protocol
// that WebTransport session establishment depends on: the extended-CONNECT
// request/response structs and the HTTP/3 error code space used to close a
// QUIC connection on a local protocol fault.
package wtproto

import "github.com/quic-go/quic-go"

// ErrorCode is an HTTP/3 error code, as defined in RFC 9114 section 8.1.
// Only the subset actually raised by the session handshake is named.
type ErrorCode uint64

const (
	// ErrorCodeClosedCriticalStream is sent when a control, QPACK encoder or
	// QPACK decoder stream is closed by the peer.
	ErrorCodeClosedCriticalStream ErrorCode = 0x104

	// ErrorCodeFrameUnexpected is sent when a frame is received in a context
	// where it is not allowed (e.g. a DATA frame where a HEADERS frame was
	// required).
	ErrorCodeFrameUnexpected ErrorCode = 0x105

	// ErrorCodeMessage is sent when the endpoint detected a malformed
	// request or response (e.g. extended-CONNECT headers that do not decode
	// into a valid session request/response).
	ErrorCodeMessage ErrorCode = 0x10e
)

// ToCode converts the error code into the varint-encoded application error
// code that quic-go expects when closing a connection.
func (e ErrorCode) ToCode() quic.ApplicationErrorCode {
	return quic.ApplicationErrorCode(e)
}

func (e ErrorCode) String() string {
	switch e {
	case ErrorCodeClosedCriticalStream:
		return "H3_CLOSED_CRITICAL_STREAM"
	case ErrorCodeFrameUnexpected:
		return "H3_FRAME_UNEXPECTED"
	case ErrorCodeMessage:
		return "H3_MESSAGE_ERROR"
	default:
		return "H3_UNKNOWN_ERROR"
	}
}
