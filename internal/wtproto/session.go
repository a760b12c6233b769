package wtproto

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/quic-go/qpack"

	"github.com/kirill-scherba/wtransport/h3"
)

// ErrMissingPseudoHeaders is returned when a decoded extended-CONNECT
// request is missing one of its mandatory pseudo-headers.
var ErrMissingPseudoHeaders = errors.New("wtproto: :method, :protocol, :authority and :path must not be empty")

// ErrNotConnect is returned when a decoded request does not carry
// ":method: CONNECT" or ":protocol: webtransport".
var ErrNotConnect = errors.New("wtproto: not an extended CONNECT webtransport request")

// ErrMissingStatus is returned when a decoded response is missing the
// ":status" pseudo-header.
var ErrMissingStatus = errors.New("wtproto: :status must not be empty")

// SessionRequest carries the decoded (or, client side, to-be-sent)
// extended-CONNECT pseudo-headers and header fields of a WebTransport
// session request.
//
// It corresponds to `SessionRequestProto` in the language-independent
// specification.
type SessionRequest struct {
	authority string
	path      string
	origin    string
	userAgent string
	headers   map[string]string
}

// NewSessionRequest builds the outgoing CONNECT request for a client
// connecting to the given, already-validated, https URL.
func NewSessionRequest(rawURL string) (*SessionRequest, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return &SessionRequest{
		authority: u.Host,
		path:      path,
		headers:   map[string]string{},
	}, nil
}

// ParseSessionRequest decodes a set of QPACK header fields (as read off an
// extended-CONNECT HEADERS frame) into a SessionRequest.
func ParseSessionRequest(fields []qpack.HeaderField) (*SessionRequest, error) {
	var method, protocol, authority, path string
	headers := map[string]string{}

	for _, f := range fields {
		switch f.Name {
		case ":method":
			method = f.Value
		case ":protocol":
			protocol = f.Value
		case ":authority":
			authority = f.Value
		case ":path":
			path = f.Value
		case ":scheme":
			// carried but not surfaced; the session is always https/webtransport.
		default:
			if !f.IsPseudo() {
				headers[strings.ToLower(f.Name)] = f.Value
			}
		}
	}

	if method == "" || protocol == "" || authority == "" || path == "" {
		return nil, ErrMissingPseudoHeaders
	}
	if method != "CONNECT" || protocol != "webtransport" {
		return nil, ErrNotConnect
	}

	return &SessionRequest{
		authority: authority,
		path:      path,
		origin:    headers["origin"],
		userAgent: headers["user-agent"],
		headers:   headers,
	}, nil
}

// Authority returns the `:authority` pseudo-header value.
func (r *SessionRequest) Authority() string { return r.authority }

// Path returns the `:path` pseudo-header value.
func (r *SessionRequest) Path() string { return r.path }

// Origin returns the `origin` header value, if present.
func (r *SessionRequest) Origin() (string, bool) {
	return r.origin, r.origin != ""
}

// UserAgent returns the `user-agent` header value, if present.
func (r *SessionRequest) UserAgent() (string, bool) {
	return r.userAgent, r.userAgent != ""
}

// Headers returns every header field carried by the request (pseudo-headers
// excluded).
func (r *SessionRequest) Headers() map[string]string {
	return r.headers
}

// GenerateFrame encodes the request as an extended-CONNECT HEADERS frame.
func (r *SessionRequest) GenerateFrame() h3.Frame {
	var buf []byte
	enc := qpack.NewEncoder(writerFunc(func(p []byte) (int, error) {
		buf = append(buf, p...)
		return len(p), nil
	}))

	enc.WriteField(qpack.HeaderField{Name: ":method", Value: "CONNECT"})
	enc.WriteField(qpack.HeaderField{Name: ":protocol", Value: "webtransport"})
	enc.WriteField(qpack.HeaderField{Name: ":scheme", Value: "https"})
	enc.WriteField(qpack.HeaderField{Name: ":authority", Value: r.authority})
	enc.WriteField(qpack.HeaderField{Name: ":path", Value: r.path})
	if r.origin != "" {
		enc.WriteField(qpack.HeaderField{Name: "origin", Value: r.origin})
	}

	return h3.Frame{Type: h3.FRAME_HEADERS, Length: uint64(len(buf)), Data: buf}
}

// SessionResponse carries the `:status` and any additional headers of a
// WebTransport session response.
//
// It corresponds to `SessionResponseProto` in the language-independent
// specification.
type SessionResponse struct {
	status  int
	headers map[string]string
}

// NewSessionResponseOK builds a 200 OK response.
func NewSessionResponseOK() *SessionResponse {
	return &SessionResponse{status: 200, headers: map[string]string{}}
}

// NewSessionResponseNotFound builds a 404 Not Found response.
func NewSessionResponseNotFound() *SessionResponse {
	return &SessionResponse{status: 404, headers: map[string]string{}}
}

// ParseSessionResponse decodes a set of QPACK header fields (as read off a
// response HEADERS frame) into a SessionResponse.
func ParseSessionResponse(fields []qpack.HeaderField) (*SessionResponse, error) {
	var statusStr string
	headers := map[string]string{}

	for _, f := range fields {
		switch f.Name {
		case ":status":
			statusStr = f.Value
		default:
			if !f.IsPseudo() {
				headers[strings.ToLower(f.Name)] = f.Value
			}
		}
	}

	if statusStr == "" {
		return nil, ErrMissingStatus
	}
	status, err := strconv.Atoi(statusStr)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{status: status, headers: headers}, nil
}

// Add adds an additional header field to the response.
func (r *SessionResponse) Add(name, value string) {
	r.headers[strings.ToLower(name)] = value
}

// Status returns the `:status` pseudo-header value.
func (r *SessionResponse) Status() int { return r.status }

// IsSuccessful reports whether the status code is in the 2xx range.
func (r *SessionResponse) IsSuccessful() bool {
	return r.status >= 200 && r.status < 300
}

// GenerateFrame encodes the response as a HEADERS frame.
func (r *SessionResponse) GenerateFrame() h3.Frame {
	var buf []byte
	enc := qpack.NewEncoder(writerFunc(func(p []byte) (int, error) {
		buf = append(buf, p...)
		return len(p), nil
	}))

	enc.WriteField(qpack.HeaderField{Name: ":status", Value: strconv.Itoa(r.status)})
	for name, value := range r.headers {
		enc.WriteField(qpack.HeaderField{Name: name, Value: value})
	}

	return h3.Frame{Type: h3.FRAME_HEADERS, Length: uint64(len(buf)), Data: buf}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
