// Package driver implements the HTTP/3 control-stream bring-up and the
// session-stream bookkeeping that sits between a raw QUIC connection and a
// WebTransport session request. It is the concrete realization of the
// "Driver contract" described in the language-independent specification
// (§4.6): settings exchange, open/accept a session stream, and session
// registration.
//
// Most of the control-stream choreography here is adapted from
// webtransport.go's handleSession in the teacher package; this port
// generalizes it to run on both the client and server side and to expose
// it as a long-lived collaborator instead of inline server code.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/quic-go/qpack"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/quicvarint"
	"golang.org/x/sync/errgroup"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/wtproto"
)

// Role selects which side of the handshake a Driver drives. The control
// stream bring-up is symmetric; only the session stream direction
// (open vs. accept) differs by role.
type Role int

const (
	// RoleClient drives the client side: it opens the CONNECT stream.
	RoleClient Role = iota
	// RoleServer drives the server side: it accepts the CONNECT stream.
	RoleServer
)

// ErrDriverClosed is returned by RegisterSession once the peer's control
// stream has failed (a critical stream was closed).
var ErrDriverClosed = errors.New("driver: connection closed")

// Driver is the abstract collaborator consumed by the endpoint and session
// choreography. See the specification's §4.6 Driver contract table.
type Driver interface {
	// AcceptSettings awaits the peer's SETTINGS frame on the control stream.
	AcceptSettings(ctx context.Context) (h3.SettingsMap, error)

	// OpenSession opens a new CONNECT stream for the given session request.
	// Client-side only.
	OpenSession(ctx context.Context, req *wtproto.SessionRequest) (StreamSession, error)

	// AcceptSession awaits the first inbound CONNECT stream. Server-side
	// only.
	AcceptSession(ctx context.Context) (StreamSession, error)

	// RegisterSession promotes a validated CONNECT stream into an active
	// session.
	RegisterSession(ctx context.Context, session StreamSession) error
}

// StreamSession is the framed bidirectional QUIC stream carrying a
// WebTransport session's extended-CONNECT request and response.
type StreamSession interface {
	// ID returns the QUIC stream id of the session stream.
	ID() uint64

	// SessionID returns the WebTransport session id (equal to ID, per the
	// glossary's definition of "session id").
	SessionID() uint64

	// Request returns the decoded (or, client-side, to-be-sent) session
	// request.
	Request() *wtproto.SessionRequest

	// ReadFrame reads the next frame from the stream.
	ReadFrame(ctx context.Context) (h3.Frame, error)

	// WriteFrame writes a frame to the stream.
	WriteFrame(ctx context.Context, frame h3.Frame) error

	// Finish half-closes the stream's send side.
	Finish() error
}

// H3Error is returned from ReadFrame and AcceptSession when the failure is
// an HTTP/3-layer protocol fault rather than a bare I/O error.
type H3Error struct {
	Code wtproto.ErrorCode
}

func (e *H3Error) Error() string {
	return fmt.Sprintf("driver: h3 error: %s", e.Code)
}

// ErrStopped is returned by WriteFrame when the peer sent STOP_SENDING on
// the stream -- an explicit refusal.
var ErrStopped = errors.New("driver: stream stopped by peer")

// ErrNotConnected is returned by WriteFrame when the underlying QUIC
// connection is no longer usable.
var ErrNotConnected = errors.New("driver: not connected")

type connDriver struct {
	conn quic.Connection
	role Role

	ownControl  quic.SendStream
	peerControl quic.ReceiveStream

	settingsOnce sync.Once
	settingsCh   chan settingsResult

	criticalErr atomic.Pointer[wtproto.ErrorCode]

	mu       sync.Mutex
	sessions map[uint64]struct{}
}

type settingsResult struct {
	settings h3.SettingsMap
	err      error
}

// New starts the control-stream bring-up for conn and returns a Driver
// driving the given role. The background work (opening/accepting the
// control stream, exchanging SETTINGS) starts immediately.
func New(conn quic.Connection, role Role) Driver {
	d := &connDriver{
		conn:       conn,
		role:       role,
		settingsCh: make(chan settingsResult, 1),
		sessions:   make(map[uint64]struct{}),
	}
	go d.bringUp()
	return d
}

func localSettings() h3.SettingsMap {
	return h3.SettingsMap{
		h3.H3_DATAGRAM_05:      1,
		h3.ENABLE_WEBTRANSPORT: 1,
	}
}

func (d *connDriver) bringUp() {
	var eg errgroup.Group

	eg.Go(func() error {
		stream, err := d.conn.OpenUniStream()
		if err != nil {
			return err
		}
		d.ownControl = stream

		header := h3.StreamHeader{Type: h3.STREAM_CONTROL}
		if _, err := header.Write(stream); err != nil {
			return err
		}

		frame := localSettings().ToFrame()
		_, err = frame.Write(stream)
		return err
	})

	var clientSettings h3.SettingsMap

	eg.Go(func() error {
		stream, err := d.conn.AcceptUniStream(context.Background())
		if err != nil {
			return err
		}
		d.peerControl = stream

		streamHeader := quicvarint.NewReader(stream)
		streamType, err := quicvarint.Read(streamHeader)
		if err != nil {
			return err
		}
		if streamType != h3.STREAM_CONTROL {
			return fmt.Errorf("driver: expected control stream, got type %#x", streamType)
		}

		var frame h3.Frame
		if err := frame.Read(stream); err != nil {
			return err
		}
		if frame.Type != h3.FRAME_SETTINGS {
			return fmt.Errorf("driver: expected SETTINGS frame, got type %#x", frame.Type)
		}

		clientSettings = h3.SettingsMap{}
		return clientSettings.FromFrame(frame)
	})

	err := eg.Wait()
	d.settingsCh <- settingsResult{settings: clientSettings, err: err}

	if err == nil {
		go d.monitorControlStream()
	}
}

// monitorControlStream keeps reading the peer's control stream after the
// initial SETTINGS frame. Further SETTINGS updates are accepted but
// discarded -- validating them is a future extension point (see the
// specification's design notes). A read failure here means the peer closed
// a critical stream: from then on a ReadFrame that fails on any session
// stream reports it as an H3Error, and RegisterSession returns
// ErrDriverClosed. WriteFrame does not check it.
func (d *connDriver) monitorControlStream() {
	for {
		var frame h3.Frame
		if err := frame.Read(d.peerControl); err != nil {
			code := wtproto.ErrorCodeClosedCriticalStream
			d.criticalErr.Store(&code)
			return
		}
		// TODO(kirill): validate settings updates instead of discarding them.
	}
}

func (d *connDriver) AcceptSettings(ctx context.Context) (h3.SettingsMap, error) {
	select {
	case res := <-d.settingsCh:
		// Allow a later AcceptSettings call (there should only ever be one)
		// to observe the same result instead of blocking forever.
		d.settingsCh <- res
		return res.settings, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *connDriver) OpenSession(ctx context.Context, req *wtproto.SessionRequest) (StreamSession, error) {
	stream, err := d.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}

	id := uint64(stream.StreamID())
	return &connStreamSession{
		driver:  d,
		stream:  stream,
		id:      id,
		request: req,
	}, nil
}

func (d *connDriver) AcceptSession(ctx context.Context) (StreamSession, error) {
	stream, err := d.conn.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}

	id := uint64(stream.StreamID())
	session := &connStreamSession{
		driver: d,
		stream: stream,
		id:     id,
	}

	frame, err := session.ReadFrame(ctx)
	if err != nil {
		return nil, err
	}
	if frame.Type != h3.FRAME_HEADERS {
		return nil, &H3Error{Code: wtproto.ErrorCodeFrameUnexpected}
	}

	decoder := qpack.NewDecoder(nil)
	fields, err := decoder.DecodeFull(frame.Data)
	if err != nil {
		return nil, &H3Error{Code: wtproto.ErrorCodeMessage}
	}

	req, err := wtproto.ParseSessionRequest(fields)
	if err != nil {
		return nil, &H3Error{Code: wtproto.ErrorCodeMessage}
	}
	session.request = req

	return session, nil
}

func (d *connDriver) RegisterSession(_ context.Context, session StreamSession) error {
	if d.criticalErr.Load() != nil {
		return ErrDriverClosed
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[session.SessionID()] = struct{}{}
	return nil
}
