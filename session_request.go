// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"context"
	"errors"
	"strings"

	"github.com/quic-go/quic-go"

	"github.com/kirill-scherba/wtransport/internal/driver"
	"github.com/kirill-scherba/wtransport/internal/wtproto"
)

// chromeDraftHeader is added to outgoing responses for any user-agent that
// does not byte-literally contain "firefox". This is required for
// Chrome-style clients implementing an older WebTransport draft and must be
// omitted for Firefox-style clients, which reject the header outright. The
// match is intentionally case-sensitive, matching the upstream behavior
// this was ported from (Firefox's own UA string capitalizes "Firefox",
// so the match is likely looser than intended -- preserved as-is, see
// DESIGN.md's open-question note).
const chromeDraftHeader = "sec-webtransport-http3-draft"

// ErrSessionRequestConsumed is returned by Accept/NotFound when called more
// than once on the same SessionRequest.
var ErrSessionRequestConsumed = errors.New("wtransport: session request already consumed")

// SessionRequest is an incoming client session request. The application
// should call Accept or NotFound to validate or reject it.
type SessionRequest struct {
	quicConn      quic.Connection
	driver        driver.Driver
	streamSession driver.StreamSession
	consumed      bool
}

func newSessionRequest(conn quic.Connection, drv driver.Driver, streamSession driver.StreamSession) *SessionRequest {
	return &SessionRequest{
		quicConn:      conn,
		driver:        drv,
		streamSession: streamSession,
	}
}

// Authority returns the `:authority` field of the request.
func (r *SessionRequest) Authority() string {
	return r.streamSession.Request().Authority()
}

// Path returns the `:path` field of the request.
func (r *SessionRequest) Path() string {
	return r.streamSession.Request().Path()
}

// Origin returns the `origin` field of the request, if present.
func (r *SessionRequest) Origin() (string, bool) {
	return r.streamSession.Request().Origin()
}

// UserAgent returns the `user-agent` field of the request, if present.
func (r *SessionRequest) UserAgent() (string, bool) {
	return r.streamSession.Request().UserAgent()
}

// Headers returns every header field associated with the request.
func (r *SessionRequest) Headers() map[string]string {
	return r.streamSession.Request().Headers()
}

// Accept accepts the client request and establishes the WebTransport
// session. It must be called at most once.
func (r *SessionRequest) Accept(ctx context.Context) (*Connection, error) {
	if r.consumed {
		return nil, ErrSessionRequestConsumed
	}
	r.consumed = true

	response := wtproto.NewSessionResponseOK()
	userAgent, _ := r.UserAgent()
	if !strings.Contains(userAgent, "firefox") {
		response.Add(chromeDraftHeader, "draft02")
	}

	if err := r.sendResponse(ctx, response); err != nil {
		return nil, err
	}

	sessionID := r.streamSession.SessionID()
	if err := r.driver.RegisterSession(ctx, r.streamSession); err != nil {
		return nil, connectionErrorWithDriverError(err, r.quicConn)
	}

	return newConnection(r.quicConn, r.driver, sessionID), nil
}

// NotFound rejects the client request with a 404 status code. It must be
// called at most once. Any error sending the response is swallowed, per
// specification §7 -- the caller has already decided to reject, and there
// is nothing productive to do about a failed rejection.
func (r *SessionRequest) NotFound(ctx context.Context) error {
	if r.consumed {
		return ErrSessionRequestConsumed
	}
	r.consumed = true

	response := wtproto.NewSessionResponseNotFound()
	userAgent, _ := r.UserAgent()
	if !strings.Contains(userAgent, "firefox") {
		response.Add(chromeDraftHeader, "draft02")
	}

	_ = r.sendResponse(ctx, response)
	return r.streamSession.Finish()
}

func (r *SessionRequest) sendResponse(ctx context.Context, response *wtproto.SessionResponse) error {
	frame := response.GenerateFrame()

	err := r.streamSession.WriteFrame(ctx, frame)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, driver.ErrNotConnected):
		return noConnectionError(r.quicConn)
	case errors.Is(err, driver.ErrStopped):
		closeWithErrorCode(r.quicConn, wtproto.ErrorCodeClosedCriticalStream)
		return localH3Error(wtproto.ErrorCodeClosedCriticalStream)
	default:
		return connectionErrorFromQUIC(err)
	}
}
