package driver

import (
	"context"
	"errors"

	"github.com/quic-go/quic-go"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/wtproto"
)

// connStreamSession is the concrete StreamSession backing a real QUIC
// stream.
type connStreamSession struct {
	driver  *connDriver
	stream  quic.Stream
	id      uint64
	request *wtproto.SessionRequest
}

func (s *connStreamSession) ID() uint64 { return s.id }

func (s *connStreamSession) SessionID() uint64 { return s.id }

func (s *connStreamSession) Request() *wtproto.SessionRequest { return s.request }

type frameResult struct {
	frame h3.Frame
	err   error
}

// ReadFrame reads the next frame off the session stream. Supply a cancelable
// ctx, or the stream's own lifetime, so that ending the WebTransport
// connection automatically unblocks pending reads.
func (s *connStreamSession) ReadFrame(ctx context.Context) (h3.Frame, error) {
	resultCh := make(chan frameResult, 1)

	go func() {
		var frame h3.Frame
		err := frame.Read(s.stream)
		resultCh <- frameResult{frame: frame, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			if code := s.driver.criticalErr.Load(); code != nil {
				return h3.Frame{}, &H3Error{Code: *code}
			}
			return h3.Frame{}, res.err
		}
		return res.frame, nil
	case <-ctx.Done():
		return h3.Frame{}, ctx.Err()
	}
}

// WriteFrame writes a frame to the session stream.
func (s *connStreamSession) WriteFrame(ctx context.Context, frame h3.Frame) error {
	errCh := make(chan error, 1)

	go func() {
		_, err := frame.Write(s.stream)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return classifyWriteError(err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Finish half-closes the stream's send side.
func (s *connStreamSession) Finish() error {
	return s.stream.Close()
}

// classifyWriteError maps a raw QUIC stream-write error onto the two write
// failure modes the specification names: the peer refusing the stream
// (STOP_SENDING) versus the connection no longer being usable.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}

	var streamErr *quic.StreamError
	if errors.As(err, &streamErr) {
		return ErrStopped
	}

	return ErrNotConnected
}
