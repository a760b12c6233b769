// Package quictest provides testify/mock fakes for the quic-go interfaces
// this module depends on, for use from _test.go files across the module's
// packages. Grounded on xmidt-org-xmidt-agent's internal/quic mock_test.go,
// which mocks the same quic.Connection/quic.Stream surface with
// stretchr/testify/mock rather than hand-rolled fakes.
package quictest

import (
	"context"
	"net"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/mock"
)

// MockConnection is a testify/mock fake of quic.Connection.
type MockConnection struct {
	mock.Mock
}

func NewMockConnection() *MockConnection { return &MockConnection{} }

func (m *MockConnection) AcceptStream(ctx context.Context) (quic.Stream, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(quic.Stream)
	return s, args.Error(1)
}

func (m *MockConnection) AcceptUniStream(ctx context.Context) (quic.ReceiveStream, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(quic.ReceiveStream)
	return s, args.Error(1)
}

func (m *MockConnection) CloseWithError(code quic.ApplicationErrorCode, desc string) error {
	args := m.Called(code, desc)
	return args.Error(0)
}

func (m *MockConnection) ConnectionState() quic.ConnectionState {
	args := m.Called()
	cs, _ := args.Get(0).(quic.ConnectionState)
	return cs
}

func (m *MockConnection) Context() context.Context {
	args := m.Called()
	ctx, _ := args.Get(0).(context.Context)
	return ctx
}

func (m *MockConnection) LocalAddr() net.Addr {
	args := m.Called()
	a, _ := args.Get(0).(net.Addr)
	return a
}

func (m *MockConnection) OpenStream() (quic.Stream, error) {
	args := m.Called()
	s, _ := args.Get(0).(quic.Stream)
	return s, args.Error(1)
}

func (m *MockConnection) OpenStreamSync(ctx context.Context) (quic.Stream, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(quic.Stream)
	return s, args.Error(1)
}

func (m *MockConnection) OpenUniStream() (quic.SendStream, error) {
	args := m.Called()
	s, _ := args.Get(0).(quic.SendStream)
	return s, args.Error(1)
}

func (m *MockConnection) OpenUniStreamSync(ctx context.Context) (quic.SendStream, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(quic.SendStream)
	return s, args.Error(1)
}

func (m *MockConnection) ReceiveDatagram(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockConnection) RemoteAddr() net.Addr {
	args := m.Called()
	a, _ := args.Get(0).(net.Addr)
	return a
}

func (m *MockConnection) SendDatagram(payload []byte) error {
	args := m.Called(payload)
	return args.Error(0)
}

// MockStream is a testify/mock fake of quic.Stream (bidirectional).
type MockStream struct {
	mock.Mock
	buf       []byte
	readCount int
}

func NewMockStream(buf []byte) *MockStream {
	return &MockStream{buf: buf}
}

func (m *MockStream) StreamID() quic.StreamID {
	args := m.Called()
	id, _ := args.Get(0).(quic.StreamID)
	return id
}

func (m *MockStream) CancelRead(code quic.StreamErrorCode)  { m.Called(code) }
func (m *MockStream) CancelWrite(code quic.StreamErrorCode) { m.Called(code) }

func (m *MockStream) Write(p []byte) (int, error) {
	args := m.Called(p)
	n, _ := args.Get(0).(int)
	return n, args.Error(1)
}

func (m *MockStream) Read(p []byte) (int, error) {
	args := m.Called(p)
	if err := args.Error(1); err != nil {
		return 0, err
	}
	n := copy(p, m.buf[m.readCount:])
	m.readCount += n
	return n, nil
}

func (m *MockStream) SetReadDeadline(t time.Time) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockStream) SetWriteDeadline(t time.Time) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockStream) SetDeadline(t time.Time) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockStream) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStream) Context() context.Context {
	args := m.Called()
	ctx, _ := args.Get(0).(context.Context)
	return ctx
}
