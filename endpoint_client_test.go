package wtransport

import (
	"context"
	"crypto/tls"
	"net"
	"testing"

	"github.com/quic-go/quic-go"
	"go.uber.org/mock/gomock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/driver"
	"github.com/kirill-scherba/wtransport/internal/quictest"
	"github.com/kirill-scherba/wtransport/internal/wtproto"
)

func newTestClientEndpoint(t *testing.T) *ClientEndpoint {
	t.Helper()
	ep, err := NewClientEndpoint(ClientConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { ep.Close() })
	return ep
}

// stubDial replaces dialQUIC for the duration of the test, so Connect's
// post-dial steps can be driven against a mocked connection.
func stubDial(t *testing.T, conn quic.Connection, err error) {
	t.Helper()
	orig := dialQUIC
	t.Cleanup(func() { dialQUIC = orig })
	dialQUIC = func(ctx context.Context, tr *quic.Transport, addr *net.UDPAddr, tlsConfig *tls.Config, quicConfig *quic.Config) (quic.Connection, error) {
		return conn, err
	}
}

// stubDriver replaces newDriver for the duration of the test, so a
// MockDriver can drive the handshake steps past dial.
func stubDriver(t *testing.T, drv driver.Driver) {
	t.Helper()
	orig := newDriver
	t.Cleanup(func() { newDriver = orig })
	newDriver = func(conn quic.Connection, role driver.Role) driver.Driver {
		return drv
	}
}

func responseFrame(status int) h3.Frame {
	var resp *wtproto.SessionResponse
	if status == 200 {
		resp = wtproto.NewSessionResponseOK()
	} else {
		resp = wtproto.NewSessionResponseNotFound()
	}
	return resp.GenerateFrame()
}

func TestClientConnectInvalidScheme(t *testing.T) {
	ep := newTestClientEndpoint(t)
	_, err := ep.Connect(context.Background(), "http://example.com/wt")
	var invalidURLErr *InvalidURLError
	assert.ErrorAs(t, err, &invalidURLErr)
}

func TestClientConnectDNSNotFound(t *testing.T) {
	orig := lookupIPAddr
	defer func() { lookupIPAddr = orig }()
	lookupIPAddr = func(ctx context.Context, host string) ([]net.IPAddr, error) {
		return nil, nil
	}

	ep := newTestClientEndpoint(t)
	_, err := ep.Connect(context.Background(), "https://empty.example/wt")
	assert.ErrorIs(t, err, ErrDNSNotFound)
}

func TestClientConnectSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConn := quictest.NewMockConnection()
	mockConn.On("Context").Return(context.Background())

	mockDriver := driver.NewMockDriver(ctrl)
	mockSession := driver.NewMockStreamSession(ctrl)

	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, nil)
	mockDriver.EXPECT().OpenSession(gomock.Any(), gomock.Any()).Return(mockSession, nil)
	mockDriver.EXPECT().RegisterSession(gomock.Any(), gomock.Any()).Return(nil)

	mockSession.EXPECT().WriteFrame(gomock.Any(), gomock.Any()).Return(nil)
	mockSession.EXPECT().ReadFrame(gomock.Any()).Return(responseFrame(200), nil)
	mockSession.EXPECT().SessionID().Return(uint64(4))

	stubDial(t, mockConn, nil)
	stubDriver(t, mockDriver)

	ep := newTestClientEndpoint(t)
	conn, err := ep.Connect(context.Background(), "https://127.0.0.1:4433/wt")
	require.NoError(t, err)
	assert.EqualValues(t, 4, conn.SessionID())
}

func TestClientConnectSessionRejectedByStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConn := quictest.NewMockConnection()
	mockConn.On("Context").Return(context.Background())

	mockDriver := driver.NewMockDriver(ctrl)
	mockSession := driver.NewMockStreamSession(ctrl)

	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, nil)
	mockDriver.EXPECT().OpenSession(gomock.Any(), gomock.Any()).Return(mockSession, nil)

	mockSession.EXPECT().WriteFrame(gomock.Any(), gomock.Any()).Return(nil)
	mockSession.EXPECT().ReadFrame(gomock.Any()).Return(responseFrame(404), nil)

	stubDial(t, mockConn, nil)
	stubDriver(t, mockDriver)

	ep := newTestClientEndpoint(t)
	_, err := ep.Connect(context.Background(), "https://127.0.0.1:4433/wt")
	assert.ErrorIs(t, err, ErrSessionRejected)
}

func TestClientConnectWriteStoppedIsSessionRejectedWithoutClosingConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConn := quictest.NewMockConnection()
	mockConn.On("Context").Return(context.Background())

	mockDriver := driver.NewMockDriver(ctrl)
	mockSession := driver.NewMockStreamSession(ctrl)

	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, nil)
	mockDriver.EXPECT().OpenSession(gomock.Any(), gomock.Any()).Return(mockSession, nil)
	mockSession.EXPECT().WriteFrame(gomock.Any(), gomock.Any()).Return(driver.ErrStopped)

	stubDial(t, mockConn, nil)
	stubDriver(t, mockDriver)

	ep := newTestClientEndpoint(t)
	_, err := ep.Connect(context.Background(), "https://127.0.0.1:4433/wt")
	assert.ErrorIs(t, err, ErrSessionRejected)
	mockConn.AssertNotCalled(t, "CloseWithError", mock.Anything, mock.Anything)
}

func TestClientConnectReadFrameH3ErrorClosesConnectionWithMatchingCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConn := quictest.NewMockConnection()
	mockConn.On("Context").Return(context.Background())
	mockConn.On("CloseWithError", mock.Anything, mock.Anything).Return(nil)

	mockDriver := driver.NewMockDriver(ctrl)
	mockSession := driver.NewMockStreamSession(ctrl)

	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, nil)
	mockDriver.EXPECT().OpenSession(gomock.Any(), gomock.Any()).Return(mockSession, nil)
	mockSession.EXPECT().WriteFrame(gomock.Any(), gomock.Any()).Return(nil)
	mockSession.EXPECT().ReadFrame(gomock.Any()).Return(h3.Frame{}, &driver.H3Error{Code: wtproto.ErrorCodeClosedCriticalStream})

	stubDial(t, mockConn, nil)
	stubDriver(t, mockDriver)

	ep := newTestClientEndpoint(t)
	_, err := ep.Connect(context.Background(), "https://127.0.0.1:4433/wt")

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.NotNil(t, connErr.H3Code)
	assert.Equal(t, wtproto.ErrorCodeClosedCriticalStream, *connErr.H3Code)
	mockConn.AssertCalled(t, "CloseWithError", mock.Anything, mock.Anything)
}

func TestClientConnectUnexpectedFrameClosesConnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConn := quictest.NewMockConnection()
	mockConn.On("Context").Return(context.Background())
	mockConn.On("CloseWithError", mock.Anything, mock.Anything).Return(nil)

	mockDriver := driver.NewMockDriver(ctrl)
	mockSession := driver.NewMockStreamSession(ctrl)

	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, nil)
	mockDriver.EXPECT().OpenSession(gomock.Any(), gomock.Any()).Return(mockSession, nil)

	mockSession.EXPECT().WriteFrame(gomock.Any(), gomock.Any()).Return(nil)
	mockSession.EXPECT().ReadFrame(gomock.Any()).Return(h3.Frame{Type: h3.FRAME_DATA}, nil)

	stubDial(t, mockConn, nil)
	stubDriver(t, mockDriver)

	ep := newTestClientEndpoint(t)
	_, err := ep.Connect(context.Background(), "https://127.0.0.1:4433/wt")

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.NotNil(t, connErr.H3Code)
	assert.Equal(t, wtproto.ErrorCodeFrameUnexpected, *connErr.H3Code)
}

func TestClientConnectMalformedResponseHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConn := quictest.NewMockConnection()
	mockConn.On("Context").Return(context.Background())
	mockConn.On("CloseWithError", mock.Anything, mock.Anything).Return(nil)

	mockDriver := driver.NewMockDriver(ctrl)
	mockSession := driver.NewMockStreamSession(ctrl)

	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, nil)
	mockDriver.EXPECT().OpenSession(gomock.Any(), gomock.Any()).Return(mockSession, nil)

	mockSession.EXPECT().WriteFrame(gomock.Any(), gomock.Any()).Return(nil)
	mockSession.EXPECT().ReadFrame(gomock.Any()).Return(h3.Frame{Type: h3.FRAME_HEADERS, Data: []byte{0xff, 0xff}}, nil)

	stubDial(t, mockConn, nil)
	stubDriver(t, mockDriver)

	ep := newTestClientEndpoint(t)
	_, err := ep.Connect(context.Background(), "https://127.0.0.1:4433/wt")

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	require.NotNil(t, connErr.H3Code)
	assert.Equal(t, wtproto.ErrorCodeMessage, *connErr.H3Code)
}
