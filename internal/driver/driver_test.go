package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/quicvarint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/quictest"
	"github.com/kirill-scherba/wtransport/internal/wtproto"
)

func TestLocalSettingsAdvertisesWebTransportAndDatagrams(t *testing.T) {
	settings := localSettings()
	assert.EqualValues(t, 1, settings[h3.H3_DATAGRAM_05])
	assert.EqualValues(t, 1, settings[h3.ENABLE_WEBTRANSPORT])
}

func TestClassifyWriteErrorNil(t *testing.T) {
	assert.NoError(t, classifyWriteError(nil))
}

func TestClassifyWriteErrorStreamErrorIsStopped(t *testing.T) {
	err := classifyWriteError(&quic.StreamError{ErrorCode: 1})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestClassifyWriteErrorOtherIsNotConnected(t *testing.T) {
	err := classifyWriteError(errors.New("boom"))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestH3ErrorMessage(t *testing.T) {
	err := &H3Error{Code: wtproto.ErrorCodeFrameUnexpected}
	assert.Contains(t, err.Error(), "H3_FRAME_UNEXPECTED")
}

// newTestDriver builds a connDriver without starting bringUp's goroutines,
// so AcceptSession/RegisterSession can be exercised directly against a
// mocked connection.
func newTestDriver(conn quic.Connection, role Role) *connDriver {
	return &connDriver{
		conn:       conn,
		role:       role,
		settingsCh: make(chan settingsResult, 1),
		sessions:   make(map[uint64]struct{}),
	}
}

func TestAcceptSessionParsesConnectHeaders(t *testing.T) {
	req, err := wtproto.NewSessionRequest("https://example.com/wt")
	require.NoError(t, err)
	frame := req.GenerateFrame()

	var buf []byte
	buf = quicvarint.Append(buf, frame.Type)
	buf = quicvarint.Append(buf, frame.Length)
	buf = append(buf, frame.Data...)

	stream := quictest.NewMockStream(buf)
	stream.On("StreamID").Return(quic.StreamID(4))
	stream.On("Read", mock.Anything).Return(0, nil)

	conn := quictest.NewMockConnection()
	conn.On("AcceptStream", mock.Anything).Return(quic.Stream(stream), nil)

	d := newTestDriver(conn, RoleServer)

	session, err := d.AcceptSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "example.com", session.Request().Authority())
	assert.Equal(t, "/wt", session.Request().Path())
	assert.EqualValues(t, 4, session.SessionID())
}

func TestRegisterSessionFailsAfterCriticalError(t *testing.T) {
	conn := quictest.NewMockConnection()
	d := newTestDriver(conn, RoleServer)
	code := wtproto.ErrorCodeClosedCriticalStream
	d.criticalErr.Store(&code)

	stream := &connStreamSession{driver: d, id: 1}
	err := d.RegisterSession(context.Background(), stream)
	assert.ErrorIs(t, err, ErrDriverClosed)
}

func TestRegisterSessionRecordsSessionID(t *testing.T) {
	conn := quictest.NewMockConnection()
	d := newTestDriver(conn, RoleServer)

	stream := &connStreamSession{driver: d, id: 7}
	err := d.RegisterSession(context.Background(), stream)
	require.NoError(t, err)

	d.mu.Lock()
	_, ok := d.sessions[7]
	d.mu.Unlock()
	assert.True(t, ok)
}
