package wtransport

import (
	"bytes"
	"testing"

	"github.com/quic-go/quic-go/quicvarint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/quictest"
)

func TestReceiveStreamReadsHeaderThenData(t *testing.T) {
	var buf []byte
	buf = quicvarint.Append(buf, h3.STREAM_WEBTRANSPORT_UNI_STREAM)
	buf = quicvarint.Append(buf, 9)
	buf = append(buf, []byte("hello")...)

	mockStream := quictest.NewMockStream(buf)
	mockStream.On("Read", mock.Anything).Return(0, nil)

	rs := &ReceiveStream{ReceiveStream: mockStream, readHeaderBeforeData: true}

	out := make([]byte, 5)
	n, err := rs.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out[:n]))
	assert.EqualValues(t, 9, rs.SessionID())
}

func TestReceiveStreamRejectsWrongStreamType(t *testing.T) {
	var buf []byte
	buf = quicvarint.Append(buf, h3.STREAM_CONTROL)

	mockStream := quictest.NewMockStream(buf)
	mockStream.On("Read", mock.Anything).Return(0, nil)

	rs := &ReceiveStream{ReceiveStream: mockStream, readHeaderBeforeData: true}

	_, err := rs.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrWrongStreamType)
}

func TestSendStreamWritesHeaderOnce(t *testing.T) {
	mockStream := quictest.NewMockStream(nil)
	var written bytes.Buffer
	mockStream.On("Write", mock.Anything).Run(func(args mock.Arguments) {
		written.Write(args.Get(0).([]byte))
	}).Return(0, nil)

	ss := &SendStream{SendStream: mockStream, writeHeaderBeforeData: true, requestSessionID: 9}

	_, err := ss.Write([]byte("a"))
	require.NoError(t, err)
	_, err = ss.Write([]byte("b"))
	require.NoError(t, err)

	var hdr h3.StreamHeader
	require.NoError(t, hdr.Read(bytes.NewReader(written.Bytes())))
	assert.EqualValues(t, h3.STREAM_WEBTRANSPORT_UNI_STREAM, hdr.Type)
	assert.EqualValues(t, 9, hdr.ID)
}
