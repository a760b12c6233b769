package wtransport

import (
	"context"
	"testing"
	"time"

	"github.com/quic-go/quic-go"
	"go.uber.org/mock/gomock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirill-scherba/wtransport/h3"
	"github.com/kirill-scherba/wtransport/internal/driver"
	"github.com/kirill-scherba/wtransport/internal/quictest"
)

func stubNewDriver(t *testing.T, drv driver.Driver) {
	t.Helper()
	orig := newDriver
	t.Cleanup(func() { newDriver = orig })
	newDriver = func(conn quic.Connection, role driver.Role) driver.Driver {
		return drv
	}
}

func TestIncomingSessionWaitSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDriver := driver.NewMockDriver(ctrl)
	mockSession := driver.NewMockStreamSession(ctrl)

	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, nil)
	mockDriver.EXPECT().AcceptSession(gomock.Any()).Return(mockSession, nil)

	stubNewDriver(t, mockDriver)

	is := newIncomingSession(quictest.NewMockConnection())
	req, err := is.Wait(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, req)
}

func TestIncomingSessionWaitPropagatesSettingsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDriver := driver.NewMockDriver(ctrl)
	mockConn := quictest.NewMockConnection()
	mockConn.On("Context").Return(context.Background())
	mockDriver.EXPECT().AcceptSettings(gomock.Any()).Return(h3.SettingsMap{}, driver.ErrNotConnected)

	stubNewDriver(t, mockDriver)

	is := newIncomingSession(mockConn)
	_, err := is.Wait(context.Background())
	require.Error(t, err)
}

func TestIncomingSessionWaitTimesOutLocallyWithoutTearingDownDriver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDriver := driver.NewMockDriver(ctrl)
	block := make(chan struct{})
	mockDriver.EXPECT().AcceptSettings(gomock.Any()).DoAndReturn(
		func(ctx context.Context) (h3.SettingsMap, error) {
			<-block
			return h3.SettingsMap{}, nil
		})

	stubNewDriver(t, mockDriver)

	is := newIncomingSession(quictest.NewMockConnection())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := is.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(block)
}
