package wda

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSizedClient(t *testing.T, m *mockWDA) *SizedClient {
	t.Helper()

	client := NewWdaClient(configFor(t, m.server.URL), &countingNotifier{})
	require.NoError(t, client.Connect(context.Background()))
	return NewSizedClient(client)
}

func TestSizedClient_FetchesSizeBeforeFirstGesture(t *testing.T) {
	m := newMockWDA(t)
	sized := newSizedClient(t, m)
	sizePath := sessionPathFor("session-1", "window/size")

	sized.Tap(TapParams{X: 0.5, Y: 0.5})
	require.NoError(t, sized.TouchUp(context.Background()))
	require.NoError(t, sized.DoubleClick(context.Background()))
	require.NoError(t, sized.Swipe(context.Background(), SwipeParams{ToX: 1, ToY: 1}))

	assert.Equal(t, 1, m.count(http.MethodGet, sizePath), "size fetched once and cached")
	assert.Equal(t, 1, m.count(http.MethodPost, sessionPathFor("session-1", "wda/tap/0")))
	assert.Equal(t, 1, m.count(http.MethodPost, sessionPathFor("session-1", "wda/doubleTap")))
	assert.Equal(t, 1, m.count(http.MethodPost, sessionPathFor("session-1", "wda/dragfromtoforduration")))
}

func TestSizedClient_SizeFailureReconnects(t *testing.T) {
	m := newMockWDA(t)
	sized := newSizedClient(t, m)
	statusBefore := m.count(http.MethodGet, "status")
	m.sizeStatus = http.StatusInternalServerError

	err := sized.Swipe(context.Background(), SwipeParams{ToX: 1, ToY: 1})
	require.ErrorIs(t, err, ErrGestureDropped)
	var connectErr *ConnectError
	assert.False(t, errors.As(err, &connectErr), "reconnect itself succeeded")

	assert.Equal(t, 1, m.count(http.MethodGet, "status")-statusBefore)
	assert.Equal(t, 0, m.count(http.MethodPost, sessionPathFor("session-1", "wda/dragfromtoforduration")))
	_, ok := sized.DeviceSize()
	assert.False(t, ok)
}

func TestSizedClient_SizeAndReconnectFailure(t *testing.T) {
	m := newMockWDA(t)
	sized := newSizedClient(t, m)
	m.sizeStatus = http.StatusInternalServerError
	m.statusStatus = http.StatusServiceUnavailable

	sized.Tap(TapParams{X: 0.5, Y: 0.5})
	err := sized.TouchUp(context.Background())

	var connectErr *ConnectError
	assert.ErrorAs(t, err, &connectErr)
}

func TestSizedClient_PassesOtherCallsThrough(t *testing.T) {
	m := newMockWDA(t)
	sized := newSizedClient(t, m)

	require.NoError(t, sized.PressButton(context.Background(), "volumeup"))
	require.NoError(t, sized.Rotation(context.Background(), Landscape))
	assert.Equal(t, 0, m.count(http.MethodGet, sessionPathFor("session-1", "window/size")))
}

func TestSizedClient_RefetchesSizeClearedByReconnect(t *testing.T) {
	m := newMockWDA(t)
	sized := newSizedClient(t, m)
	sizePath := sessionPathFor("session-1", "window/size")
	_, err := sized.Size(context.Background())
	require.NoError(t, err)

	sized.Tap(TapParams{X: 0.5, Y: 0.5})
	attempts := 0
	err = sized.withSize(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			// another caller reconnects after the size check
			require.NoError(t, sized.Connect(ctx))
		}
		return sized.WdaClient.TouchUp(ctx)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	assert.Equal(t, 2, m.count(http.MethodGet, sizePath))
	assert.Equal(t, 1, m.count(http.MethodPost, sessionPathFor("session-1", "wda/tap/0")))
}

func TestSizedClient_SizeStillUnknownAfterRefetch(t *testing.T) {
	m := newMockWDA(t)
	sized := newSizedClient(t, m)
	_, err := sized.Size(context.Background())
	require.NoError(t, err)

	attempts := 0
	err = sized.withSize(context.Background(), func(ctx context.Context) error {
		attempts++
		return ErrDeviceSizeUnknown
	})
	assert.ErrorIs(t, err, ErrDeviceSizeUnknown)
	assert.Equal(t, 2, attempts, "only one extra attempt")
}
