package wda

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRequest_SessionID(t *testing.T) {
	tests := []struct {
		path   string
		id     string
		scoped bool
	}{
		{"session/abc/wda/tap/0", "abc", true},
		{"session/abc", "abc", true},
		{"session/", "", false},
		{"session", "", false},
		{"status", "", false},
		{"wda/homescreen", "", false},
	}

	for _, tt := range tests {
		id, ok := PendingRequest{Path: tt.path}.sessionID()
		assert.Equal(t, tt.scoped, ok, tt.path)
		assert.Equal(t, tt.id, id, tt.path)
	}
}

func TestPendingRequest_Rebind(t *testing.T) {
	req := PendingRequest{Method: http.MethodPost, Path: "session/old/wda/keys", Body: "x", JSON: true}

	rebound := req.rebind("old", "new")
	assert.Equal(t, "session/new/wda/keys", rebound.Path)
	assert.Equal(t, req.Body, rebound.Body)
	assert.True(t, rebound.JSON)
	assert.Equal(t, "session/old/wda/keys", req.Path, "original left untouched")

	assert.Equal(t, "session/new", PendingRequest{Path: "session/old"}.rebind("old", "new").Path)
	assert.Equal(t, "session/new/window/size", PendingRequest{Path: "session//window/size"}.rebind("", "new").Path)
	assert.Equal(t, "session/older/x", PendingRequest{Path: "session/older/x"}.rebind("old", "new").Path)
	assert.Equal(t, "screenshot", PendingRequest{Path: "screenshot"}.rebind("old", "new").Path)
}

func TestHandleRequest_SessionExpiredReconnectsAndReplays(t *testing.T) {
	m := newMockWDA(t)
	client, notifier := newConnectedClient(t, m)
	require.Equal(t, "session-1", client.SessionID())
	statusBefore := m.count(http.MethodGet, "status")

	m.expire("session-2")

	err := client.TypeKey(context.Background(), KeysParams{Value: []string{"h"}})
	require.NoError(t, err)

	assert.Equal(t, 1, m.count(http.MethodGet, "status")-statusBefore, "exactly one reconnect")
	assert.Equal(t, 1, m.count(http.MethodPost, "session/session-1/wda/keys"))
	assert.Equal(t, 1, m.count(http.MethodPost, "session/session-2/wda/keys"), "exactly one replay with new id")
	assert.Equal(t, "session-2", client.SessionID())
	assert.Equal(t, 0, notifier.count())
}

func TestHandleRequest_EachExpiryGetsItsOwnRetry(t *testing.T) {
	m := newMockWDA(t)
	client, _ := newConnectedClient(t, m)

	// the first reconnect hands out a session that is already gone
	m.expire("session-3")
	m.statusIDs = []string{"session-2"}

	err := client.PressButton(context.Background(), "volumeup")
	require.NoError(t, err)

	assert.Equal(t, 1, m.count(http.MethodPost, "session/session-2/wda/pressButton"))
	assert.Equal(t, 1, m.count(http.MethodPost, "session/session-3/wda/pressButton"))
	assert.Equal(t, "session-3", client.SessionID())
}

func TestHandleRequest_RetryLimit(t *testing.T) {
	m := newMockWDA(t)
	client, notifier := newConnectedClient(t, m)
	statusBefore := m.count(http.MethodGet, "status")

	m.expire("never-handed-out")
	m.statusIDs = []string{"stale-1", "stale-2", "stale-3", "stale-4"}

	err := client.PressButton(context.Background(), "home")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetryLimit))

	var expired *SessionExpiredError
	assert.True(t, errors.As(err, &expired))
	assert.Equal(t, client.config.MaxSessionRetries, m.count(http.MethodGet, "status")-statusBefore)
	assert.Equal(t, 1, notifier.count())
}

func TestHandleRequest_ReconnectFailureIsUnrecoverable(t *testing.T) {
	m := newMockWDA(t)
	client, notifier := newConnectedClient(t, m)

	m.expire("session-2")
	m.statusStatus = http.StatusInternalServerError

	err := client.Home(context.Background())
	require.NoError(t, err, "homescreen is not session scoped")

	err = client.PressButton(context.Background(), "volumeup")
	require.Error(t, err)

	var unrecoverable *UnrecoverableError
	require.True(t, errors.As(err, &unrecoverable))
	var connectErr *ConnectError
	assert.True(t, errors.As(err, &connectErr))
	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, []string{"device-1"}, notifier.serials)
}

func TestHandleRequest_BackendUnreachableNotifiesOnce(t *testing.T) {
	m := newMockWDA(t)
	client, notifier := newConnectedClient(t, m)

	m.server.Close()

	err := client.PressButton(context.Background(), "volumeup")
	require.Error(t, err)

	var unreachable *BackendUnreachableError
	assert.True(t, errors.As(err, &unreachable))
	assert.Equal(t, 1, notifier.count())
}

func TestHandleRequest_OtherFailuresAreNotRetried(t *testing.T) {
	m := newMockWDA(t)
	client, notifier := newConnectedClient(t, m)
	statusBefore := m.count(http.MethodGet, "status")

	m.failPaths["session/session-1/wda/keys"] = http.StatusInternalServerError

	err := client.TypeKey(context.Background(), KeysParams{Value: []string{"a"}})
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, 1, m.count(http.MethodPost, "session/session-1/wda/keys"))
	assert.Equal(t, statusBefore, m.count(http.MethodGet, "status"))
	assert.Equal(t, 0, notifier.count())
}

func TestHandleRequest_NotFoundOutsideSessionIsPlainError(t *testing.T) {
	m := newMockWDA(t)
	client, notifier := newConnectedClient(t, m)
	statusBefore := m.count(http.MethodGet, "status")

	m.failPaths["wda/homescreen"] = http.StatusNotFound

	err := client.Home(context.Background())
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, statusBefore, m.count(http.MethodGet, "status"))
	assert.Equal(t, 0, notifier.count())
}

func TestHandleRequest_CallerCancellationDoesNotNotify(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	notifier := &countingNotifier{}
	client := NewWdaClient(configFor(t, server.URL), notifier)
	client.sessionId = "s"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.PressButton(ctx, "home")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, notifier.count())
}
