package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newHub(t *testing.T) (*httptest.Server, <-chan pushMessage) {
	t.Helper()

	received := make(chan pushMessage, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		for {
			var msg pushMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg
		}
	}))
	t.Cleanup(server.Close)
	return server, received
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

type recordingPusher struct {
	mu       sync.Mutex
	channels []string
	sent     []Envelope
	err      error
}

func (p *recordingPusher) Send(_ context.Context, channel string, envelope Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.channels = append(p.channels, channel)
	p.sent = append(p.sent, envelope)
	return nil
}

type failingGroup struct{}

func (failingGroup) Get(context.Context) (string, error) {
	return "", errors.New("group lookup failed")
}

func TestGroupNotifier_SendsEnvelopeToGroup(t *testing.T) {
	pusher := &recordingPusher{}
	n := NewGroupNotifier(StaticGroup("lab-ios"), pusher)

	n.SetDeviceTemporaryUnavailable(context.Background(), "serial-1")
	n.Wait()

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, []string{"lab-ios"}, pusher.channels)
	env := pusher.sent[0]
	assert.Equal(t, TemporarilyUnavailableMessage, env.Type)
	assert.Equal(t, "serial-1", env.Serial)
	_, err := uuid.Parse(env.ID)
	assert.NoError(t, err)
}

func TestGroupNotifier_GroupFailureIsSwallowed(t *testing.T) {
	pusher := &recordingPusher{}
	n := NewGroupNotifier(failingGroup{}, pusher)

	n.SetDeviceTemporaryUnavailable(context.Background(), "serial-1")
	n.Wait()
	assert.Empty(t, pusher.sent)

	n = NewGroupNotifier(StaticGroup(""), pusher)
	n.SetDeviceTemporaryUnavailable(context.Background(), "serial-1")
	n.Wait()
	assert.Empty(t, pusher.sent)
}

func TestGroupNotifier_PushFailureIsSwallowed(t *testing.T) {
	pusher := &recordingPusher{err: errors.New("hub down")}
	n := NewGroupNotifier(StaticGroup("lab"), pusher)

	assert.NotPanics(t, func() {
		n.SetDeviceTemporaryUnavailable(context.Background(), "serial-1")
		n.Wait()
	})
}

func TestGroupNotifier_IgnoresCancelledCaller(t *testing.T) {
	pusher := &recordingPusher{}
	n := NewGroupNotifier(StaticGroup("lab"), pusher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n.SetDeviceTemporaryUnavailable(ctx, "serial-1")
	n.Wait()
	assert.Len(t, pusher.sent, 1)
}

type blockingPusher struct {
	release chan struct{}
	sent    chan Envelope
}

func (p *blockingPusher) Send(ctx context.Context, _ string, envelope Envelope) error {
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.sent <- envelope
	return nil
}

func TestGroupNotifier_DoesNotBlockCaller(t *testing.T) {
	pusher := &blockingPusher{release: make(chan struct{}), sent: make(chan Envelope, 1)}
	n := NewGroupNotifier(StaticGroup("lab"), pusher)

	start := time.Now()
	n.SetDeviceTemporaryUnavailable(context.Background(), "serial-1")
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, pusher.sent)

	close(pusher.release)
	n.Wait()
	require.Len(t, pusher.sent, 1)
	assert.Equal(t, "serial-1", (<-pusher.sent).Serial)
}

func TestWebsocketPusher_DeliversToHub(t *testing.T) {
	server, received := newHub(t)
	pusher := NewWebsocketPusher(wsURL(server))
	defer pusher.Close()

	n := NewGroupNotifier(StaticGroup("lab-ios"), pusher)
	n.SetDeviceTemporaryUnavailable(context.Background(), "serial-1")
	n.SetDeviceTemporaryUnavailable(context.Background(), "serial-1")

	for i := 0; i < 2; i++ {
		select {
		case msg := <-received:
			assert.Equal(t, "lab-ios", msg.Channel)
			assert.Equal(t, "serial-1", msg.Envelope.Serial)
			assert.Equal(t, TemporarilyUnavailableMessage, msg.Envelope.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("hub did not receive message")
		}
	}
}

func TestWebsocketPusher_DialFailure(t *testing.T) {
	pusher := NewWebsocketPusher("ws://127.0.0.1:1/push")

	err := pusher.Send(context.Background(), "lab", Envelope{ID: "x"})
	assert.Error(t, err)
	assert.NoError(t, pusher.Close())
}
