package devices

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mobile-next/wdactl/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionServer hands out the session "s-<port>" and records deletions
type sessionServer struct {
	mu      sync.Mutex
	deleted []string
	server  *httptest.Server
}

func newSessionServer(t *testing.T) *sessionServer {
	t.Helper()

	s := &sessionServer{}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/status" {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"value":     map[string]interface{}{"ready": true},
				"sessionId": "live-session",
			})
			return
		}
		if r.Method == http.MethodDelete {
			s.mu.Lock()
			s.deleted = append(s.deleted, strings.TrimPrefix(r.URL.Path, "/session/"))
			s.mu.Unlock()
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": nil})
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *sessionServer) deletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deleted)
}

func (s *sessionServer) device(t *testing.T, serial string) *IOSDevice {
	t.Helper()

	u, err := url.Parse(s.server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return NewIOSDevice(
		config.Device{Serial: serial, Host: u.Hostname(), Port: port},
		config.WDA{RequestTimeout: 2 * time.Second, MaxSessionRetries: 1},
		nil,
	)
}

func TestDeviceRegistry_EvictionCleansUp(t *testing.T) {
	s := newSessionServer(t)
	registry, err := NewDeviceRegistry(1)
	require.NoError(t, err)

	first := s.device(t, "first")
	require.NoError(t, first.StartAgent(t.Context()))
	assert.Equal(t, "live-session", first.Info().SessionID)

	registry.Register(first)
	registry.Register(s.device(t, "second"))

	_, ok := registry.Get("first")
	assert.False(t, ok)
	_, ok = registry.Get("second")
	assert.True(t, ok)
	assert.Equal(t, 1, s.deletedCount(), "evicted device session removed")
	assert.Empty(t, first.Client().SessionID())
}

func TestDeviceRegistry_CleanupAll(t *testing.T) {
	s := newSessionServer(t)
	registry, err := NewDeviceRegistry(4)
	require.NoError(t, err)

	for _, serial := range []string{"a", "b", "c"} {
		d := s.device(t, serial)
		require.NoError(t, d.StartAgent(t.Context()))
		registry.Register(d)
	}

	var seen []string
	registry.Each(func(d *IOSDevice) { seen = append(seen, d.ID()) })
	assert.ElementsMatch(t, []string{"a", "b", "c"}, seen)

	registry.CleanupAll()
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, 3, s.deletedCount())
}

func TestDeviceRegistry_RemoveUnknown(t *testing.T) {
	registry, err := NewDeviceRegistry(2)
	require.NoError(t, err)
	assert.False(t, registry.Remove("missing"))
}

func TestNewDeviceRegistry_InvalidSize(t *testing.T) {
	_, err := NewDeviceRegistry(0)
	assert.Error(t, err)
}

func TestIOSDevice_CleanupWithoutSession(t *testing.T) {
	s := newSessionServer(t)
	d := s.device(t, "idle")

	assert.NoError(t, d.Cleanup())
	assert.Equal(t, 0, s.deletedCount())
	assert.False(t, d.Info().Forwarded)
}
