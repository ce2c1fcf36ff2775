package wda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// mockWDA is a fake WebDriverAgent that accepts only its current session id
// on session-scoped paths and answers 404 for any other
type mockWDA struct {
	mu           sync.Mutex
	sessionId    string
	statusIDs    []string
	statusStatus int
	statusBody   string
	sizeStatus   int
	width        float64
	height       float64
	locked       bool
	elements     []map[string]string
	failPaths    map[string]int
	calls        []recordedCall
	server       *httptest.Server
}

func newMockWDA(t *testing.T) *mockWDA {
	t.Helper()

	m := &mockWDA{
		sessionId: "session-1",
		width:     390,
		height:    844,
		failPaths: map[string]int{},
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockWDA) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}

	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, recordedCall{Method: r.Method, Path: path, Body: body})
	w.Header().Set("Content-Type", "application/json")

	if status, ok := m.failPaths[path]; ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"value":{"error":"unknown error"}}`))
		return
	}

	switch {
	case path == "status":
		m.handleStatus(w)
		return
	case path == "session" || path == "session/":
		m.sessionId = "created-session"
		if body["desiredCapabilities"] != nil {
			m.sessionId = "safari-session"
		}
		writeValue(w, map[string]interface{}{"sessionId": m.sessionId})
		return
	case path == "screenshot":
		writeValue(w, base64.StdEncoding.EncodeToString([]byte("fake-png-data")))
		return
	case strings.HasPrefix(path, "source"):
		writeValue(w, map[string]interface{}{
			"type": "Application", "isVisible": "1", "rect": map[string]int{"x": 0, "y": 0, "width": 390, "height": 844},
			"children": []map[string]interface{}{
				{"type": "Button", "label": "Login", "isVisible": "1", "rect": map[string]int{"x": 50, "y": 100, "width": 290, "height": 50}},
				{"type": "Other", "label": "Container", "isVisible": "1", "rect": map[string]int{"x": 0, "y": 0, "width": 10, "height": 10}},
			},
		})
		return
	case path == "wda/homescreen":
		writeValue(w, nil)
		return
	case path == "wda/activeAppInfo":
		writeValue(w, map[string]interface{}{"bundleId": "com.apple.Preferences", "name": "Settings", "pid": 412})
		return
	}

	rest, ok := strings.CutPrefix(path, "session/")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	id, action, _ := strings.Cut(rest, "/")
	if id != m.sessionId {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"value":{"error":"invalid session id"}}`))
		return
	}

	switch {
	case action == "" && r.Method == http.MethodDelete:
		m.sessionId = ""
		writeValue(w, nil)
	case action == "":
		writeValue(w, map[string]interface{}{"sdkVersion": "17.4"})
	case action == "window/size":
		if m.sizeStatus != 0 {
			w.WriteHeader(m.sizeStatus)
			return
		}
		writeValue(w, map[string]float64{"width": m.width, "height": m.height})
	case action == "wda/locked":
		writeValue(w, m.locked)
	case action == "wda/batteryInfo":
		writeValue(w, map[string]interface{}{"level": 0.42, "state": 2})
	case action == "orientation" && r.Method == http.MethodGet:
		writeValue(w, "LANDSCAPE")
	case action == "elements":
		writeValue(w, m.elements)
	default:
		writeValue(w, nil)
	}
}

func (m *mockWDA) handleStatus(w http.ResponseWriter) {
	if m.statusStatus != 0 {
		w.WriteHeader(m.statusStatus)
		return
	}
	if m.statusBody != "" {
		_, _ = w.Write([]byte(m.statusBody))
		return
	}

	id := m.sessionId
	if len(m.statusIDs) > 0 {
		id = m.statusIDs[0]
		m.statusIDs = m.statusIDs[1:]
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"value":     map[string]interface{}{"ready": true},
		"sessionId": id,
	})
}

func writeValue(w http.ResponseWriter, value interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"value": value})
}

// expire makes the server forget the current session and accept next
func (m *mockWDA) expire(next string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionId = next
}

func (m *mockWDA) count(method, path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (m *mockWDA) last(method, path string) *recordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Method == method && m.calls[i].Path == path {
			c := m.calls[i]
			return &c
		}
	}
	return nil
}

func (m *mockWDA) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type countingNotifier struct {
	mu      sync.Mutex
	serials []string
}

func (n *countingNotifier) SetDeviceTemporaryUnavailable(_ context.Context, serial string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.serials = append(n.serials, serial)
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.serials)
}

func configFor(t *testing.T, serverURL string) Config {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return Config{
		Serial:            "device-1",
		Host:              u.Hostname(),
		Port:              port,
		RequestTimeout:    2 * time.Second,
		MaxSessionRetries: 3,
	}
}

// newConnectedClient returns a client with a live session and a known size
func newConnectedClient(t *testing.T, m *mockWDA) (*WdaClient, *countingNotifier) {
	t.Helper()

	notifier := &countingNotifier{}
	client := NewWdaClient(configFor(t, m.server.URL), notifier)
	require.NoError(t, client.Connect(context.Background()))
	client.deviceSize = &Size{Width: m.width, Height: m.height}
	return client, notifier
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func sessionPathFor(id, suffix string) string {
	return fmt.Sprintf("session/%s/%s", id, suffix)
}
