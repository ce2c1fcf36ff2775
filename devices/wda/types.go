package wda

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mobile-next/wdactl/utils"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRequestTimeout    = 5 * time.Second
	DefaultMaxSessionRetries = 3
)

// Notifier tells the rest of the platform that a device cannot be used
// for now. Implementations must not block for long and must not fail.
type Notifier interface {
	SetDeviceTemporaryUnavailable(ctx context.Context, serial string)
}

type Config struct {
	Serial            string
	Host              string
	Port              int
	RequestTimeout    time.Duration
	MaxSessionRetries int
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type touchIntent struct {
	x, y      float64
	startedAt time.Time
	moved     bool
	armed     bool
}

// WdaClient drives a single WebDriverAgent session. Session id, orientation,
// device size and the pending touch are guarded by mu, which is never held
// across a network call.
type WdaClient struct {
	config     Config
	httpClient *http.Client
	notifier   Notifier
	log        *logrus.Entry
	now        func() time.Time

	mu          sync.Mutex
	baseURL     string
	sessionId   string
	orientation Orientation
	deviceSize  *Size
	touch       touchIntent
}

func NewWdaClient(config Config, notifier Notifier) *WdaClient {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if config.MaxSessionRetries <= 0 {
		config.MaxSessionRetries = DefaultMaxSessionRetries
	}

	return &WdaClient{
		config: config,
		// per-call deadlines come from the request context
		httpClient:  &http.Client{},
		notifier:    notifier,
		log:         utils.Logger("wdaClient").WithField("serial", config.Serial),
		now:         time.Now,
		orientation: Portrait,
	}
}

func getURI(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

func (c *WdaClient) Serial() string {
	return c.config.Serial
}

func (c *WdaClient) BaseURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.baseURL == "" {
		return getURI(c.config.Host, c.config.Port)
	}
	return c.baseURL
}

func (c *WdaClient) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionId
}

func (c *WdaClient) setSessionID(id string) {
	c.mu.Lock()
	c.sessionId = id
	c.mu.Unlock()
}

func (c *WdaClient) Orientation() Orientation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

// DeviceSize returns the cached window size, if it was fetched already
func (c *WdaClient) DeviceSize() (Size, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deviceSize == nil {
		return Size{}, false
	}
	return *c.deviceSize, true
}

func (c *WdaClient) sessionPath(suffix string) string {
	return fmt.Sprintf("session/%s/%s", c.SessionID(), suffix)
}

func (c *WdaClient) notifyUnavailable(ctx context.Context) {
	if c.notifier == nil {
		return
	}
	c.notifier.SetDeviceTemporaryUnavailable(ctx, c.config.Serial)
}
