package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

type pushMessage struct {
	Channel  string   `json:"channel"`
	Envelope Envelope `json:"envelope"`
}

// WebsocketPusher keeps one connection to the push hub and redials after
// a failed write
type WebsocketPusher struct {
	url    string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebsocketPusher(url string) *WebsocketPusher {
	return &WebsocketPusher{
		url:    url,
		dialer: websocket.DefaultDialer,
	}
}

func (p *WebsocketPusher) Send(ctx context.Context, channel string, envelope Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		conn, _, err := p.dialer.DialContext(ctx, p.url, nil)
		if err != nil {
			return fmt.Errorf("failed to connect to push hub: %w", err)
		}
		p.conn = conn
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = p.conn.SetWriteDeadline(deadline)
	}

	err := p.conn.WriteJSON(pushMessage{Channel: channel, Envelope: envelope})
	if err != nil {
		_ = p.conn.Close()
		p.conn = nil
		return fmt.Errorf("failed to push to %s: %w", channel, err)
	}

	return nil
}

func (p *WebsocketPusher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
