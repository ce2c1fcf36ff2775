package wda

import (
	"context"
	"fmt"
	"net/http"
)

type KeysParams struct {
	Value []string `json:"value"`
}

// KeyToText translates an abstract key name into the text WDA types for it.
// ok is false for keys that have no text form.
func KeyToText(key string) (text string, ok bool) {
	switch key {
	case "enter":
		return "\r", true
	case "del":
		return "\x08", true
	case "home":
		return "", false
	default:
		return key, true
	}
}

// TypeKey types params.Value. An absent or empty first entry is a no-op.
func (c *WdaClient) TypeKey(ctx context.Context, params KeysParams) error {
	if len(params.Value) == 0 || params.Value[0] == "" {
		return nil
	}

	_, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("wda/keys"),
		Body:   params,
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to send keys: %w", err)
	}
	return nil
}
