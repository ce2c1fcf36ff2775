package wda

import (
	"context"
	"fmt"
	"net/http"
)

// Rotation records the new orientation for gesture mapping and asks WDA to
// rotate. The cached device size stays valid.
func (c *WdaClient) Rotation(ctx context.Context, orientation Orientation) error {
	c.mu.Lock()
	c.orientation = orientation
	c.mu.Unlock()

	_, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("orientation"),
		Body: map[string]interface{}{
			"orientation": orientation,
		},
		JSON: true,
	})
	if err != nil {
		return fmt.Errorf("failed to set orientation: %w", err)
	}

	return nil
}

// GetOrientation asks WDA for the orientation it currently reports
func (c *WdaClient) GetOrientation(ctx context.Context) (Orientation, error) {
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   c.sessionPath("orientation"),
		JSON:   true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get orientation: %w", err)
	}

	var value string
	if err := resp.DecodeValue(&value); err != nil {
		return "", fmt.Errorf("invalid orientation response format: %w", err)
	}

	return Orientation(value), nil
}
