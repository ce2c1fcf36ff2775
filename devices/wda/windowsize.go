package wda

import (
	"context"
	"fmt"
	"net/http"
)

// Size fetches the window size and caches it for gesture mapping
func (c *WdaClient) Size(ctx context.Context) (Size, error) {
	path := c.sessionPath("window/size")
	c.log.Infof("window size: %s/%s", c.BaseURL(), path)

	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   path,
	})
	if err != nil {
		return Size{}, fmt.Errorf("failed to get window size: %w", err)
	}

	var size Size
	if err := resp.DecodeValue(&size); err != nil {
		return Size{}, fmt.Errorf("failed to parse window size: %w", err)
	}
	if size.Width <= 0 || size.Height <= 0 {
		return Size{}, fmt.Errorf("invalid window size %vx%v", size.Width, size.Height)
	}

	c.mu.Lock()
	c.deviceSize = &size
	c.mu.Unlock()

	return size, nil
}
