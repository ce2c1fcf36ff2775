package wda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

// Screenshot returns the PNG bytes WDA encodes in base64
func (c *WdaClient) Screenshot(ctx context.Context) ([]byte, error) {
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   "screenshot",
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}

	var screenshotData string
	if err := resp.DecodeValue(&screenshotData); err != nil {
		return nil, err
	}

	screenshotBytes, err := base64.StdEncoding.DecodeString(screenshotData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	return screenshotBytes, nil
}
