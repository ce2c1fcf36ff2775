package wda

import (
	"context"
	"fmt"
	"net/http"
)

// ActiveAppInfo describes the foreground application
type ActiveAppInfo struct {
	BundleID  string `json:"bundleId"`
	Name      string `json:"name"`
	ProcessID int    `json:"pid"`
}

// ActiveApp returns the foreground application. The endpoint does not need
// a session.
func (c *WdaClient) ActiveApp(ctx context.Context) (*ActiveAppInfo, error) {
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   "wda/activeAppInfo",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get active app info: %w", err)
	}

	var info ActiveAppInfo
	if err := resp.DecodeValue(&info); err != nil {
		return nil, fmt.Errorf("unexpected active app response: %w", err)
	}
	return &info, nil
}
