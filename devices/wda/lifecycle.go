package wda

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HealthCheck probes /status without touching the session
func (c *WdaClient) HealthCheck(ctx context.Context) error {
	_, err := c.do(ctx, PendingRequest{Method: http.MethodGet, Path: "status"})
	return err
}

// WaitForReady polls /status until WDA answers or timeout passes
func (c *WdaClient) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for WebDriverAgent to be ready")

		case <-ticker.C:
			if err := c.HealthCheck(ctx); err != nil {
				c.log.Debugf("WebDriverAgent not ready yet: %v", err)
				continue
			}

			c.log.Debug("WebDriverAgent is ready!")
			return nil
		}
	}
}
