package commands

import (
	"context"
	"fmt"

	"github.com/mobile-next/wdactl/devices/wda"
)

// AppRequest represents the parameters for an app command
type AppRequest struct {
	DeviceID string `json:"deviceId"`
	BundleID string `json:"bundleId"`
}

// LaunchAppCommand brings an installed app to the foreground
func LaunchAppCommand(ctx context.Context, req AppRequest) *CommandResponse {
	if req.BundleID == "" {
		return NewErrorResponse(fmt.Errorf("bundleId is required"))
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.AppActivate(ctx, req.BundleID); err != nil {
			return nil, fmt.Errorf("failed to launch %s: %w", req.BundleID, err)
		}
		return okMessage(fmt.Sprintf("launched %s", req.BundleID)), nil
	})
}

func ForegroundAppCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		return c.ActiveApp(ctx)
	})
}
