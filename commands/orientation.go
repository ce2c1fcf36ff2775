package commands

import (
	"context"
	"fmt"

	"github.com/mobile-next/wdactl/devices/wda"
)

// RotateRequest represents the parameters for a rotation command
type RotateRequest struct {
	DeviceID string `json:"deviceId"`
	Degrees  int    `json:"degrees"`
}

type OrientationResponse struct {
	Orientation wda.Orientation `json:"orientation"`
}

// RotateCommand sets the device orientation from 0, 90, 180 or 270 degrees
func RotateCommand(ctx context.Context, req RotateRequest) *CommandResponse {
	orientation, err := wda.OrientationFromDegrees(req.Degrees)
	if err != nil {
		return NewErrorResponse(err)
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.Rotation(ctx, orientation); err != nil {
			return nil, fmt.Errorf("failed to rotate: %w", err)
		}
		return OrientationResponse{Orientation: orientation}, nil
	})
}

// OrientationCommand reports the orientation WDA currently sees
func OrientationCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		orientation, err := c.GetOrientation(ctx)
		if err != nil {
			return nil, err
		}
		return OrientationResponse{Orientation: orientation}, nil
	})
}
