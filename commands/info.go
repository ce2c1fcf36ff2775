package commands

import (
	"context"
	"fmt"

	"github.com/mobile-next/wdactl/devices"
	"github.com/mobile-next/wdactl/devices/wda"
)

type FullDeviceInfo struct {
	devices.DeviceInfo
	Orientation wda.Orientation `json:"orientation"`
	Screen      wda.Size        `json:"screen"`
}

type BatteryResponse struct {
	Level   float64 `json:"level"`
	Percent int     `json:"percent"`
	State   string  `json:"state"`
}

// InfoCommand reports connectivity, orientation and the window size
func InfoCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	device, err := FindDevice(ctx, req.DeviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %w", err))
	}

	client := device.Client()
	size, err := client.Size(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error getting device info: %w", err))
	}

	return NewSuccessResponse(FullDeviceInfo{
		DeviceInfo:  device.Info(),
		Orientation: client.Orientation(),
		Screen:      size,
	})
}

func BatteryCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		info, err := c.BatteryInfo(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read battery: %w", err)
		}
		return BatteryResponse{Level: info.Level, Percent: info.Percent(), State: info.State.String()}, nil
	})
}
