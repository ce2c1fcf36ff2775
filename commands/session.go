package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/mobile-next/wdactl/devices"
	"github.com/mobile-next/wdactl/devices/wda"
)

type SessionResponse struct {
	DeviceID  string `json:"deviceId"`
	SessionID string `json:"sessionId"`
}

// ConnectCommand re-probes WDA and adopts its current session
func ConnectCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	device, err := FindDevice(ctx, req.DeviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %w", err))
	}

	client := device.Client()
	if err := client.Connect(ctx); err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(SessionResponse{DeviceID: device.ID(), SessionID: client.SessionID()})
}

// RemoveSessionCommand deletes the session and forgets the device
func RemoveSessionCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	device, err := FindDevice(ctx, req.DeviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %w", err))
	}

	if err := device.Client().RemoveSession(ctx); err != nil {
		return NewErrorResponse(err)
	}

	if registry := GetRegistry(); registry != nil {
		registry.Remove(device.ID())
	}
	return NewSuccessResponse(okMessage("session removed"))
}

func SessionInfoCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		return c.SessionInfo(ctx)
	})
}

// DevicesCommand lists configured devices, with live state for started ones
func DevicesCommand() *CommandResponse {
	cfg := GetConfig()
	registry := GetRegistry()

	live := map[string]devices.DeviceInfo{}
	if registry != nil {
		registry.Each(func(d *devices.IOSDevice) {
			live[d.ID()] = d.Info()
		})
	}

	var list []devices.DeviceInfo
	for serial, d := range cfg.Devices {
		if info, ok := live[serial]; ok {
			list = append(list, info)
			continue
		}
		list = append(list, devices.DeviceInfo{
			ID:      serial,
			BaseURL: fmt.Sprintf("http://%s:%d", d.Host, d.Port),
		})
	}
	for serial, info := range live {
		if _, ok := cfg.Devices[serial]; !ok {
			list = append(list, info)
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return NewSuccessResponse(map[string]interface{}{"devices": list})
}

func okMessage(message string) map[string]string {
	return map[string]string{"message": message}
}
