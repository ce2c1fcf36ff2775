package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mobile-next/wdactl/config"
	"github.com/mobile-next/wdactl/devices"
	"github.com/mobile-next/wdactl/devices/notifier"
	"github.com/mobile-next/wdactl/devices/wda"
)

// DefaultDeviceID names the device built from the [wda] defaults when no
// device is configured
const DefaultDeviceID = "default"

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// DeviceRequest is the request shape of commands that only need a device
type DeviceRequest struct {
	DeviceID string `json:"deviceId"`
}

var (
	mu             sync.Mutex
	conf           = config.Default()
	deviceRegistry *devices.DeviceRegistry
	deviceNotifier wda.Notifier = notifier.LogNotifier{}
	starting       = map[string]*pendingStart{}
)

// pendingStart is a device whose agent is still starting. Callers asking
// for the same serial wait on done instead of starting it twice.
type pendingStart struct {
	done   chan struct{}
	device *devices.IOSDevice
	err    error
}

// Configure sets the config, registry and notifier used by every command.
// It is called once at startup.
func Configure(cfg *config.Config, registry *devices.DeviceRegistry, n wda.Notifier) {
	mu.Lock()
	defer mu.Unlock()

	conf = cfg
	deviceRegistry = registry
	if n != nil {
		deviceNotifier = n
	}
}

// GetRegistry returns the current device registry, nil before Configure
func GetRegistry() *devices.DeviceRegistry {
	mu.Lock()
	defer mu.Unlock()
	return deviceRegistry
}

func GetConfig() *config.Config {
	mu.Lock()
	defer mu.Unlock()
	return conf
}

// FindDevice returns the registered device or starts a new one from config.
// mu guards the lookup and the pending map; StartAgent runs without it.
func FindDevice(ctx context.Context, deviceID string) (*devices.IOSDevice, error) {
	mu.Lock()
	if deviceRegistry == nil {
		mu.Unlock()
		return nil, fmt.Errorf("device registry is not configured")
	}

	deviceID, err := resolveDeviceID(deviceID)
	if err != nil {
		mu.Unlock()
		return nil, err
	}

	if device, ok := deviceRegistry.Get(deviceID); ok {
		mu.Unlock()
		return device, nil
	}

	if pending, ok := starting[deviceID]; ok {
		mu.Unlock()
		select {
		case <-pending.done:
			return pending.device, pending.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	pending := &pendingStart{done: make(chan struct{})}
	starting[deviceID] = pending
	registry := deviceRegistry
	device := devices.NewIOSDevice(conf.Device(deviceID), conf.WDA, deviceNotifier)
	mu.Unlock()

	defer close(pending.done)

	if err := device.StartAgent(ctx); err != nil {
		pending.err = err
	} else {
		// registered before the pending entry goes so no caller starts it again
		registry.Register(device)
		pending.device = device
	}

	mu.Lock()
	delete(starting, deviceID)
	mu.Unlock()

	return pending.device, pending.err
}

// resolveDeviceID auto-selects when exactly one device is configured
func resolveDeviceID(deviceID string) (string, error) {
	if deviceID != "" {
		return deviceID, nil
	}

	switch len(conf.Devices) {
	case 0:
		return DefaultDeviceID, nil
	case 1:
		for serial := range conf.Devices {
			return serial, nil
		}
	}

	return "", fmt.Errorf("multiple devices configured (%d), please specify --device with one of: %s", len(conf.Devices), getDeviceIDList())
}

// getDeviceIDList returns a comma-separated list of device IDs for error messages
func getDeviceIDList() string {
	var ids []string
	for serial := range conf.Devices {
		ids = append(ids, serial)
	}
	return fmt.Sprintf("[%s]", strings.Join(ids, ", "))
}

// withClient finds the device and runs fn against its client
func withClient(ctx context.Context, deviceID string, fn func(wda.Actions) (interface{}, error)) *CommandResponse {
	device, err := FindDevice(ctx, deviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %w", err))
	}

	data, err := fn(device.Client())
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(data)
}
