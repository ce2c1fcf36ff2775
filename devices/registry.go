package devices

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mobile-next/wdactl/utils"
)

// DeviceRegistry keeps the most recently used devices. Evicted devices are
// cleaned up so their sessions do not linger on WDA.
type DeviceRegistry struct {
	devices *lru.Cache[string, *IOSDevice]
}

// NewDeviceRegistry creates a new device registry instance
func NewDeviceRegistry(size int) (*DeviceRegistry, error) {
	cache, err := lru.NewWithEvict[string, *IOSDevice](size, func(udid string, device *IOSDevice) {
		if err := device.Cleanup(); err != nil {
			utils.Verbose("Error cleaning up device %s: %v", udid, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create device registry: %w", err)
	}

	return &DeviceRegistry{devices: cache}, nil
}

// Register adds a device, evicting the least recently used one when full
func (r *DeviceRegistry) Register(device *IOSDevice) {
	r.devices.Add(device.Udid, device)
}

func (r *DeviceRegistry) Get(udid string) (*IOSDevice, bool) {
	return r.devices.Get(udid)
}

func (r *DeviceRegistry) Remove(udid string) bool {
	return r.devices.Remove(udid)
}

func (r *DeviceRegistry) Len() int {
	return r.devices.Len()
}

// Each calls fn for every registered device without touching recency
func (r *DeviceRegistry) Each(fn func(*IOSDevice)) {
	for _, udid := range r.devices.Keys() {
		if device, ok := r.devices.Peek(udid); ok {
			fn(device)
		}
	}
}

// CleanupAll gracefully cleans up all registered devices
func (r *DeviceRegistry) CleanupAll() {
	r.devices.Purge()
}
