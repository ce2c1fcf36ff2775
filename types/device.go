package types

// BatteryState mirrors UIDeviceBatteryState as reported by WDA
type BatteryState int

const (
	BatteryStateUnknown BatteryState = iota
	BatteryStateUnplugged
	BatteryStateCharging
	BatteryStateFull
)

func (s BatteryState) String() string {
	switch s {
	case BatteryStateUnplugged:
		return "unplugged"
	case BatteryStateCharging:
		return "charging"
	case BatteryStateFull:
		return "full"
	default:
		return "unknown"
	}
}

// BatteryInfo holds the battery level (0..1) and charging state
type BatteryInfo struct {
	Level float64      `json:"level"`
	State BatteryState `json:"state"`
}

// Percent returns the battery level as a whole percentage
func (b BatteryInfo) Percent() int {
	return int(b.Level*100 + 0.5)
}
