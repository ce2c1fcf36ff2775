package devices

// DeviceInfo represents the JSON-friendly device information
type DeviceInfo struct {
	ID         string `json:"id"`
	BaseURL    string `json:"baseUrl"`
	SessionID  string `json:"sessionId,omitempty"`
	Forwarded  bool   `json:"forwarded"`
	DevicePort int    `json:"devicePort,omitempty"`
}
