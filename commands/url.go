package commands

import (
	"context"
	"fmt"

	"github.com/mobile-next/wdactl/devices/wda"
)

// URLRequest represents the parameters for a URL opening command
type URLRequest struct {
	DeviceID string `json:"deviceId"`
	URL      string `json:"url"`
}

// URLCommand opens a URL in a new Safari session
func URLCommand(ctx context.Context, req URLRequest) *CommandResponse {
	if req.URL == "" {
		return NewErrorResponse(fmt.Errorf("URL is required"))
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.OpenURL(ctx, req.URL); err != nil {
			return nil, fmt.Errorf("failed to open URL: %w", err)
		}
		return okMessage(fmt.Sprintf("opened %s", req.URL)), nil
	})
}
