package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mobile-next/wdactl/devices/wda"
	"github.com/mobile-next/wdactl/types"
)

// DumpUIRequest represents the parameters for dumping UI tree
type DumpUIRequest struct {
	DeviceID string `json:"deviceId"`
	Raw      bool   `json:"raw,omitempty"`
}

// DumpUIResponse holds either the visible elements or the raw source tree
type DumpUIResponse struct {
	Elements []types.ScreenElement `json:"elements,omitempty"`
	Source   json.RawMessage       `json:"source,omitempty"`
}

// DumpUICommand dumps the UI tree from the specified device
func DumpUICommand(ctx context.Context, req DumpUIRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if req.Raw {
			source, err := c.GetTreeElements(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to dump UI: %w", err)
			}
			return DumpUIResponse{Source: source}, nil
		}

		elements, err := c.GetSourceElements(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to dump UI: %w", err)
		}
		return DumpUIResponse{Elements: elements}, nil
	})
}
