package wda

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mobile-next/wdactl/types"
)

func (c *WdaClient) BatteryInfo(ctx context.Context) (*types.BatteryInfo, error) {
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   c.sessionPath("wda/batteryInfo"),
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get battery info: %w", err)
	}

	var info types.BatteryInfo
	if err := resp.DecodeValue(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
