package wda

import (
	"context"
	"fmt"
	"net/http"
)

const (
	cameraBundleID = "com.apple.camera"
	muteSteps      = 25
)

// PressButton presses a hardware button by its WDA name
func (c *WdaClient) PressButton(ctx context.Context, name string) error {
	_, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("wda/pressButton"),
		Body: map[string]interface{}{
			"name": name,
		},
		JSON: true,
	})
	if err != nil {
		return fmt.Errorf("failed to press button %s: %w", name, err)
	}

	c.log.Debugf("pressed button: %s", name)
	return nil
}

func (c *WdaClient) AppActivate(ctx context.Context, bundleID string) error {
	_, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("wda/apps/activate"),
		Body: map[string]interface{}{
			"bundleId": bundleID,
		},
		JSON: true,
	})
	if err != nil {
		return fmt.Errorf("failed to activate %s: %w", bundleID, err)
	}
	return nil
}

func (c *WdaClient) Home(ctx context.Context) error {
	_, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   "wda/homescreen",
	})
	if err != nil {
		return fmt.Errorf("failed to go home: %w", err)
	}
	return nil
}

// PressPower locks an unlocked device and unlocks a locked one. The lock
// state may change between the read and the write.
func (c *WdaClient) PressPower(ctx context.Context) error {
	resp, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodGet,
		Path:   c.sessionPath("wda/locked"),
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to read lock state: %w", err)
	}

	var locked bool
	if err := resp.DecodeValue(&locked); err != nil {
		return fmt.Errorf("failed to read lock state: %w", err)
	}

	action := "wda/lock"
	if locked {
		action = "wda/unlock"
	}

	_, err = c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath(action),
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to toggle lock: %w", err)
	}
	return nil
}

// PressKey maps an abstract device key onto the matching WDA action
func (c *WdaClient) PressKey(ctx context.Context, key string) error {
	switch key {
	case "volume_up":
		return c.PressButton(ctx, "volumeup")
	case "volume_down":
		return c.PressButton(ctx, "volumedown")
	case "power":
		return c.PressPower(ctx)
	case "camera":
		return c.AppActivate(ctx, cameraBundleID)
	case "search":
		return c.AppActivate(ctx, safariBundleID)
	case "home":
		return c.Home(ctx)
	case "mute":
		for i := 0; i < muteSteps; i++ {
			if err := c.PressButton(ctx, "volumedown"); err != nil {
				return err
			}
		}
		return nil
	default:
		return c.PressButton(ctx, key)
	}
}
