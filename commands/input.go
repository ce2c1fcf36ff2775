package commands

import (
	"context"
	"fmt"

	"github.com/mobile-next/wdactl/devices/wda"
)

// TapRequest represents the parameters for a tap command. Coordinates are
// normalized to the 0..1 range.
type TapRequest struct {
	DeviceID string  `json:"deviceId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// SwipeRequest represents the parameters for a swipe command
type SwipeRequest struct {
	DeviceID string  `json:"deviceId"`
	FromX    float64 `json:"fromX"`
	FromY    float64 `json:"fromY"`
	ToX      float64 `json:"toX"`
	ToY      float64 `json:"toY"`
	Duration float64 `json:"duration"`
}

// TextRequest represents the parameters for a text input command
type TextRequest struct {
	DeviceID string `json:"deviceId"`
	Text     string `json:"text"`
}

// KeyRequest represents the parameters for a key press command
type KeyRequest struct {
	DeviceID string `json:"deviceId"`
	Key      string `json:"key"`
}

// ElementRequest represents the parameters for tapping an element by label
type ElementRequest struct {
	DeviceID string `json:"deviceId"`
	Label    string `json:"label"`
}

func validNormalized(values ...float64) error {
	for _, v := range values {
		if v < 0 || v > 1 {
			return fmt.Errorf("coordinates must be within [0,1], got %g", v)
		}
	}
	return nil
}

// TapCommand arms a touch. It is sent on the following touchUp or doubleClick.
func TapCommand(ctx context.Context, req TapRequest) *CommandResponse {
	if err := validNormalized(req.X, req.Y); err != nil {
		return NewErrorResponse(err)
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		c.Tap(wda.TapParams{X: req.X, Y: req.Y})
		return okMessage(fmt.Sprintf("touch armed at (%g,%g)", req.X, req.Y)), nil
	})
}

func TouchUpCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.TouchUp(ctx); err != nil {
			return nil, fmt.Errorf("failed to release touch: %w", err)
		}
		return okMessage("touch released"), nil
	})
}

func DoubleClickCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.DoubleClick(ctx); err != nil {
			return nil, fmt.Errorf("failed to double tap: %w", err)
		}
		return okMessage("double tapped"), nil
	})
}

// ClickCommand is tap followed by touchUp
func ClickCommand(ctx context.Context, req TapRequest) *CommandResponse {
	if err := validNormalized(req.X, req.Y); err != nil {
		return NewErrorResponse(err)
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		c.Tap(wda.TapParams{X: req.X, Y: req.Y})
		if err := c.TouchUp(ctx); err != nil {
			return nil, fmt.Errorf("failed to tap: %w", err)
		}
		return okMessage(fmt.Sprintf("tapped at (%g,%g)", req.X, req.Y)), nil
	})
}

func SwipeCommand(ctx context.Context, req SwipeRequest) *CommandResponse {
	if err := validNormalized(req.FromX, req.FromY, req.ToX, req.ToY); err != nil {
		return NewErrorResponse(err)
	}
	if req.Duration < 0 {
		return NewErrorResponse(fmt.Errorf("duration must be non-negative, got %g", req.Duration))
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		err := c.Swipe(ctx, wda.SwipeParams{
			FromX:    req.FromX,
			FromY:    req.FromY,
			ToX:      req.ToX,
			ToY:      req.ToY,
			Duration: req.Duration,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to swipe: %w", err)
		}
		return okMessage("swiped"), nil
	})
}

// TextCommand types text, one entry per character
func TextCommand(ctx context.Context, req TextRequest) *CommandResponse {
	if req.Text == "" {
		return NewErrorResponse(fmt.Errorf("text is required"))
	}

	var value []string
	for _, r := range req.Text {
		value = append(value, string(r))
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.TypeKey(ctx, wda.KeysParams{Value: value}); err != nil {
			return nil, err
		}
		return okMessage(fmt.Sprintf("typed %d characters", len(value))), nil
	})
}

// TypeKeyCommand types an abstract key such as enter or del. Keys with no
// text form are pressed as device keys instead.
func TypeKeyCommand(ctx context.Context, req KeyRequest) *CommandResponse {
	if req.Key == "" {
		return NewErrorResponse(fmt.Errorf("key is required"))
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		text, ok := wda.KeyToText(req.Key)
		if !ok {
			if err := c.PressKey(ctx, req.Key); err != nil {
				return nil, err
			}
			return okMessage(fmt.Sprintf("pressed %s", req.Key)), nil
		}

		if err := c.TypeKey(ctx, wda.KeysParams{Value: []string{text}}); err != nil {
			return nil, err
		}
		return okMessage(fmt.Sprintf("typed %s", req.Key)), nil
	})
}

// KeyCommand presses a device key such as volume_up, camera or mute
func KeyCommand(ctx context.Context, req KeyRequest) *CommandResponse {
	if req.Key == "" {
		return NewErrorResponse(fmt.Errorf("key is required"))
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.PressKey(ctx, req.Key); err != nil {
			return nil, fmt.Errorf("failed to press %s: %w", req.Key, err)
		}
		return okMessage(fmt.Sprintf("pressed %s", req.Key)), nil
	})
}

// PowerCommand toggles the screen lock
func PowerCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.PressPower(ctx); err != nil {
			return nil, err
		}
		return okMessage("power pressed"), nil
	})
}

func HomeCommand(ctx context.Context, req DeviceRequest) *CommandResponse {
	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.Home(ctx); err != nil {
			return nil, err
		}
		return okMessage("home pressed"), nil
	})
}

func ElementTapCommand(ctx context.Context, req ElementRequest) *CommandResponse {
	if req.Label == "" {
		return NewErrorResponse(fmt.Errorf("label is required"))
	}

	return withClient(ctx, req.DeviceID, func(c wda.Actions) (interface{}, error) {
		if err := c.TapDeviceTreeElement(ctx, req.Label); err != nil {
			return nil, err
		}
		return okMessage(fmt.Sprintf("tapped element %q", req.Label)), nil
	})
}
