package wda

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const (
	// touches released later than this become a touch-and-hold
	longPressThreshold = 1000 * time.Millisecond
	holdDuration       = 1
)

type TapParams struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type holdPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Duration float64 `json:"duration"`
}

// Tap arms a touch at normalized coordinates. Nothing is sent until
// TouchUp or DoubleClick.
func (c *WdaClient) Tap(params TapParams) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touch = touchIntent{
		x:         params.X,
		y:         params.Y,
		startedAt: c.now(),
		armed:     true,
	}
}

// touchPoint resolves the armed touch to pixels. ok is false when a swipe
// already consumed it.
func (c *WdaClient) touchPoint() (p point, startedAt time.Time, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.touch.moved {
		return point{}, time.Time{}, false, nil
	}
	if !c.touch.armed {
		return point{}, time.Time{}, false, ErrNoTouch
	}
	if c.deviceSize == nil {
		return point{}, time.Time{}, false, ErrDeviceSizeUnknown
	}

	p = point{
		X: c.touch.x * c.deviceSize.Width,
		Y: c.touch.y * c.deviceSize.Height,
	}
	return p, c.touch.startedAt, true, nil
}

// TouchUp releases the armed touch as a tap, or as a touch-and-hold when it
// was held longer than a second
func (c *WdaClient) TouchUp(ctx context.Context) error {
	p, startedAt, ok, err := c.touchPoint()
	if err != nil || !ok {
		return err
	}

	if c.now().Sub(startedAt) <= longPressThreshold {
		_, err = c.handleRequest(ctx, PendingRequest{
			Method: http.MethodPost,
			Path:   c.sessionPath("wda/tap/0"),
			Body:   p,
			JSON:   true,
		})
		if err != nil {
			return fmt.Errorf("failed to tap: %w", err)
		}
		return nil
	}

	_, err = c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("wda/touchAndHold"),
		Body:   holdPoint{X: p.X, Y: p.Y, Duration: holdDuration},
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to touch and hold: %w", err)
	}
	return nil
}

func (c *WdaClient) DoubleClick(ctx context.Context) error {
	p, _, ok, err := c.touchPoint()
	if err != nil || !ok {
		return err
	}

	_, err = c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("wda/doubleTap"),
		Body:   p,
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to double tap: %w", err)
	}
	return nil
}

// Swipe drags between normalized points using the current orientation.
// It cancels any armed tap.
func (c *WdaClient) Swipe(ctx context.Context, params SwipeParams) error {
	c.mu.Lock()
	c.touch.moved = true
	size := c.deviceSize
	orientation := c.orientation
	c.mu.Unlock()

	if size == nil {
		return ErrDeviceSizeUnknown
	}

	_, err := c.handleRequest(ctx, PendingRequest{
		Method: http.MethodPost,
		Path:   c.sessionPath("wda/dragfromtoforduration"),
		Body:   Transform(orientation, params, *size),
		JSON:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to swipe: %w", err)
	}
	return nil
}
