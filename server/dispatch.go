package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mobile-next/wdactl/commands"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

type invalidParamsError struct {
	msg string
}

func (e *invalidParamsError) Error() string {
	return e.msg
}

// decodeParams requires params and decodes them into T
func decodeParams[T any](params json.RawMessage, fields string) (T, error) {
	var v T
	if len(params) == 0 {
		return v, &invalidParamsError{msg: fmt.Sprintf("'params' is required with fields: %s", fields)}
	}
	if err := json.Unmarshal(params, &v); err != nil {
		return v, &invalidParamsError{msg: fmt.Sprintf("invalid parameters: %v. Expected fields: %s", err, fields)}
	}
	return v, nil
}

// decodeOptionalParams is decodeParams for methods whose fields all have
// defaults, such as the auto-selected device
func decodeOptionalParams[T any](params json.RawMessage, fields string) (T, error) {
	if len(params) == 0 || string(params) == "null" {
		var v T
		return v, nil
	}
	return decodeParams[T](params, fields)
}

// command adapts a command function taking a request of type T
func command[T any](fields string, optional bool, fn func(context.Context, T) *commands.CommandResponse) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		decode := decodeParams[T]
		if optional {
			decode = decodeOptionalParams[T]
		}

		req, err := decode(params, fields)
		if err != nil {
			return nil, err
		}
		return commandResult(fn(ctx, req))
	}
}

// methodRegistry maps JSON-RPC method names to handlers. It is shared by
// /rpc and /ws.
func (s *Server) methodRegistry() map[string]HandlerFunc {
	const (
		deviceOnly = "deviceId"
		point      = "deviceId, x, y"
		swipe      = "deviceId, fromX, fromY, toX, toY, duration"
	)

	return map[string]HandlerFunc{
		"devices": func(ctx context.Context, params json.RawMessage) (interface{}, error) {
			return commandResult(commands.DevicesCommand())
		},
		"device.info":     command(deviceOnly, true, commands.InfoCommand),
		"session.connect": command(deviceOnly, true, commands.ConnectCommand),
		"session.remove":  command(deviceOnly, true, commands.RemoveSessionCommand),
		"session.info":    command(deviceOnly, true, commands.SessionInfoCommand),
		"io.tap":          command(point, false, commands.TapCommand),
		"io.click":        command(point, false, commands.ClickCommand),
		"io.touchUp":      command(deviceOnly, true, commands.TouchUpCommand),
		"io.doubleClick":  command(deviceOnly, true, commands.DoubleClickCommand),
		"io.swipe":        command(swipe, false, commands.SwipeCommand),
		"io.rotation":     command("deviceId, degrees", false, commands.RotateCommand),
		"io.orientation":  command(deviceOnly, true, commands.OrientationCommand),
		"io.text":         command("deviceId, text", false, commands.TextCommand),
		"io.typeKey":      command("deviceId, key", false, commands.TypeKeyCommand),
		"io.key":          command("deviceId, key", false, commands.KeyCommand),
		"io.pressPower":   command(deviceOnly, true, commands.PowerCommand),
		"io.home":         command(deviceOnly, true, commands.HomeCommand),
		"apps.launch":     command("deviceId, bundleId", false, commands.LaunchAppCommand),
		"apps.foreground": command(deviceOnly, true, commands.ForegroundAppCommand),
		"url.open":        command("deviceId, url", false, commands.URLCommand),
		"element.tap":     command("deviceId, label", false, commands.ElementTapCommand),
		"screenshot":      handleScreenshot,
		"source":          command("deviceId, raw", true, commands.DumpUICommand),
		"battery":         command(deviceOnly, true, commands.BatteryCommand),
		"server.shutdown": s.handleShutdown,
	}
}

// ScreenshotParams represents the parameters for the screenshot request
type ScreenshotParams struct {
	DeviceID string `json:"deviceId"`
	Format   string `json:"format,omitempty"`  // "png" or "jpeg"
	Quality  int    `json:"quality,omitempty"` // 1-100, only used for JPEG
}

func handleScreenshot(ctx context.Context, params json.RawMessage) (interface{}, error) {
	screenshotParams, err := decodeOptionalParams[ScreenshotParams](params, "deviceId, format, quality")
	if err != nil {
		return nil, err
	}

	response := commands.ScreenshotCommand(ctx, commands.ScreenshotRequest{
		DeviceID:   screenshotParams.DeviceID,
		Format:     screenshotParams.Format,
		Quality:    screenshotParams.Quality,
		OutputPath: "-", // always return base64 data for server
	})
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}

	if screenshotResp, ok := response.Data.(commands.ScreenshotResponse); ok {
		return map[string]interface{}{
			"format": screenshotResp.Format,
			"data":   fmt.Sprintf("data:image/%s;base64,%s", screenshotResp.Format, screenshotResp.Data),
		}, nil
	}

	return nil, fmt.Errorf("unexpected response format")
}

func (s *Server) handleShutdown(ctx context.Context, params json.RawMessage) (interface{}, error) {
	s.log.Info("shutdown requested")
	s.Stop()
	return okResponse, nil
}
