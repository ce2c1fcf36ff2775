package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mobile-next/wdactl/utils"
)

// ScreenshotRequest represents the parameters for taking a screenshot
type ScreenshotRequest struct {
	DeviceID   string `json:"deviceId"`
	Format     string `json:"format,omitempty"`     // "png" or "jpeg"
	Quality    int    `json:"quality,omitempty"`    // 1-100, only used for JPEG
	OutputPath string `json:"outputPath,omitempty"` // file path, "-" for base64 data, or empty for default naming
}

// ScreenshotResponse represents the response for a screenshot command
type ScreenshotResponse struct {
	Format   string `json:"format"`
	Data     string `json:"data,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}

// ScreenshotCommand takes a screenshot of the specified device
func ScreenshotCommand(ctx context.Context, req ScreenshotRequest) *CommandResponse {
	if req.Format == "" {
		req.Format = "png"
	}

	req.Format = strings.ToLower(req.Format)
	if req.Format != "png" && req.Format != "jpeg" {
		return NewErrorResponse(fmt.Errorf("invalid format '%s'. Supported formats are 'png' and 'jpeg'", req.Format))
	}

	device, err := FindDevice(ctx, req.DeviceID)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error finding device: %w", err))
	}

	imageBytes, err := device.Client().Screenshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error taking screenshot: %w", err))
	}

	if req.Format == "jpeg" {
		imageBytes, err = utils.ConvertPngToJpeg(imageBytes, req.Quality)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("error converting to JPEG: %w", err))
		}
	}

	response := ScreenshotResponse{Format: req.Format}

	if req.OutputPath == "-" {
		response.Data = base64.StdEncoding.EncodeToString(imageBytes)
		return NewSuccessResponse(response)
	}

	finalPath := req.OutputPath
	if finalPath == "" {
		finalPath = defaultScreenshotName(device.ID(), req.Format, time.Now())
	}

	finalPath, err = filepath.Abs(finalPath)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("invalid output path: %w", err))
	}

	if err := os.WriteFile(finalPath, imageBytes, 0o600); err != nil {
		return NewErrorResponse(fmt.Errorf("error writing file: %w", err))
	}

	response.FilePath = finalPath
	return NewSuccessResponse(response)
}

func defaultScreenshotName(deviceID, format string, at time.Time) string {
	extension := "png"
	if format == "jpeg" {
		extension = "jpg"
	}

	safeDeviceID := strings.ReplaceAll(deviceID, ":", "_")
	return fmt.Sprintf("screenshot-%s-%s.%s", safeDeviceID, at.Format("20060102150405"), extension)
}
