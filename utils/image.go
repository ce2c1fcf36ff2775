package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
)

const DefaultJpegQuality = 90

// ConvertPngToJpeg re-encodes a PNG screenshot. Out of range quality values
// fall back to DefaultJpegQuality.
func ConvertPngToJpeg(pngBytes []byte, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJpegQuality
	}

	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}

	var jpegBytes bytes.Buffer
	if err := jpeg.Encode(&jpegBytes, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return jpegBytes.Bytes(), nil
}
