package wda

import "fmt"

type Orientation string

const (
	Portrait       Orientation = "PORTRAIT"
	Landscape      Orientation = "LANDSCAPE"
	UpsideDown     Orientation = "UIA_DEVICE_ORIENTATION_PORTRAIT_UPSIDEDOWN"
	LandscapeRight Orientation = "UIA_DEVICE_ORIENTATION_LANDSCAPERIGHT"
)

// OrientationFromDegrees maps a rotation in degrees onto a WDA orientation
func OrientationFromDegrees(degrees int) (Orientation, error) {
	switch degrees {
	case 0:
		return Portrait, nil
	case 90:
		return Landscape, nil
	case 180:
		return UpsideDown, nil
	case 270:
		return LandscapeRight, nil
	default:
		return "", fmt.Errorf("%w: %d degrees", ErrUnknownOrientation, degrees)
	}
}

// SwipeParams holds a drag in normalized (0..1) screen coordinates
type SwipeParams struct {
	FromX    float64 `json:"fromX"`
	FromY    float64 `json:"fromY"`
	ToX      float64 `json:"toX"`
	ToY      float64 `json:"toY"`
	Duration float64 `json:"duration"`
}

// Gesture is a drag in device pixels, as posted to dragfromtoforduration
type Gesture struct {
	FromX    float64 `json:"fromX"`
	FromY    float64 `json:"fromY"`
	ToX      float64 `json:"toX"`
	ToY      float64 `json:"toY"`
	Duration float64 `json:"duration"`
}

// Transform scales p to pixels of size. Landscape swaps the axes and the
// drag endpoints; every other orientation, known or not, scales directly.
func Transform(orientation Orientation, p SwipeParams, size Size) Gesture {
	if orientation == Landscape {
		return Gesture{
			FromX:    p.ToY * size.Width,
			FromY:    p.ToX * size.Height,
			ToX:      p.FromY * size.Width,
			ToY:      p.FromX * size.Height,
			Duration: p.Duration,
		}
	}

	return Gesture{
		FromX:    p.FromX * size.Width,
		FromY:    p.FromY * size.Height,
		ToX:      p.ToX * size.Width,
		ToY:      p.ToY * size.Height,
		Duration: p.Duration,
	}
}
