package wda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	testSize   = Size{Width: 400, Height: 800}
	testParams = SwipeParams{FromX: 0.1, FromY: 0.2, ToX: 0.5, ToY: 0.75, Duration: 0.3}
)

func TestTransform_PortraitScalesDirectly(t *testing.T) {
	g := Transform(Portrait, testParams, testSize)

	assert.InDelta(t, 40.0, g.FromX, 1e-9)
	assert.InDelta(t, 160.0, g.FromY, 1e-9)
	assert.InDelta(t, 200.0, g.ToX, 1e-9)
	assert.InDelta(t, 600.0, g.ToY, 1e-9)
	assert.Equal(t, 0.3, g.Duration)
}

func TestTransform_LandscapeSwapsAxesAndEndpoints(t *testing.T) {
	g := Transform(Landscape, testParams, testSize)

	assert.InDelta(t, testParams.FromY*testSize.Width, g.ToX, 1e-9)
	assert.InDelta(t, testParams.FromX*testSize.Height, g.ToY, 1e-9)
	assert.InDelta(t, testParams.ToY*testSize.Width, g.FromX, 1e-9)
	assert.InDelta(t, testParams.ToX*testSize.Height, g.FromY, 1e-9)
	assert.Equal(t, testParams.Duration, g.Duration)
}

func TestTransform_OtherOrientationsFallBackToPortrait(t *testing.T) {
	portrait := Transform(Portrait, testParams, testSize)

	for _, o := range []Orientation{UpsideDown, LandscapeRight, "", "SIDEWAYS", "landscape"} {
		t.Run(string(o), func(t *testing.T) {
			assert.Equal(t, portrait, Transform(o, testParams, testSize))
		})
	}
}

func TestOrientationFromDegrees(t *testing.T) {
	tests := []struct {
		degrees  int
		expected Orientation
	}{
		{0, Portrait},
		{90, Landscape},
		{180, UpsideDown},
		{270, LandscapeRight},
	}

	for _, tt := range tests {
		o, err := OrientationFromDegrees(tt.degrees)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, o)
	}

	for _, degrees := range []int{45, -90, 360} {
		_, err := OrientationFromDegrees(degrees)
		assert.True(t, errors.Is(err, ErrUnknownOrientation), "degrees %d", degrees)
	}
}
