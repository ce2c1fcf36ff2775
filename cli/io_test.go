package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoords(t *testing.T) {
	coords, err := parseCoords("0.5, 0.25", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25}, coords)

	coords, err = parseCoords("0,1,1,0", 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 1, 0}, coords)

	_, err = parseCoords("0.5", 2)
	assert.Error(t, err)

	_, err = parseCoords("a,b", 2)
	assert.Error(t, err)
}

func TestRootRegistersCommands(t *testing.T) {
	for _, path := range [][]string{
		{"server", "start"},
		{"server", "kill"},
		{"session", "connect"},
		{"session", "remove"},
		{"session", "info"},
		{"io", "tap"},
		{"io", "swipe"},
		{"io", "text"},
		{"io", "key"},
		{"io", "power"},
		{"io", "rotate"},
		{"url"},
		{"screenshot"},
		{"dump"},
		{"battery"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
