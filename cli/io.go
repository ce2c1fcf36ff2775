package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mobile-next/wdactl/commands"
	"github.com/spf13/cobra"
)

var swipeDuration float64

var ioCmd = &cobra.Command{
	Use:   "io",
	Short: "Input/output operations with devices",
	Long:  `Perform input/output operations like tapping, pressing buttons, and sending text to devices.`,
}

// parseCoords parses "a,b,..." into exactly n normalized floats
func parseCoords(value string, n int) ([]float64, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("invalid coordinate format. Expected %d comma separated values, got '%s'", n, value)
	}

	coords := make([]float64, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate value '%s'", part)
		}
		coords[i] = v
	}
	return coords, nil
}

var ioTapCmd = &cobra.Command{
	Use:   "tap [x,y]",
	Short: "Tap on a device screen at the given coordinates",
	Long:  `Taps at x,y given as fractions of the screen, e.g. "0.5,0.5" for the center.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseCoords(args[0], 2)
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}

		return respond(commands.ClickCommand(cmd.Context(), commands.TapRequest{
			DeviceID: deviceId,
			X:        coords[0],
			Y:        coords[1],
		}))
	},
}

var ioDoubleTapCmd = &cobra.Command{
	Use:   "doubletap [x,y]",
	Short: "Double tap on a device screen at the given coordinates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseCoords(args[0], 2)
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}

		response := commands.TapCommand(cmd.Context(), commands.TapRequest{DeviceID: deviceId, X: coords[0], Y: coords[1]})
		if response.Status == "error" {
			return respond(response)
		}
		return respond(commands.DoubleClickCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

var ioSwipeCmd = &cobra.Command{
	Use:   "swipe [x1,y1,x2,y2]",
	Short: "Swipe on a device screen from one point to another",
	Long:  `Drags from x1,y1 to x2,y2, all given as fractions of the screen.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseCoords(args[0], 4)
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}

		return respond(commands.SwipeCommand(cmd.Context(), commands.SwipeRequest{
			DeviceID: deviceId,
			FromX:    coords[0],
			FromY:    coords[1],
			ToX:      coords[2],
			ToY:      coords[3],
			Duration: swipeDuration,
		}))
	},
}

var ioTextCmd = &cobra.Command{
	Use:   "text [text]",
	Short: "Send text input to a device",
	Long:  `Sends text input to the currently focused element on the specified device.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.TextCommand(cmd.Context(), commands.TextRequest{
			DeviceID: deviceId,
			Text:     args[0],
		}))
	},
}

var ioKeyCmd = &cobra.Command{
	Use:   "key [key]",
	Short: "Press a key on a device",
	Long:  `Types enter or del, or presses a device key: volume_up, volume_down, power, camera, search, home or mute. Other names are sent as WDA button names.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.TypeKeyCommand(cmd.Context(), commands.KeyRequest{
			DeviceID: deviceId,
			Key:      args[0],
		}))
	},
}

var ioPowerCmd = &cobra.Command{
	Use:   "power",
	Short: "Lock or unlock the device screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.PowerCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

var ioHomeCmd = &cobra.Command{
	Use:   "home",
	Short: "Go to the home screen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.HomeCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

var ioRotateCmd = &cobra.Command{
	Use:   "rotate [degrees]",
	Short: "Rotate the device to 0, 90, 180 or 270 degrees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		degrees, err := strconv.Atoi(args[0])
		if err != nil {
			return respond(commands.NewErrorResponse(fmt.Errorf("invalid degrees '%s'", args[0])))
		}

		return respond(commands.RotateCommand(cmd.Context(), commands.RotateRequest{
			DeviceID: deviceId,
			Degrees:  degrees,
		}))
	},
}

var ioOrientationCmd = &cobra.Command{
	Use:   "orientation",
	Short: "Show the current device orientation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.OrientationCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

var ioElementCmd = &cobra.Command{
	Use:   "element [label]",
	Short: "Tap the first element with the given label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.ElementTapCommand(cmd.Context(), commands.ElementRequest{
			DeviceID: deviceId,
			Label:    args[0],
		}))
	},
}

func init() {
	rootCmd.AddCommand(ioCmd)

	// add io subcommands
	ioCmd.AddCommand(ioTapCmd)
	ioCmd.AddCommand(ioDoubleTapCmd)
	ioCmd.AddCommand(ioSwipeCmd)
	ioCmd.AddCommand(ioTextCmd)
	ioCmd.AddCommand(ioKeyCmd)
	ioCmd.AddCommand(ioPowerCmd)
	ioCmd.AddCommand(ioHomeCmd)
	ioCmd.AddCommand(ioRotateCmd)
	ioCmd.AddCommand(ioOrientationCmd)
	ioCmd.AddCommand(ioElementCmd)

	ioSwipeCmd.Flags().Float64Var(&swipeDuration, "duration", 0, "swipe duration in seconds")
}
