package cli

import (
	"github.com/mobile-next/wdactl/commands"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List configured devices",
	Long:  `Lists the devices of the configuration file, with session details for the ones already started.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.DevicesCommand())
	},
}

var deviceInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Get device info",
	Long:  `Shows the agent address, session, orientation and screen size of a device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.InfoCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

var batteryCmd = &cobra.Command{
	Use:   "battery",
	Short: "Show the battery level and state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.BatteryCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(deviceInfoCmd)
	rootCmd.AddCommand(batteryCmd)
}
