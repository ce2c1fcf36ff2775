package cli

import (
	"github.com/mobile-next/wdactl/commands"
	"github.com/spf13/cobra"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "Application commands",
}

var appsLaunchCmd = &cobra.Command{
	Use:   "launch [bundle id]",
	Short: "Bring an installed app to the foreground",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.LaunchAppCommand(cmd.Context(), commands.AppRequest{
			DeviceID: deviceId,
			BundleID: args[0],
		}))
	},
}

var appsForegroundCmd = &cobra.Command{
	Use:   "foreground",
	Short: "Show the foreground app",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.ForegroundAppCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

func init() {
	rootCmd.AddCommand(appsCmd)

	appsCmd.AddCommand(appsLaunchCmd)
	appsCmd.AddCommand(appsForegroundCmd)
}
