package cli

import (
	"github.com/mobile-next/wdactl/commands"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "WebDriverAgent session commands",
}

var sessionConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to WebDriverAgent and adopt its session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.ConnectCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.RemoveSessionCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

var sessionInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the capabilities of the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.SessionInfoCommand(cmd.Context(), commands.DeviceRequest{DeviceID: deviceId}))
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.AddCommand(sessionConnectCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
	sessionCmd.AddCommand(sessionInfoCmd)
}
