package cli

import (
	"github.com/mobile-next/wdactl/commands"
	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url [url]",
	Short: "Open a URL on a device",
	Long:  `Opens a URL in Safari on the specified device`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.URLCommand(cmd.Context(), commands.URLRequest{
			DeviceID: deviceId,
			URL:      args[0],
		}))
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
}
