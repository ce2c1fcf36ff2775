package cli

import (
	"github.com/mobile-next/wdactl/commands"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the UI tree of a device",
	Long:  `Dumps the visible, identifiable UI elements, or the whole source tree with --raw.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return respond(commands.DumpUICommand(cmd.Context(), commands.DumpUIRequest{
			DeviceID: deviceId,
			Raw:      dumpRaw,
		}))
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().BoolVar(&dumpRaw, "raw", false, "dump the raw source tree")
}
