package cli

import (
	"fmt"

	"github.com/mobile-next/wdactl/daemon"
	"github.com/mobile-next/wdactl/server"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Server management commands",
	Long:  `Commands for managing the wdactl JSON-RPC server.`,
}

// listenAddr prefers the --listen flag over the [server] section
func listenAddr(cmd *cobra.Command) string {
	// GetString cannot fail for defined flags
	addr, _ := cmd.Flags().GetString("listen")
	if addr == "" {
		addr = loadedConfig.Server.Listen
	}
	return addr
}

var serverStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the wdactl server",
	Long:  `Starts the JSON-RPC server and the session keepalive.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *loadedConfig
		cfg.Server.Listen = listenAddr(cmd)

		// GetBool cannot fail for defined flags
		if cors, _ := cmd.Flags().GetBool("cors"); cors {
			cfg.Server.CORS = true
		}
		isDaemon, _ := cmd.Flags().GetBool("daemon")

		if isDaemon && !daemon.IsChild() {
			_, err := daemon.Daemonize()
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}

			fmt.Printf("Server daemon spawned, attempting to listen on %s\n", cfg.Server.Listen)
			return nil
		}

		return server.StartServer(cmd.Context(), &cfg)
	},
}

var serverKillCmd = &cobra.Command{
	Use:   "kill",
	Short: "Stop the daemonized wdactl server",
	Long:  `Connects to the server and sends a shutdown command via JSON-RPC.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := daemon.KillServer(listenAddr(cmd)); err != nil {
			return err
		}

		fmt.Printf("Server shutdown command sent successfully\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// add server subcommands
	serverCmd.AddCommand(serverStartCmd)
	serverCmd.AddCommand(serverKillCmd)

	// server start flags
	serverStartCmd.Flags().String("listen", "", "Address to listen on (e.g., 'localhost:12000' or '0.0.0.0:13000')")
	serverStartCmd.Flags().Bool("cors", false, "Enable CORS support")
	serverStartCmd.Flags().BoolP("daemon", "d", false, "Run server in daemon mode (background)")

	// server kill flags
	serverKillCmd.Flags().String("listen", "", "Address of server to kill (default from config)")
}
