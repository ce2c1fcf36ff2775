package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mobile-next/wdactl/commands"
	"github.com/mobile-next/wdactl/config"
	"github.com/mobile-next/wdactl/devices"
	"github.com/mobile-next/wdactl/devices/notifier"
	"github.com/mobile-next/wdactl/devices/wda"
	"github.com/mobile-next/wdactl/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

var shutdownHook *devices.ShutdownHook

// groupNotifier is set when a hub is configured; its sends are flushed
// before the process exits
var groupNotifier *notifier.GroupNotifier

// loadedConfig is the configuration of the running command
var loadedConfig = config.Default()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "wdactl",
	Short: "Control iOS devices through WebDriverAgent",
	Long:  `Drives tethered iOS devices through WebDriverAgent sessions, recovering expired sessions on the fly.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup loads the config and wires the registry and notifier used by the
// command layer
func setup(cmd *cobra.Command, args []string) error {
	utils.SetVerbose(verbose)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loadedConfig = cfg

	registry, err := devices.NewDeviceRegistry(cfg.Server.CacheSize)
	if err != nil {
		return err
	}

	commands.Configure(cfg, registry, newNotifier(cfg.Notifier))
	if shutdownHook != nil {
		shutdownHook.Register("device registry", func() error {
			registry.CleanupAll()
			return nil
		})
	}
	return nil
}

// newNotifier pushes unavailability to the hub when one is configured and
// only logs it otherwise
func newNotifier(conf config.Notifier) wda.Notifier {
	if conf.HubURL == "" {
		return notifier.LogNotifier{}
	}

	pusher := notifier.NewWebsocketPusher(conf.HubURL)
	n := notifier.NewGroupNotifier(notifier.StaticGroup(conf.Group), pusher)
	if shutdownHook != nil {
		shutdownHook.Register("notifier", func() error {
			n.Wait()
			return pusher.Close()
		})
	}
	groupNotifier = n
	return n
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to an ini configuration file")
	rootCmd.PersistentFlags().StringVar(&deviceId, "device", "", "serial of the device to drive")
}

// Execute runs the root command. Cleanup functions are registered on hook.
func Execute(ctx context.Context, hook *devices.ShutdownHook) error {
	shutdownHook = hook
	err := rootCmd.ExecuteContext(ctx)
	if groupNotifier != nil {
		groupNotifier.Wait()
	}
	return err
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("failed to encode response: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}

// respond prints a command response and turns its failure into an error
func respond(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}
