package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mobile-next/wdactl/cli"
	"github.com/mobile-next/wdactl/devices"
)

func main() {
	hook := devices.NewShutdownHook()

	// setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run command in goroutine
	done := make(chan error, 1)
	go func() {
		done <- cli.Execute(ctx, hook)
	}()

	// wait for command completion or signal
	select {
	case <-ctx.Done():
		// remove sessions and stop port forwards on signal
		if err := hook.Shutdown(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(0)
	case err := <-done:
		// normal exit: sessions persist for the next invocation
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
