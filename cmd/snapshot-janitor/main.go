// snapshot-janitor frees disk space on camera recording volumes.
//
// When free space on the configured drive is at or below the threshold, it
// keeps the newest date folders of every root/client/camera directory,
// deletes the older ones and posts a Slack message.
//
// Usage:
//
//	# Check and clean using ./config.yaml
//	snapshot-janitor
//
//	# Only report free space
//	snapshot-janitor check --config /etc/snapshot-janitor.yaml
//
//	# Show what would be deleted
//	snapshot-janitor plan
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Fprintln(os.Stderr, "shutting down...")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
