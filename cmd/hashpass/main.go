// Command hashpass derives per-site passwords from a master key, a per-profile
// private key and a tag. Passwords are recomputed on demand and never stored.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stdTerminal(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
