// Package main is the entry point for the taskmcp CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskmcp/internal/cli"
)

func main() {
	// Cancel on interrupt so servers shut down cleanly
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := cli.New(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
