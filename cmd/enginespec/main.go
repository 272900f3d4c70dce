// Package main provides the enginespec CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/leapstack-labs/enginespec/internal/cli"
	"github.com/leapstack-labs/enginespec/internal/cli/commands"
)

// Version information, set at build time with -ldflags "-X main.version=...".
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.Execute(ctx, commands.BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	})
	if err != nil {
		stop()
		os.Exit(1)
	}
}
