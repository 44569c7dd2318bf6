package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/finance-dashboard/monzo-mail/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
