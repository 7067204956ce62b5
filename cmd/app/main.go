package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"orderbot/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatalf("orderbot: %v", err)
	}
}
