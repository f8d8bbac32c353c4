package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbarrett/planwright/internal/cmd"
	"github.com/hbarrett/planwright/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	if errors.Is(err, errors.ErrCanceled) {
		os.Exit(130)
	}
	os.Exit(1)
}
