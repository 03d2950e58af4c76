package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"monoenv.dev/cli/internal/interfaces/cli"
	"monoenv.dev/cli/internal/interfaces/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		container.Logger.Debug().Msg("Received shutdown signal, stopping pending writes")
		if err := container.Shutdown(context.Background()); err != nil {
			container.Logger.Error().Err(err).Msg("Error during shutdown")
		}
	}()

	cli.Execute(ctx, container.GetCLIContainer())
}
