package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"videotextcut/cmd/vtc/cmd"
	"videotextcut/internal/config"

	// Import providers to register them
	_ "videotextcut/internal/app/api/openai/whisper"
	_ "videotextcut/internal/app/api/whisper_cpp"
)

func main() {
	// .env is optional; variables already exported win
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(cmd.Execute(ctx))
}
