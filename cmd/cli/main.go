package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/escrowdeck/internal/buildinfo"
	"github.com/dmitrijs2005/escrowdeck/internal/client/cli"
	"github.com/dmitrijs2005/escrowdeck/internal/client/config"
)

func main() {
	// A missing .env file is fine; configuration falls back to defaults,
	// JSON, environment and flags.
	_ = godotenv.Load()

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
