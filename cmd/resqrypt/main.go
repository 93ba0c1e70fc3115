package main

import (
	"context"
	"fmt"
	"os"

	"github.com/resqrypt/resqrypt/internal/cli"
	"github.com/resqrypt/resqrypt/internal/config"
	"github.com/resqrypt/resqrypt/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.NewTextLogger(os.Stderr, cfg.Verbose)
	app := cli.NewApp(cfg, log, os.Stderr)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
