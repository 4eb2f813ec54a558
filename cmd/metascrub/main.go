package main

import (
	"context"
	"log"

	"github.com/metascrub-app/core/internal/cli"
	"github.com/metascrub-app/core/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
