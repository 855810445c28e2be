package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/cbtcompanion/internal/buildinfo"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/cli"
	"github.com/dmitrijs2005/cbtcompanion/internal/client/config"
	"github.com/dmitrijs2005/cbtcompanion/internal/logging"
)

func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid configuration: %v", r)
		}
	}()
	return config.LoadConfig(), nil
}

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	app, err := cli.NewApp(cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
