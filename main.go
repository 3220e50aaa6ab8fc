package main

import (
	"flag"
	"fmt"
	"os"

	app "github.com/rocketscienceinc/gomoku-backend/internal"
	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/logger"
)

// main runs the play server: WebSocket games against agents plus the REST API.
func main() {
	configPath := flag.String("config", "config.yml", "path to the config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(os.Stdout, conf.LogLevel)

	if err = app.RunApp(log, conf); err != nil {
		log.Error("app run failed", "error", err)
		os.Exit(1)
	}
}
