package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/logging"
	"github.com/bctnry/arbor/pkg/server"
	"go.uber.org/zap"
)

// usage: arbor-server [config-file]
// the config file is created with the defaults when it doesn't exist.
const defaultConfigPath = "arbor.json"

func main() {
	configPath := defaultConfigPath
	if len(os.Args) > 1 { configPath = os.Args[1] }

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("Config file %s not found; creating one with the defaults.\n", configPath)
		err = arbor.CreateConfigFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create config file: %s\n", err)
			os.Exit(1)
		}
	}
	cfg, err := arbor.LoadConfigFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config file %s: %s\n", configPath, err)
		os.Exit(1)
	}
	err = server.InitLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %s\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err = server.Run(ctx, cfg)
	if err != nil {
		logging.Error("server stopped", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}
