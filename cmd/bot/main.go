// ====================================
// File: cmd/bot/main.go
// ====================================
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/bot"
	"github.com/timurkhasanov/solana-bundler/internal/config"
	"github.com/timurkhasanov/solana-bundler/internal/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Development = cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("starting bundler", zap.String("config", configPath))

	runner := bot.NewRunner(log.Logger)
	if err := runner.Initialize(cfg); err != nil {
		log.Fatal("failed to initialize", zap.Error(err))
	}

	if err := runner.Run(ctx); err != nil {
		log.Fatal("execution error", zap.Error(err))
	}
}
