package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mahiofficial1332/Em-like-bot/internal/app/botapp"
	"github.com/mahiofficial1332/Em-like-bot/internal/app/opsapp"
	"github.com/mahiofficial1332/Em-like-bot/internal/config"
	"github.com/mahiofficial1332/Em-like-bot/internal/infra/logger"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.Bot.Token == "" {
		log.Fatal("bot token is not set; provide bot.token in the config file or BOT_TOKEN in the environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := botapp.New(cfg, log)
	if err != nil {
		log.Fatal("create bot app", zap.Error(err))
	}

	ops := opsapp.New(cfg.Ops, app.Store(), log)
	go func() {
		if err := ops.Run(ctx); err != nil {
			log.Error("ops server failed", zap.Error(err))
		}
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal("bot app failed", zap.Error(err))
	}
}
