package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"yatube/config"
	"yatube/internal/app"
	"yatube/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("load .env: " + err.Error())
	}

	cfg := config.LoadConfig()

	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	log = log.With("service", "yatube")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Error("init app", "error", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("run app", "error", err)
		os.Exit(1)
	}
}
