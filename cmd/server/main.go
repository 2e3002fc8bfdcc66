package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeongseonghan/telecom-lab/internal/audio"
	"github.com/jeongseonghan/telecom-lab/internal/config"
	"github.com/jeongseonghan/telecom-lab/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Override server address")
	staticDir := flag.String("static-dir", "", "Override static file directory")
	listDevices := flag.Bool("list-devices", false, "List audio output devices and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}

	logger := newLogger(cfg.Logging)
	defer logger.Sync()

	if cfg.Audio.Enabled || *listDevices {
		if err := audio.Init(); err != nil {
			logger.Fatal("portaudio init", zap.Error(err))
		}
		defer audio.Terminate()
	}

	if *listDevices {
		if err := audio.PrintDevices(); err != nil {
			logger.Fatal("list devices", zap.Error(err))
		}
		return
	}

	handlers := server.NewHandlers(cfg, logger)
	srv := server.NewServer(cfg.Server.Addr, handlers, cfg.Server.StaticDir, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
