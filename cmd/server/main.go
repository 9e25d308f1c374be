package main

import (
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/docretrieval/internal/api"
	"github.com/knowledge-engine/docretrieval/internal/config"
	"github.com/knowledge-engine/docretrieval/internal/engine"
)

func main() {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// 2. Logging
	logger := newLogger(cfg.Log)
	entry := logger.WithField("service", "docretrieval")
	entry.Info("Starting Document Retrieval Service")

	// 3. Engine
	eng, err := engine.NewEngine(cfg, entry.WithField("component", "engine"))
	if err != nil {
		entry.Fatalf("Failed to initialize engine: %v", err)
	}

	// 4. API Server
	server := api.NewServer(eng, entry.WithField("component", "api"))
	if err := server.Start(cfg.Server.Port, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout); err != nil {
		entry.Fatal(err)
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.WithField("level", cfg.Level).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
