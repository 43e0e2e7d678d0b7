package cmd

import (
	"fmt"

	"gyrinx-content/core/config"
	"gyrinx-content/core/database"
	"gyrinx-content/core/logger"
	"gyrinx-content/core/storage"
	"gyrinx-content/feature/content"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is what every command needs to talk to the content database.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	client  storage.Client
	service *content.Service
}

// setup loads configuration, builds the logger and connects to the database.
// Object storage is optional and only connected when configured.
func setup() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var client storage.Client
	if cfg.Storage.Enabled() {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	return &env{
		cfg:     cfg,
		logger:  l,
		db:      db,
		client:  client,
		service: content.NewService(db, client, cfg.Storage.Bucket, cfg.Content, l),
	}, nil
}
