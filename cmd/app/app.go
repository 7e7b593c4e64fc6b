package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/storefront/merchant-admin/internal/api"
	"github.com/storefront/merchant-admin/internal/config"
	"github.com/storefront/merchant-admin/internal/db"
	"github.com/storefront/merchant-admin/internal/logger"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment, conf.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	config.Watch(configPath, func(e fsnotify.Event) {
		zap.L().Warn("config file changed, restart to apply", zap.String("file", e.Name))
	})

	postgresDB, err := db.Open(os.Getenv("DATABASE_URL"), conf.Postgres)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		zap.L().Info("postgres not configured, employee routes disabled")
	case err != nil:
		zap.L().Warn("postgres unavailable, employee routes disabled", zap.Error(err))
	}

	s, err := api.NewServer(conf, postgresDB)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
