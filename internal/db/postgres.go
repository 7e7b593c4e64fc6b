package db

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/storefront/merchant-admin/internal/config"
	"github.com/storefront/merchant-admin/internal/repository/dao"
)

var ErrNotConfigured = errors.New("postgres is not configured")

// Open prefers url when set, then falls back to conf. It returns
// ErrNotConfigured when neither names a server.
func Open(url string, conf *config.PostgresConfig) (*gorm.DB, error) {
	if url != "" {
		return OpenPostgresWithURL(url)
	}
	if conf == nil || conf.Host == "" {
		return nil, ErrNotConfigured
	}

	return OpenPostgres(conf)
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	if conf == nil {
		return nil, fmt.Errorf("postgres config is missing")
	}

	return OpenPostgresWithURL(conf.DSN())
}

// OpenPostgresWithURL connects with a DSN or a postgres:// URL and
// migrates the employee tables.
func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open -> %w", err)
	}

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	zap.L().Info("connected to postgres")

	return db, nil
}
