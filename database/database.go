package database

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/mager/melodiary/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProvideDatabase provides a postgres client. It returns a nil client when
// no usable DATABASE_URL is configured.
func ProvideDatabase(lc fx.Lifecycle, logger *zap.SugaredLogger, cfg config.Config, svc config.Services) (*sql.DB, error) {
	if !svc.Database.Usable() {
		logger.Warnw("postgres disabled", "status", svc.Database.String())
		return nil, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection", zap.Error(err))
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		logger.Error("Failed to ping database", zap.Error(err))
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	return db, nil
}

var Options = ProvideDatabase
