package config

import (
	"github.com/anonto42/quillpress/backend/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the database connection
type DB struct {
	Postgres *gorm.DB
}

// InitDB opens the PostgreSQL connection. Driver errors are translated so
// unique violations come back as gorm.ErrDuplicatedKey.
func InitDB(cfg *Config) (*DB, error) {
	if cfg.PostgresConnStr == "" {
		return nil, errors.New("POSTGRES_CONN_STR environment variable not set")
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Env == log.ProdEnv {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresConnStr), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to PostgreSQL")
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB from gorm")
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping PostgreSQL")
	}

	log.Log.Info("Successfully connected to PostgreSQL!")
	return &DB{Postgres: db}, nil
}

// CloseDB closes the database connection
func (db *DB) CloseDB() {
	if db.Postgres == nil {
		return
	}
	sqlDB, err := db.Postgres.DB()
	if err != nil {
		log.Log.WithError(err).Error("Error getting SQL DB from GORM")
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Log.WithError(err).Error("Error closing PostgreSQL connection")
		return
	}
	log.Log.Info("PostgreSQL connection closed.")
}
