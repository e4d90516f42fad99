package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rpupo63/bloggie/config"
	"github.com/rpupo63/bloggie/errs"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// gormLogLevel maps DB_LOG_LEVEL onto gorm's levels. Unknown values mean warn.
func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// sqliteDSN turns on foreign keys, keeping any options already on the path.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// dialector picks the gorm driver for cfg.DBType.
func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case config.DBTypePostgres, config.DBTypeSupabase:
		return postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN(),
			PreferSimpleProtocol: true,
		}), nil
	case config.DBTypeSQLite:
		file, _, _ := strings.Cut(cfg.SQLitePath, "?")
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating sqlite directory: %w", err)
			}
		}
		return sqlite.Open(sqliteDSN(cfg.SQLitePath)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
}

// Open connects to the configured database and checks it answers.
// Read replicas, when configured, serve the queries while writes stay on the primary.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		&log.Logger,
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  gormLogLevel(cfg.DBLogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  cfg.IsDevelopment(),
		},
	)

	db, err := gorm.Open(dial, &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDatabaseConnection, err)
	}

	if len(cfg.ReplicaURLs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaURLs))
		for _, dsn := range cfg.ReplicaURLs {
			replicas = append(replicas, postgres.New(postgres.Config{
				DSN:                  strings.TrimSpace(dsn),
				PreferSimpleProtocol: true,
			}))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("registering read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	if err := Ping(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Ping runs a trivial query against db.
func Ping(db *gorm.DB) error {
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return fmt.Errorf("%w: %w", errs.ErrDatabaseConnection, err)
	}
	return nil
}
