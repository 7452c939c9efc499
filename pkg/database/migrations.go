package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for golang-migrate
	"go.uber.org/zap"
)

// Migrate brings the schema up to date before the engine starts serving.
// golang-migrate drives a database/sql connection, so this opens its own
// short-lived handle instead of borrowing the pgx pool. Calling it against
// an up-to-date schema is a no-op.
func Migrate(connStr, migrationsPath string, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to load migrations from %s: %w", migrationsPath, err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("Migrator did not close cleanly",
				zap.NamedError("source_err", srcErr),
				zap.NamedError("database_err", dbErr),
			)
		}
	}()

	switch upErr := m.Up(); {
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.Info("Database schema already up to date")
	case upErr != nil:
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	default:
		version, dirty, _ := m.Version()
		logger.Info("Database schema migrated",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	}
	return nil
}
