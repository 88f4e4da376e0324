package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

// Migrations provides the schema capability by applying the SQL migrations
// found in DB_MIGRATIONS.
type Migrations struct {
	host    module.Host
	applied bool
	version uint
}

// NewMigrations returns the schema module.
func NewMigrations(host module.Host) *Migrations {
	return &Migrations{host: host}
}

func (m *Migrations) Provides() []module.Capability { return []module.Capability{module.CapSchema} }
func (m *Migrations) Depends() []module.Capability {
	return []module.Capability{module.CapConfig, module.CapDatabase}
}

// Init runs pending up migrations. Without DB_MIGRATIONS, or on a driver
// golang-migrate is not wired for, it does nothing.
func (m *Migrations) Init(_ context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	dbModule, err := module.Lookup[*Module](m.host, module.CapDatabase)
	if err != nil {
		return err
	}
	cfg := cfgModule.Config().Database
	logger := m.host.Logger()

	if cfg.Migrations == "" {
		logger.Debug("no migrations configured")
		return nil
	}
	if dbModule.Driver() != config.DriverMySQL {
		logger.Warn("migrations skipped: driver not supported", "driver", dbModule.Driver(), "dir", cfg.Migrations)
		return nil
	}

	src, err := iofs.New(os.DirFS(cfg.Migrations), ".")
	if err != nil {
		return fmt.Errorf("open migrations %s: %w", cfg.Migrations, err)
	}
	sqlDB, err := dbModule.DB().DB()
	if err != nil {
		return fmt.Errorf("get DB instance: %w", err)
	}
	driver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	if err != nil {
		return fmt.Errorf("migrate driver: %w", err)
	}
	mg, err := migrate.NewWithInstance("iofs", src, config.DriverMySQL, driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrate version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migrate: schema version %d is dirty", version)
	}
	m.applied = true
	m.version = version
	logger.Info("schema up to date", "version", version)
	return nil
}

// Version returns the schema version after Init and whether migrations ran.
func (m *Migrations) Version() (uint, bool) {
	return m.version, m.applied
}
