// Package db provides the database, schema and status modules backed by gorm.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

// Module provides the database capability.
type Module struct {
	host   module.Host
	driver string
	db     *gorm.DB
}

// New returns an unopened database module.
func New(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapDatabase} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapConfig} }

// Init opens the configured database and checks the connection.
func (m *Module) Init(ctx context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	cfg := cfgModule.Config().Database

	db, err := Open(cfg, m.host)
	if err != nil {
		return err
	}
	if err := ping(ctx, db); err != nil {
		return err
	}
	m.db = db
	m.driver = cfg.Driver
	m.host.Logger().Info("database connection successful", "driver", cfg.Driver)
	return nil
}

// ping checks the connection and closes the pool when it fails.
func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get DB instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("database connection failed: %w", err)
	}
	return nil
}

// DB returns the gorm handle. It is nil before Init.
func (m *Module) DB() *gorm.DB {
	return m.db
}

// Driver returns the configured driver name.
func (m *Module) Driver() string {
	return m.driver
}

// Close closes the underlying connection pool.
func (m *Module) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Open connects gorm to the configured driver. SQL is logged through the
// host logger unless GORM_LOG=off.
func Open(cfg config.Database, host module.Host) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.MySQLDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	logMode := logger.Info
	if cfg.Silent() {
		logMode = logger.Silent
	}
	gormLogger := logger.New(
		host.Logger().WithPrefix("gorm"),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logMode,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return db, nil
}
