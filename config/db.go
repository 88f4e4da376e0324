package config

import (
	"fmt"
)

// Database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Database configures the gorm connection.
type Database struct {
	Driver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN        string `env:"MYSQL_DSN"`
	User       string `env:"MYSQL_USER"`
	Pass       string `env:"MYSQL_PASS"`
	Host       string `env:"MYSQL_HOST" envDefault:"localhost"`
	Port       string `env:"MYSQL_PORT" envDefault:"3306"`
	Name       string `env:"MYSQL_DB"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"site.db"`
	LogMode    string `env:"GORM_LOG"`
	Migrations string `env:"DB_MIGRATIONS"`
}

// MySQLDSN returns MYSQL_DSN, or builds one from the individual MYSQL_* values.
func (d Database) MySQLDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Silent reports whether SQL logging is turned off.
func (d Database) Silent() bool {
	return d.LogMode == "off"
}
