package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/moduletest"
)

func TestNewFromFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.env")
	if err := os.WriteFile(path, []byte("SITE_TEST_FROM_FILE=yes\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	host := moduletest.NewHost(t)
	m := NewFromFiles(path)(host)
	host.Add("config", m)

	if v, ok := m.Get("SITE_TEST_FROM_FILE"); !ok || v != "yes" {
		t.Errorf("SITE_TEST_FROM_FILE = %q, %v", v, ok)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AppName != "site" {
		t.Errorf("AppName = %q, want site", cfg.AppName)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.HTTP.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %s, want 24h", cfg.Session.TTL)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled without REDIS_ADDR")
	}
}

func TestParse_Values(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"APP_NAME":                "shop",
		"DB_DRIVER":               "mysql",
		"MYSQL_USER":              "u",
		"MYSQL_PASS":              "p",
		"MYSQL_HOST":              "db",
		"MYSQL_DB":                "shop",
		"ELASTICSEARCH_ADDRESSES": "http://es1:9200,http://es2:9200",
		"SESSION_TTL":             "30m",
		"CRON_DISABLED":           "cleanup,report",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := cfg.Database.MySQLDSN(), "u:p@tcp(db:3306)/shop?parseTime=true&charset=utf8mb4&loc=Local"; got != want {
		t.Errorf("MySQLDSN = %q, want %q", got, want)
	}
	if want := []string{"http://es1:9200", "http://es2:9200"}; !slices.Equal(cfg.Search.Addresses, want) {
		t.Errorf("Search.Addresses = %v, want %v", cfg.Search.Addresses, want)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %s, want 30m", cfg.Session.TTL)
	}
	if cfg.Cron.JobEnabled("cleanup") || !cfg.Cron.JobEnabled("ping") {
		t.Errorf("Cron.Disabled = %v", cfg.Cron.Disabled)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"driver":  {"DB_DRIVER": "oracle"},
		"auth":    {"AUTH_TYPE": "magic"},
		"ttl":     {"SESSION_TTL": "0s"},
		"badbool": {"DEBUG": "maybe"},
	}
	for name, environ := range tests {
		if _, err := Parse(environ); err == nil {
			t.Errorf("%s: Parse succeeded, want error", name)
		}
	}
}

func TestMySQLDSN_Explicit(t *testing.T) {
	d := Database{DSN: "root@tcp(x)/y"}
	if d.MySQLDSN() != "root@tcp(x)/y" {
		t.Errorf("MySQLDSN = %q", d.MySQLDSN())
	}
}

func TestModule_InitSetsLocation(t *testing.T) {
	host := moduletest.NewHost(t)
	m := NewFromMap(map[string]string{"APP_TIMEZONE": "America/Halifax"})(host)
	host.Add("config", m)

	if host.Location().String() != "America/Halifax" {
		t.Errorf("Location = %s, want America/Halifax", host.Location())
	}
	got, err := module.Lookup[*Module](host, module.CapConfig)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.Config().AppName != "site" {
		t.Errorf("AppName = %q", got.Config().AppName)
	}
}

func TestModule_InitBadTimeZone(t *testing.T) {
	host := moduletest.NewHost(t)
	m := NewFromMap(map[string]string{"APP_TIMEZONE": "Mars/Olympus"})(host)
	if err := m.Init(context.Background()); err == nil {
		t.Fatal("Init succeeded with an unknown time zone")
	}
}

func TestModule_Section(t *testing.T) {
	host := moduletest.NewHost(t)
	m := NewFromMap(map[string]string{
		"ANALYTICS_GOOGLE_ACCOUNT": "UA-1",
		"ANALYTICS_ENABLED":        "true",
		"ANALYTICS_CUSTOM_SLOTS":   "5",
		"OTHER_GOOGLE_ACCOUNT":     "nope",
		"ANALYTICS_":               "ignored",
	})(host)
	host.Add("config", m)

	var section struct {
		GoogleAccount string `mapstructure:"google_account"`
		Enabled       bool   `mapstructure:"enabled"`
		CustomSlots   int    `mapstructure:"custom_slots"`
	}
	if err := m.Section("ANALYTICS_", &section); err != nil {
		t.Fatalf("Section: %v", err)
	}
	if section.GoogleAccount != "UA-1" || !section.Enabled || section.CustomSlots != 5 {
		t.Errorf("section = %+v", section)
	}
	if v, ok := m.Get("OTHER_GOOGLE_ACCOUNT"); !ok || v != "nope" {
		t.Errorf("Get = %q, %v", v, ok)
	}
}

func TestLoadEnv_ProcessWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("SITE_TEST_FROM_FILE=file\nSITE_TEST_BOTH=file\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("SITE_TEST_BOTH", "process")

	environ, err := LoadEnv(file, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if environ["SITE_TEST_FROM_FILE"] != "file" {
		t.Errorf("SITE_TEST_FROM_FILE = %q, want file", environ["SITE_TEST_FROM_FILE"])
	}
	if environ["SITE_TEST_BOTH"] != "process" {
		t.Errorf("SITE_TEST_BOTH = %q, want process", environ["SITE_TEST_BOTH"])
	}
	if _, ok := os.LookupEnv("SITE_TEST_FROM_FILE"); ok {
		t.Error("LoadEnv must not modify the process environment")
	}
}
