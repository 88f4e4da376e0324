package checks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/cache"
	"github.com/kendraSO/site/core/db"
	"github.com/kendraSO/site/core/moduletest"
)

func TestRun_SortedAndParallel(t *testing.T) {
	results := Run(context.Background(), []Check{
		{Name: "b", Run: func(context.Context) error { return errors.New("down") }},
		{Name: "a", Run: func(context.Context) error { return nil }},
	})
	if len(results) != 2 || results[0].Name != "a" || results[1].Name != "b" {
		t.Fatalf("results = %+v", results)
	}
	if !results[0].OK || results[1].OK || results[1].Error != "down" {
		t.Errorf("results = %+v", results)
	}
}

func TestChecksRoute(t *testing.T) {
	host := moduletest.NewHost(t)
	host.Add("config", config.NewFromMap(map[string]string{
		"AUTH_TYPE":   "none",
		"SQLITE_PATH": filepath.Join(t.TempDir(), "site.db"),
		"GORM_LOG":    "off",
	})(host))
	database := db.New(host)
	host.Add("database", database)
	t.Cleanup(func() { _ = database.Close() })
	host.Add("cache", cache.NewModule(host))
	httpModule := api.NewModule(host)
	host.Add("http", httpModule)

	rec := httptest.NewRecorder()
	httpModule.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/checks", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Checks []Result `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Checks) != 2 || body.Checks[0].Name != "cache" || body.Checks[1].Name != "database" {
		t.Errorf("checks = %+v", body.Checks)
	}
}
