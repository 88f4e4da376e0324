package custom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/cache"
	"github.com/kendraSO/site/core/moduletest"
)

func TestPing_WritesCache(t *testing.T) {
	host := moduletest.NewHost(t)
	host.Add("config", config.NewFromMap(nil)(host))
	cacheModule := cache.NewModule(host)
	host.Add("cache", cacheModule)

	if err := Ping(context.Background(), host); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if _, ok, _ := cacheModule.Store().Get(context.Background(), cache.Key("custom", "ping")); !ok {
		t.Error("ping time not cached")
	}
}

func TestRoute_Registered(t *testing.T) {
	host := moduletest.NewHost(t)
	host.Add("config", config.NewFromMap(nil)(host))
	httpModule := api.NewModule(host)
	host.Add("http", httpModule)

	rec := httptest.NewRecorder()
	httpModule.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/custom/ping", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /custom/ping = %d, want 200", rec.Code)
	}
}
