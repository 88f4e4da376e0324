package cache

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/moduletest"
)

var ctx = context.Background()

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory()
	if err := c.Set(ctx, "k", []byte("val"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v; want found", ok, err)
	}
	if string(got) != "val" {
		t.Errorf("Get = %q, want val", got)
	}
}

func TestMemory_GetMissing(t *testing.T) {
	c := NewMemory()
	if _, ok, _ := c.Get(ctx, "nonexistent-key-xyz"); ok {
		t.Error("Get missing key: want false")
	}
}

func TestMemory_SetCopiesValue(t *testing.T) {
	c := NewMemory()
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'
	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("Get = %q, want abc", got)
	}
}

func TestMemory_Expiry(t *testing.T) {
	c := NewMemory()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("v"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("v"), 0)

	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("expired key still returned")
	}
	if _, ok, _ := c.Get(ctx, "forever"); !ok {
		t.Error("key without ttl expired")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1 after expired read", c.Len())
	}
}

func TestMemory_DeleteMany(t *testing.T) {
	c := NewMemory()
	_ = c.Set(ctx, "dm1", []byte("1"), 0)
	_ = c.Set(ctx, "dm2", []byte("2"), 0)
	_ = c.Delete(ctx, "dm1", "dm2")
	if c.Len() != 0 {
		t.Errorf("Len = %d after Delete, want 0", c.Len())
	}
}

func TestMemory_Tags(t *testing.T) {
	c := NewMemory()
	_ = c.Set(ctx, "tag-k1", []byte("v1"), 0, "t1")
	_ = c.Set(ctx, "tag-k2", []byte("v2"), 0, "t1", "t2")
	_ = c.Set(ctx, "other", []byte("v3"), 0)

	keys := c.KeysByTag("t1")
	slices.Sort(keys)
	if !slices.Equal(keys, []string{"tag-k1", "tag-k2"}) {
		t.Errorf("KeysByTag = %v", keys)
	}

	if err := c.DeleteByTag(ctx, "t1"); err != nil {
		t.Fatalf("DeleteByTag: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "tag-k1"); ok {
		t.Error("DeleteByTag: tag-k1 should be gone")
	}
	if _, ok, _ := c.Get(ctx, "other"); !ok {
		t.Error("DeleteByTag removed an untagged key")
	}
	if len(c.KeysByTag("t2")) != 0 {
		t.Errorf("KeysByTag(t2) = %v after its key was deleted", c.KeysByTag("t2"))
	}
}

func TestKey(t *testing.T) {
	if got := Key("a", 1, true); got != "a|1|true" {
		t.Errorf("Key = %q", got)
	}
}

func TestModule_MemoryWithoutRedis(t *testing.T) {
	host := moduletest.NewHost(t)
	host.Add("config", config.NewFromMap(nil)(host))
	m := NewModule(host)
	host.Add("cache", m)

	if m.Backend() != "memory" {
		t.Errorf("Backend = %q, want memory", m.Backend())
	}
	if _, ok := m.Store().(*Memory); !ok {
		t.Errorf("Store = %T, want *Memory", m.Store())
	}
	got, err := module.Lookup[*Module](host, module.CapCache)
	if err != nil || got != m {
		t.Errorf("Lookup = %v, %v", got, err)
	}
}

func TestModule_FallsBackWhenRedisUnreachable(t *testing.T) {
	host := moduletest.NewHost(t)
	host.Add("config", config.NewFromMap(map[string]string{"REDIS_ADDR": "127.0.0.1:1"})(host))
	m := NewModule(host)
	host.Add("cache", m)

	if m.Backend() != "memory" {
		t.Errorf("Backend = %q, want memory", m.Backend())
	}
}
