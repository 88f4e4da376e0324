// Package cache provides the cache capability: a byte store backed by Redis
// when REDIS_ADDR is set and by process memory otherwise.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Store is implemented by every cache backend. A zero ttl means no expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByTag(ctx context.Context, tag string) error
}

// Key joins parts into a composite cache key.
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprintf("%v", p)
	}
	return strings.Join(s, "|")
}

// Memory is a thread-safe in-process Store.
type Memory struct {
	m sync.Map
	// tagIndex maps a tag to the set of keys carrying it.
	tagIndex sync.Map // map[string]*sync.Map
	now      func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

type item struct {
	value     []byte
	expiresAt int64 // unix nanoseconds; 0 means no expiration
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false, nil
	}
	it := v.(item)
	if it.expiresAt > 0 && c.now().UnixNano() > it.expiresAt {
		c.m.Delete(key)
		return nil, false, nil
	}
	return it.value, true, nil
}

func (c *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = c.now().Add(ttl).UnixNano()
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.m.Store(key, item{value: stored, expiresAt: expiresAt})
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
	return nil
}

func (c *Memory) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.m.Delete(key)
		c.tagIndex.Range(func(_, val any) bool {
			val.(*sync.Map).Delete(key)
			return true
		})
	}
	return nil
}

func (c *Memory) DeleteByTag(ctx context.Context, tag string) error {
	val, ok := c.tagIndex.LoadAndDelete(tag)
	if !ok {
		return nil
	}
	var keys []string
	val.(*sync.Map).Range(func(key, _ any) bool {
		keys = append(keys, key.(string))
		return true
	})
	return c.Delete(ctx, keys...)
}

// KeysByTag returns the keys currently carrying tag.
func (c *Memory) KeysByTag(tag string) []string {
	var keys []string
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ any) bool {
			keys = append(keys, key.(string))
			return true
		})
	}
	return keys
}

// Len counts stored entries, expired ones included.
func (c *Memory) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
