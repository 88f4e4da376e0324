package graphql

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kendraSO/site/core/module"
)

// ExtensionFunc resolves one named extension of the extension query field.
// Args is the JSON-decoded args argument; the result is returned JSON-encoded.
type ExtensionFunc func(ctx context.Context, host module.Host, args map[string]any) (any, error)

var (
	extMu      sync.Mutex
	extensions = make(map[string]ExtensionFunc)
	extLocked  bool
)

// RegisterExtension adds an extension. Call from init() in custom packages.
// Name must be unique. Panics if locked.
func RegisterExtension(name string, fn ExtensionFunc) {
	extMu.Lock()
	defer extMu.Unlock()
	if extLocked {
		panic("graphql/extensions: locked (register only during init before the graphql module starts)")
	}
	if _, ok := extensions[name]; ok {
		panic("graphql/extensions: duplicate " + name)
	}
	extensions[name] = fn
}

// UnregisterExtension removes an extension and unlocks the registry (for tests).
func UnregisterExtension(name string) {
	extMu.Lock()
	defer extMu.Unlock()
	extLocked = false
	delete(extensions, name)
}

func lockExtensions() {
	extMu.Lock()
	extLocked = true
	extMu.Unlock()
}

func resolveExtension(ctx context.Context, host module.Host, name string, args map[string]any) (any, error) {
	extMu.Lock()
	fn, ok := extensions[name]
	extMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown extension: %s", name)
	}
	return fn(ctx, host, args)
}

// ExtensionNames returns all registered names, sorted.
func ExtensionNames() []string {
	extMu.Lock()
	defer extMu.Unlock()
	names := make([]string, 0, len(extensions))
	for n := range extensions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
