package api

import (
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/kendraSO/site/core/module"
)

var (
	mu           sync.Mutex
	groupFuncs   []GroupFunc
	routeFuncs   []RouteFunc
	groupsLocked bool
	routesLocked bool
)

// --- /api group modules (authenticated) ---

// GroupFunc registers routes on the /api group. The host gives access to the
// application's other capabilities.
type GroupFunc func(g *echo.Group, host module.Host)

// RegisterModule registers an API module. Call from init() in API packages.
func RegisterModule(fn GroupFunc) {
	mu.Lock()
	defer mu.Unlock()
	if groupsLocked {
		panic("api/registry: API modules locked (register only during init)")
	}
	groupFuncs = append(groupFuncs, fn)
}

// ApplyModules calls all registered /api modules. Locks the registry.
func ApplyModules(g *echo.Group, host module.Host) {
	mu.Lock()
	list := append([]GroupFunc(nil), groupFuncs...)
	groupsLocked = true
	mu.Unlock()
	for _, fn := range list {
		fn(g, host)
	}
}

// --- Root-level routes (public) ---

// RouteFunc registers routes on the root Echo instance.
type RouteFunc func(e *echo.Echo, host module.Host)

// RegisterRoute registers a root-level route module. Call from init().
func RegisterRoute(fn RouteFunc) {
	mu.Lock()
	defer mu.Unlock()
	if routesLocked {
		panic("api/registry: routes locked (register only during init)")
	}
	routeFuncs = append(routeFuncs, fn)
}

// RegisterGET is shorthand for registering a simple GET route on root.
func RegisterGET(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ module.Host) {
		e.GET(path, handler)
	})
}

// RegisterPOST is shorthand for registering a simple POST route on root.
func RegisterPOST(path string, handler echo.HandlerFunc) {
	RegisterRoute(func(e *echo.Echo, _ module.Host) {
		e.POST(path, handler)
	})
}

// ApplyRoutes calls all registered root-level routes. Locks the registry.
func ApplyRoutes(e *echo.Echo, host module.Host) {
	mu.Lock()
	list := append([]RouteFunc(nil), routeFuncs...)
	routesLocked = true
	mu.Unlock()
	for _, fn := range list {
		fn(e, host)
	}
}
