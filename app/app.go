// Package app wires an application's modules together at startup.
//
// An Application owns one module registry. Bootstrap constructs the default
// modules of the application kind, registers them in dependency order and
// initializes them in registration order. Any failure aborts startup.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/registry"
	"github.com/kendraSO/site/core/resolver"
)

// Application is the owner of a module registry.
type Application struct {
	id       string
	kind     Kind
	logger   *log.Logger
	registry *registry.Registry
	location *time.Location
	modules  []module.Descriptor
	replaced []module.Descriptor

	out      io.Writer
	logLevel string
	booted   bool
}

var _ module.Host = (*Application)(nil)

// Option configures an Application.
type Option func(*Application)

// WithLogger uses l instead of a logger built from the output and level.
func WithLogger(l *log.Logger) Option {
	return func(a *Application) { a.logger = l }
}

// WithOutput sets where the default logger writes.
func WithOutput(w io.Writer) Option {
	return func(a *Application) { a.out = w }
}

// WithLogLevel sets the level of the default logger.
func WithLogLevel(level string) Option {
	return func(a *Application) { a.logLevel = level }
}

// WithModules replaces the kind's default module list.
func WithModules(descriptors ...module.Descriptor) Option {
	return func(a *Application) { a.modules = descriptors }
}

// WithModule replaces the default module with the same identifier, or adds d
// when the kind has none.
func WithModule(d module.Descriptor) Option {
	return func(a *Application) { a.replaced = append(a.replaced, d) }
}

// WithLocation sets the default time zone.
func WithLocation(loc *time.Location) Option {
	return func(a *Application) { a.location = loc }
}

// New creates an application. No module is constructed until Bootstrap or
// AddDefaultModules is called.
func New(id string, kind Kind, opts ...Option) *Application {
	a := &Application{
		id:       id,
		kind:     kind,
		location: time.UTC,
		out:      os.Stderr,
		logLevel: "info",
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = newLogger(a.out, a.logLevel, id)
	}
	if a.modules == nil && kind.Modules != nil {
		a.modules = kind.Modules()
	}
	for _, d := range a.replaced {
		a.modules = replaceDescriptor(a.modules, d)
	}
	a.registry = registry.New(
		registry.WithReserved(registry.DefaultReserved...),
		registry.WithLogger(a.logger),
	)
	return a
}

func replaceDescriptor(list []module.Descriptor, d module.Descriptor) []module.Descriptor {
	out := slices.Clone(list)
	for i := range out {
		if out[i].ID == d.ID {
			out[i] = d
			return out
		}
	}
	return append(out, d)
}

// AddModule registers m under id directly, bypassing dependency ordering.
// Modules added before Bootstrap satisfy dependencies of the default modules.
func (a *Application) AddModule(m module.Module, id string) error {
	return a.registry.Register(m, id)
}

// AddDefaultModules constructs the default modules and registers them in
// dependency order.
func (a *Application) AddDefaultModules() error {
	candidates, err := resolver.Instantiate(a, a.modules)
	if err != nil {
		return fmt.Errorf("resolve %s modules: %w", a.kind.Name, err)
	}
	if err := resolver.Resolve(a.registry, candidates); err != nil {
		return fmt.Errorf("resolve %s modules: %w", a.kind.Name, err)
	}
	return nil
}

// Plan returns the identifiers of the default modules in the order they
// would be registered. The registry is left untouched.
func (a *Application) Plan() ([]string, error) {
	candidates, err := resolver.Instantiate(a, a.modules)
	if err != nil {
		return nil, err
	}
	return resolver.Order(a.registry, candidates)
}

// InitModules initializes every registered module in registration order. The
// first failure stops initialization; later modules stay uninitialized.
func (a *Application) InitModules(ctx context.Context) error {
	for _, e := range a.registry.Entries() {
		start := time.Now()
		if err := e.Module.Init(ctx); err != nil {
			a.logger.Error("module initialization failed", "id", e.ID, "err", err)
			return &module.InitializationError{Module: e.ID, Err: err}
		}
		a.logger.Debug("module initialized", "id", e.ID, "took", time.Since(start))
	}
	return nil
}

// Bootstrap adds the default modules, initializes every module and freezes
// the registry. It may run only once.
func (a *Application) Bootstrap(ctx context.Context) error {
	if a.booted {
		return fmt.Errorf("bootstrap %s: %w", a.id, module.ErrLocked)
	}
	a.booted = true

	if err := a.AddDefaultModules(); err != nil {
		return err
	}
	if err := a.InitModules(ctx); err != nil {
		return err
	}
	a.registry.Lock()
	a.logger.Info("application ready", "kind", a.kind.Name, "modules", a.registry.Len())
	return nil
}

// Close closes every registered module implementing io.Closer, in reverse
// registration order, and joins their errors.
func (a *Application) Close() error {
	entries := a.registry.Entries()
	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		c, ok := entries[i].Module.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", entries[i].ID, err))
		}
	}
	return errors.Join(errs...)
}

// ID returns the application identifier.
func (a *Application) ID() string { return a.id }

// Kind returns the application kind.
func (a *Application) Kind() Kind { return a.kind }

// Logger returns the application logger.
func (a *Application) Logger() *log.Logger { return a.logger }

// Location returns the default time zone for dates without zone information.
func (a *Application) Location() *time.Location { return a.location }

// SetLocation changes the default time zone. It is meant for the config
// module during startup.
func (a *Application) SetLocation(loc *time.Location) {
	if loc != nil {
		a.location = loc
	}
}

// LookupByID returns the module registered under id.
func (a *Application) LookupByID(id string) (module.Module, error) {
	return a.registry.LookupByID(id)
}

// LookupByCapability returns the module providing c.
func (a *Application) LookupByCapability(c module.Capability) (module.Module, error) {
	return a.registry.LookupByCapability(c)
}

// HasCapability reports whether some module provides c.
func (a *Application) HasCapability(c module.Capability) bool {
	return a.registry.HasCapability(c)
}

// Registered describes the registered modules in registration order.
func (a *Application) Registered() []module.Info {
	return a.registry.Registered()
}

// Registry returns the module registry.
func (a *Application) Registry() *registry.Registry {
	return a.registry
}
