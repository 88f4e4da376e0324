// Package registry holds the modules of an application keyed by identifier and
// indexed by the capabilities they provide.
//
// Registration happens once, single-threaded, during startup. After Lock the
// registry is read-only and may be read from any number of goroutines without
// synchronization.
package registry

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/kendraSO/site/core/module"
)

// Entry is a registered module and its identifier.
type Entry struct {
	ID     string
	Module module.Module
}

// Registry is the module registry of one application.
type Registry struct {
	entries  []Entry
	byID     map[string]int
	index    *CapabilityIndex
	reserved map[string]struct{}
	logger   *log.Logger
	locked   bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithReserved replaces the set of reserved identifiers.
func WithReserved(names ...string) Option {
	return func(r *Registry) {
		r.reserved = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.reserved[n] = struct{}{}
		}
	}
}

// WithLogger logs every successful registration at debug level.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		byID:  make(map[string]int),
		index: NewCapabilityIndex(),
	}
	WithReserved(DefaultReserved...)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds m under id. Nothing is recorded unless every check passes:
// the identifier must be free and not reserved, every dependency must already
// be provided, and no provided capability may belong to another module.
func (r *Registry) Register(m module.Module, id string) error {
	if r.locked {
		return fmt.Errorf("register %q: %w", id, module.ErrLocked)
	}
	if m == nil {
		return fmt.Errorf("register %q: %w", id, module.ErrNilModule)
	}
	if id == "" {
		return module.ErrEmptyIdentifier
	}
	if _, ok := r.byID[id]; ok {
		return &module.DuplicateIdentifierError{ID: id}
	}
	if _, ok := r.reserved[id]; ok {
		return &module.ReservedIdentifierError{ID: id}
	}
	for _, dep := range m.Depends() {
		if _, ok := r.index.Provider(dep); !ok {
			return &module.UnmetDependencyError{Module: id, Capability: dep}
		}
	}
	provides := m.Provides()
	for _, c := range provides {
		if err := r.index.Check(c, id); err != nil {
			return err
		}
	}

	for _, c := range provides {
		// checked above; a repeated capability in provides is claimed once
		_ = r.index.Claim(c, id)
	}
	r.byID[id] = len(r.entries)
	r.entries = append(r.entries, Entry{ID: id, Module: m})

	if r.logger != nil {
		r.logger.Debug("module registered", "id", id, "provides", module.Strings(provides), "depends", module.Strings(m.Depends()))
	}
	return nil
}

// LookupByID returns the module registered under id.
func (r *Registry) LookupByID(id string) (module.Module, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: no module with identifier %q", module.ErrNotFound, id)
	}
	return r.entries[i].Module, nil
}

// LookupByCapability returns the module providing c.
func (r *Registry) LookupByCapability(c module.Capability) (module.Module, error) {
	id, ok := r.index.Provider(c)
	if !ok {
		return nil, fmt.Errorf("%w: no module provides %q", module.ErrNotFound, c)
	}
	return r.entries[r.byID[id]].Module, nil
}

// HasCapability reports whether some registered module provides c.
func (r *Registry) HasCapability(c module.Capability) bool {
	_, ok := r.index.Provider(c)
	return ok
}

// ProviderOf returns the identifier of the module providing c.
func (r *Registry) ProviderOf(c module.Capability) (string, bool) {
	return r.index.Provider(c)
}

// Capabilities returns every provided capability in the order it was claimed.
func (r *Registry) Capabilities() []module.Capability {
	return r.index.Capabilities()
}

// Entries returns the registered modules in registration order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Registered describes the registered modules in registration order.
func (r *Registry) Registered() []module.Info {
	out := make([]module.Info, len(r.entries))
	for i, e := range r.entries {
		out[i] = module.Describe(e.ID, e.Module)
	}
	return out
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Lock freezes the registry. Further registrations fail with ErrLocked.
func (r *Registry) Lock() {
	r.locked = true
}

// Locked reports whether the registry is frozen.
func (r *Registry) Locked() bool {
	return r.locked
}

// Clone returns an unlocked copy sharing the same module instances. It is used
// for dry-run resolution.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		entries:  append([]Entry(nil), r.entries...),
		byID:     make(map[string]int, len(r.byID)),
		index:    NewCapabilityIndex(),
		reserved: r.reserved,
	}
	for id, i := range r.byID {
		c.byID[id] = i
	}
	for _, capability := range r.index.order {
		c.index.providers[capability] = r.index.providers[capability]
		c.index.order = append(c.index.order, capability)
	}
	return c
}
