// Package module defines the contract every application subsystem implements
// and the errors raised while wiring modules together at startup.
//
// A module declares the capabilities it provides and the capabilities it
// depends on. Capabilities are looked up by name so that code needing, say,
// a database never has to know which concrete module supplies it:
//
//	db, err := module.Lookup[*db.Module](host, module.CapDatabase)
package module

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Capability names a feature a module offers.
type Capability string

// Well-known capabilities provided by the modules shipped with site.
const (
	CapConfig    Capability = "config"
	CapDatabase  Capability = "database"
	CapSchema    Capability = "schema"
	CapStatus    Capability = "status"
	CapCache     Capability = "cache"
	CapCookie    Capability = "cookie"
	CapSession   Capability = "session"
	CapAnalytics Capability = "analytics"
	CapSearch    Capability = "search"
	CapCron      Capability = "cron"
	CapHTTP      Capability = "http"
	CapGraphQL   Capability = "graphql"
)

// Module is a unit of functionality wired into an application at startup.
//
// Depends lists capabilities that must be provided by other modules. Init is
// called exactly once, after every module the module depends on has been
// initialized.
type Module interface {
	Provides() []Capability
	Depends() []Capability
	Init(ctx context.Context) error
}

// Constructor builds a module for the given host. It must not initialize the
// module; only Init may touch other modules.
type Constructor func(host Host) Module

// Descriptor pairs a module identifier with its constructor. An ordered slice
// of descriptors is the default module list of an application kind.
type Descriptor struct {
	ID  string
	New Constructor
}

// Bind builds a Descriptor from a constructor returning a concrete module type.
func Bind[M Module](id string, fn func(Host) M) Descriptor {
	return Descriptor{ID: id, New: func(h Host) Module { return fn(h) }}
}

// Info describes a registered module.
type Info struct {
	ID       string       `json:"id"`
	Provides []Capability `json:"provides"`
	Depends  []Capability `json:"depends"`
}

// Finder looks up modules by capability.
type Finder interface {
	LookupByCapability(c Capability) (Module, error)
}

// Host is the application that owns a set of modules. It is handed to every
// constructor so modules never reach for process-wide state.
type Host interface {
	Finder

	ID() string
	Logger() *log.Logger
	Location() *time.Location
	SetLocation(loc *time.Location)
	LookupByID(id string) (Module, error)
	HasCapability(c Capability) bool
	Registered() []Info
}

// Lookup returns the provider of c as a T.
func Lookup[T any](f Finder, c Capability) (T, error) {
	var zero T
	m, err := f.LookupByCapability(c)
	if err != nil {
		return zero, err
	}
	t, ok := m.(T)
	if !ok {
		return zero, fmt.Errorf("%w: capability %q provided by %T, want %T", ErrUnexpectedType, c, m, zero)
	}
	return t, nil
}

// Describe builds the Info of a module registered under id.
func Describe(id string, m Module) Info {
	return Info{
		ID:       id,
		Provides: append([]Capability(nil), m.Provides()...),
		Depends:  append([]Capability(nil), m.Depends()...),
	}
}

// Strings converts capabilities to plain strings, mostly for logging.
func Strings(caps []Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}
