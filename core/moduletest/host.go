// Package moduletest provides a registry-backed module.Host for unit tests of
// individual modules.
package moduletest

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/registry"
)

// Host is a minimal module.Host.
type Host struct {
	*registry.Registry

	t        testing.TB
	logger   *log.Logger
	location *time.Location
}

var _ module.Host = (*Host)(nil)

// NewHost returns a host with an empty registry and a silent logger.
func NewHost(t testing.TB) *Host {
	return &Host{
		Registry: registry.New(),
		t:        t,
		logger:   log.New(io.Discard),
		location: time.UTC,
	}
}

func (h *Host) ID() string                     { return "test" }
func (h *Host) Logger() *log.Logger            { return h.logger }
func (h *Host) Location() *time.Location       { return h.location }
func (h *Host) SetLocation(loc *time.Location) { h.location = loc }

// Add registers m under id and initializes it, failing the test on error.
func (h *Host) Add(id string, m module.Module) {
	h.t.Helper()
	if err := h.Register(m, id); err != nil {
		h.t.Fatalf("register %s: %v", id, err)
	}
	if err := m.Init(context.Background()); err != nil {
		h.t.Fatalf("init %s: %v", id, err)
	}
}

// Stub is a module providing the given capabilities and doing nothing.
type Stub struct {
	Caps []module.Capability
	Deps []module.Capability
}

func (s *Stub) Provides() []module.Capability { return s.Caps }
func (s *Stub) Depends() []module.Capability  { return s.Deps }
func (s *Stub) Init(context.Context) error    { return nil }
