package app

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kendraSO/site/core/module"
)

// recorder is a test module that appends its id to a shared log on Init.
type recorder struct {
	id     string
	caps   []module.Capability
	deps   []module.Capability
	log    *[]string
	err    error
	closed *[]string
}

func (r *recorder) Provides() []module.Capability { return r.caps }
func (r *recorder) Depends() []module.Capability  { return r.deps }

func (r *recorder) Init(context.Context) error {
	*r.log = append(*r.log, r.id)
	return r.err
}

func (r *recorder) Close() error {
	if r.closed != nil {
		*r.closed = append(*r.closed, r.id)
	}
	return nil
}

type fixture struct {
	id   string
	caps []module.Capability
	deps []module.Capability
	err  error
}

func caps(names ...string) []module.Capability {
	out := make([]module.Capability, len(names))
	for i, n := range names {
		out[i] = module.Capability(n)
	}
	return out
}

func descriptors(log, closed *[]string, fixtures ...fixture) []module.Descriptor {
	out := make([]module.Descriptor, len(fixtures))
	for i, s := range fixtures {
		out[i] = module.Descriptor{ID: s.id, New: func(module.Host) module.Module {
			return &recorder{id: s.id, caps: s.caps, deps: s.deps, log: log, err: s.err, closed: closed}
		}}
	}
	return out
}

func newTestApp(opts ...Option) *Application {
	opts = append([]Option{WithOutput(&bytes.Buffer{})}, opts...)
	return New("test", Kind{Name: "test"}, opts...)
}

func TestBootstrap_InitializesInDependencyOrder(t *testing.T) {
	var inits []string
	a := newTestApp(WithModules(descriptors(&inits, nil,
		fixture{id: "http", caps: caps("http"), deps: caps("config", "session")},
		fixture{id: "session", caps: caps("session"), deps: caps("cache")},
		fixture{id: "cache", caps: caps("cache"), deps: caps("config")},
		fixture{id: "config", caps: caps("config")},
	)...))

	if err := a.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if want := []string{"config", "cache", "session", "http"}; !slices.Equal(inits, want) {
		t.Errorf("init order = %v, want %v", inits, want)
	}
	if !a.Registry().Locked() {
		t.Error("registry not locked after Bootstrap")
	}
	if !a.HasCapability("session") {
		t.Error("session capability missing")
	}
	m, err := a.LookupByCapability("cache")
	if err != nil || m.(*recorder).id != "cache" {
		t.Errorf("LookupByCapability(cache) = %v, %v", m, err)
	}
}

func TestBootstrap_Twice(t *testing.T) {
	var inits []string
	a := newTestApp(WithModules(descriptors(&inits, nil, fixture{id: "config", caps: caps("config")})...))
	if err := a.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := a.Bootstrap(context.Background()); !errors.Is(err, module.ErrLocked) {
		t.Errorf("second Bootstrap err = %v, want ErrLocked", err)
	}
	if len(inits) != 1 {
		t.Errorf("inits = %v, want one", inits)
	}
}

func TestBootstrap_InitFailureStops(t *testing.T) {
	boom := errors.New("boom")
	var inits []string
	a := newTestApp(WithModules(descriptors(&inits, nil,
		fixture{id: "config", caps: caps("config")},
		fixture{id: "database", caps: caps("database"), deps: caps("config"), err: boom},
		fixture{id: "status", caps: caps("status"), deps: caps("database")},
	)...))

	err := a.Bootstrap(context.Background())
	var initErr *module.InitializationError
	if !errors.As(err, &initErr) || initErr.Module != "database" {
		t.Fatalf("err = %v, want InitializationError for database", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v does not wrap the module error", err)
	}
	if !slices.Equal(inits, []string{"config", "database"}) {
		t.Errorf("inits = %v, status must not be initialized", inits)
	}
	if a.Registry().Locked() {
		t.Error("registry locked after a failed Bootstrap")
	}
}

func TestBootstrap_ResolutionErrors(t *testing.T) {
	tests := []struct {
		name     string
		fixtures []fixture
		check    func(error) bool
	}{
		{
			name: "cycle",
			fixtures: []fixture{
				{id: "a", caps: caps("a"), deps: caps("b")},
				{id: "b", caps: caps("b"), deps: caps("a")},
			},
			check: func(err error) bool {
				var e *module.CircularDependencyError
				return errors.As(err, &e) && strings.Join(e.Chain, " => ") == "a => b => a"
			},
		},
		{
			name:     "unmet",
			fixtures: []fixture{{id: "a", caps: caps("a"), deps: caps("missing")}},
			check: func(err error) bool {
				var e *module.UnmetDependencyError
				return errors.As(err, &e) && e.Capability == "missing"
			},
		},
		{
			name:     "reserved",
			fixtures: []fixture{{id: "logger", caps: caps("x")}},
			check: func(err error) bool {
				var e *module.ReservedIdentifierError
				return errors.As(err, &e)
			},
		},
		{
			name:     "reserved kind",
			fixtures: []fixture{{id: "kind", caps: caps("x")}},
			check: func(err error) bool {
				var e *module.ReservedIdentifierError
				return errors.As(err, &e) && e.ID == "kind"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inits []string
			a := newTestApp(WithModules(descriptors(&inits, nil, tt.fixtures...)...))
			err := a.Bootstrap(context.Background())
			if !tt.check(err) {
				t.Errorf("err = %v", err)
			}
			if len(inits) != 0 {
				t.Errorf("modules initialized despite resolution error: %v", inits)
			}
		})
	}
}

func TestAddModule_SatisfiesDefaults(t *testing.T) {
	var inits []string
	a := newTestApp(WithModules(descriptors(&inits, nil,
		fixture{id: "cache", caps: caps("cache"), deps: caps("config")},
	)...))
	if err := a.AddModule(&recorder{id: "custom-config", caps: caps("config"), log: &inits}, "custom-config"); err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	if err := a.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !slices.Equal(inits, []string{"custom-config", "cache"}) {
		t.Errorf("inits = %v", inits)
	}
}

func TestPlan_DoesNotRegister(t *testing.T) {
	var inits []string
	a := newTestApp(WithModules(descriptors(&inits, nil,
		fixture{id: "b", caps: caps("b"), deps: caps("a")},
		fixture{id: "a", caps: caps("a")},
	)...))
	order, err := a.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !slices.Equal(order, []string{"a", "b"}) {
		t.Errorf("Plan = %v, want [a b]", order)
	}
	if a.Registry().Len() != 0 {
		t.Errorf("Plan registered %d modules", a.Registry().Len())
	}
}

func TestClose_ReverseOrder(t *testing.T) {
	var inits, closed []string
	a := newTestApp(WithModules(descriptors(&inits, &closed,
		fixture{id: "config", caps: caps("config")},
		fixture{id: "database", caps: caps("database"), deps: caps("config")},
	)...))
	if err := a.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !slices.Equal(closed, []string{"database", "config"}) {
		t.Errorf("closed = %v", closed)
	}
}

func TestLocation(t *testing.T) {
	a := newTestApp()
	if a.Location() != time.UTC {
		t.Errorf("default Location = %v, want UTC", a.Location())
	}
	halifax, err := time.LoadLocation("America/Halifax")
	if err != nil {
		t.Skipf("tzdata: %v", err)
	}
	a = newTestApp(WithLocation(halifax))
	if a.Location() != halifax {
		t.Errorf("Location = %v, want America/Halifax", a.Location())
	}
	a.SetLocation(nil)
	if a.Location() != halifax {
		t.Error("SetLocation(nil) changed the location")
	}
}

func TestKinds(t *testing.T) {
	for name, kind := range Kinds {
		if kind.Name != name {
			t.Errorf("Kinds[%q].Name = %q", name, kind.Name)
		}
		ids := make(map[string]bool)
		for _, d := range kind.Modules() {
			if ids[d.ID] {
				t.Errorf("%s: duplicate module id %q", name, d.ID)
			}
			ids[d.ID] = true
		}
		if !ids["config"] {
			t.Errorf("%s: no config module", name)
		}
	}
}

func TestPlan_Kinds(t *testing.T) {
	a := New("site", Web, WithOutput(&bytes.Buffer{}))
	order, err := a.Plan()
	if err != nil {
		t.Fatalf("Plan(web): %v", err)
	}
	if order[0] != "config" || order[len(order)-1] != "graphql" {
		t.Errorf("web plan = %v", order)
	}
	if i, k := slices.Index(order, "http"), slices.Index(order, "graphql"); i > k {
		t.Errorf("http after graphql in %v", order)
	}
}

func TestBootstrap_NilConstructor(t *testing.T) {
	var inits []string
	list := append(descriptors(&inits, nil, fixture{id: "config", caps: caps("config")}), module.Descriptor{ID: "broken"})
	a := newTestApp(WithModules(list...))

	if _, err := a.Plan(); !errors.Is(err, module.ErrNilModule) {
		t.Errorf("Plan err = %v, want ErrNilModule", err)
	}
	if err := a.Bootstrap(context.Background()); !errors.Is(err, module.ErrNilModule) {
		t.Errorf("Bootstrap err = %v, want ErrNilModule", err)
	}
	if len(inits) != 0 || a.Registry().Len() != 0 {
		t.Errorf("inits = %v, registered = %d after a nil constructor", inits, a.Registry().Len())
	}
}

func TestWithModule(t *testing.T) {
	var inits []string
	kind := Kind{Name: "test", Modules: func() []module.Descriptor {
		return descriptors(&inits, nil,
			fixture{id: "config", caps: caps("config")},
			fixture{id: "cache", caps: caps("cache"), deps: caps("config")},
		)
	}}
	replacement := descriptors(&inits, nil,
		fixture{id: "config", caps: caps("config", "env")},
		fixture{id: "audit", caps: caps("audit"), deps: caps("env")},
	)
	a := New("test", kind,
		WithOutput(&bytes.Buffer{}),
		WithModule(replacement[0]),
		WithModule(replacement[1]),
	)
	if a.Kind().Name != "test" {
		t.Errorf("Kind = %q", a.Kind().Name)
	}
	if err := a.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if want := []string{"config", "cache", "audit"}; !slices.Equal(inits, want) {
		t.Errorf("inits = %v, want %v", inits, want)
	}
	if !a.HasCapability("env") {
		t.Error("replacement config module not registered")
	}
}
