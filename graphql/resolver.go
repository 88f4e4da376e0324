package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/kendraSO/site/core/module"
)

// rootResolver resolves Query against the application's registry.
type rootResolver struct {
	host module.Host
}

type appResolver struct {
	host module.Host
}

func (a *appResolver) ID() string       { return a.host.ID() }
func (a *appResolver) Location() string { return a.host.Location().String() }

type moduleInfo struct {
	ID       string
	Position int32
	Provides []string
	Depends  []string
}

func (r *rootResolver) App() *appResolver {
	return &appResolver{host: r.host}
}

func (r *rootResolver) Modules() []*moduleInfo {
	infos := r.host.Registered()
	out := make([]*moduleInfo, len(infos))
	for i, info := range infos {
		out[i] = &moduleInfo{
			ID:       info.ID,
			Position: int32(i),
			Provides: module.Strings(info.Provides),
			Depends:  module.Strings(info.Depends),
		}
	}
	return out
}

func (r *rootResolver) find(match func(*moduleInfo) bool) *moduleInfo {
	for _, m := range r.Modules() {
		if match(m) {
			return m
		}
	}
	return nil
}

func (r *rootResolver) Module(args struct{ ID string }) *moduleInfo {
	return r.find(func(m *moduleInfo) bool { return m.ID == args.ID })
}

func (r *rootResolver) Provider(args struct{ Capability string }) *moduleInfo {
	return r.find(func(m *moduleInfo) bool { return slices.Contains(m.Provides, args.Capability) })
}

// Capabilities lists every provided capability in registration order.
func (r *rootResolver) Capabilities() []string {
	var out []string
	for _, m := range r.Modules() {
		out = append(out, m.Provides...)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func (r *rootResolver) Extension(ctx context.Context, args struct {
	Name string
	Args *string
}) (*string, error) {
	var decoded map[string]any
	if args.Args != nil && *args.Args != "" {
		if err := json.Unmarshal([]byte(*args.Args), &decoded); err != nil {
			return nil, fmt.Errorf("extension %s: args: %w", args.Name, err)
		}
	}
	v, err := resolveExtension(ctx, r.host, args.Name, decoded)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
