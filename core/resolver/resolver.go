// Package resolver orders a batch of modules so that every module is
// registered after the modules providing its dependencies.
//
// Resolution is a depth-first walk over the candidates in input order. A
// module's dependencies are registered before the module itself; a module
// reached again while it is still being resolved is a cycle. Modules already
// in the registry count as satisfied and are never visited.
package resolver

import (
	"fmt"

	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/registry"
)

// Candidate is a constructed module that is not registered yet.
type Candidate struct {
	ID     string
	Module module.Module
}

// Instantiate calls every constructor once, in list order. A descriptor
// without a constructor is an ErrNilModule.
func Instantiate(host module.Host, descriptors []module.Descriptor) ([]Candidate, error) {
	out := make([]Candidate, 0, len(descriptors))
	for _, d := range descriptors {
		if d.New == nil {
			return nil, fmt.Errorf("instantiate %q: no constructor: %w", d.ID, module.ErrNilModule)
		}
		out = append(out, Candidate{ID: d.ID, Module: d.New(host)})
	}
	return out, nil
}

// Resolve registers candidates with reg in dependency order. It stops at the
// first error; candidates registered before the error stay registered.
func Resolve(reg *registry.Registry, candidates []Candidate) error {
	for _, c := range candidates {
		if c.Module == nil {
			return fmt.Errorf("register %q: %w", c.ID, module.ErrNilModule)
		}
	}
	pass := newPass(reg, candidates)
	for i := range candidates {
		if pass.added[i] {
			continue
		}
		if err := pass.visit(i); err != nil {
			return err
		}
	}
	return nil
}

// Order returns the identifiers of candidates in the order Resolve would
// register them, without touching reg.
func Order(reg *registry.Registry, candidates []Candidate) ([]string, error) {
	scratch := reg.Clone()
	before := scratch.Len()
	if err := Resolve(scratch, candidates); err != nil {
		return nil, err
	}
	entries := scratch.Entries()[before:]
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, nil
}
