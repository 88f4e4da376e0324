package resolver

import (
	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/registry"
)

// existing marks a capability provided by a module registered before the pass.
const existing = -1

// pass is the state of one resolution. Candidates are addressed by their
// index in the input slice.
type pass struct {
	reg        *registry.Registry
	candidates []Candidate
	providers  map[module.Capability]int
	added      []bool
	resolving  []bool
	stack      []int
}

func newPass(reg *registry.Registry, candidates []Candidate) *pass {
	p := &pass{
		reg:        reg,
		candidates: candidates,
		providers:  make(map[module.Capability]int),
		added:      make([]bool, len(candidates)),
		resolving:  make([]bool, len(candidates)),
	}
	for _, c := range reg.Capabilities() {
		p.providers[c] = existing
	}
	// First promise wins; a later duplicate fails when it is registered.
	for i, c := range candidates {
		for _, capability := range c.Module.Provides() {
			if _, ok := p.providers[capability]; !ok {
				p.providers[capability] = i
			}
		}
	}
	return p
}

func (p *pass) visit(i int) error {
	if p.resolving[i] {
		return &module.CircularDependencyError{Chain: p.chain(i)}
	}
	p.resolving[i] = true
	p.stack = append(p.stack, i)

	c := p.candidates[i]
	for _, dep := range c.Module.Depends() {
		provider, ok := p.providers[dep]
		if !ok {
			return &module.UnmetDependencyError{Module: c.ID, Capability: dep}
		}
		if provider == existing || p.added[provider] {
			continue
		}
		if err := p.visit(provider); err != nil {
			return err
		}
	}

	p.stack = p.stack[:len(p.stack)-1]
	p.resolving[i] = false
	p.added[i] = true
	return p.reg.Register(c.Module, c.ID)
}

// chain lists the identifiers from the first occurrence of i on the stack to
// the top, followed by i again.
func (p *pass) chain(i int) []string {
	start := 0
	for j, k := range p.stack {
		if k == i {
			start = j
			break
		}
	}
	out := make([]string, 0, len(p.stack)-start+1)
	for _, k := range p.stack[start:] {
		out = append(out, p.candidates[k].ID)
	}
	return append(out, p.candidates[i].ID)
}
