package registry

import (
	"github.com/kendraSO/site/core/module"
)

// CapabilityIndex maps each capability to the identifier of the single
// module providing it.
type CapabilityIndex struct {
	providers map[module.Capability]string
	order     []module.Capability
}

// NewCapabilityIndex returns an empty index.
func NewCapabilityIndex() *CapabilityIndex {
	return &CapabilityIndex{providers: make(map[module.Capability]string)}
}

// Provider returns the identifier of the module providing c.
func (x *CapabilityIndex) Provider(c module.Capability) (string, bool) {
	id, ok := x.providers[c]
	return id, ok
}

// Check reports whether id may claim c.
func (x *CapabilityIndex) Check(c module.Capability, id string) error {
	if existing, ok := x.providers[c]; ok && existing != id {
		return &module.DuplicateCapabilityError{Capability: c, Existing: existing, New: id}
	}
	return nil
}

// Claim records id as the provider of c. Claiming a capability twice for the
// same id is a no-op.
func (x *CapabilityIndex) Claim(c module.Capability, id string) error {
	if err := x.Check(c, id); err != nil {
		return err
	}
	if _, ok := x.providers[c]; ok {
		return nil
	}
	x.providers[c] = id
	x.order = append(x.order, c)
	return nil
}

// Capabilities returns every claimed capability in claim order.
func (x *CapabilityIndex) Capabilities() []module.Capability {
	return append([]module.Capability(nil), x.order...)
}

// Len returns the number of claimed capabilities.
func (x *CapabilityIndex) Len() int {
	return len(x.order)
}
