package extension

import (
	"sync"

	"github.com/viant/procnet/runtime/exec"
)

// Body is a natively implemented process body registered under a name, with
// the manifest-visible names of its state and parameter types.
type Body struct {
	Name       string
	StateType  string
	ParamTypes []string
	Fn         exec.CompiledFn
}

// Bodies registers native process bodies so manifests can reference them
// with ref instead of an interpreted body.
type Bodies struct {
	types  *Types
	bodies map[string]*Body
	mux    sync.RWMutex
}

// Types returns the associated type registry.
func (b *Bodies) Types() *Types {
	return b.types
}

// Lookup returns a body by name, or nil.
func (b *Bodies) Lookup(name string) *Body {
	b.mux.RLock()
	defer b.mux.RUnlock()
	return b.bodies[name]
}

// Register registers a body.
func (b *Bodies) Register(body *Body) {
	b.mux.Lock()
	defer b.mux.Unlock()
	b.bodies[body.Name] = body
}

// NewBodies creates a body registry sharing the supplied type registry.
func NewBodies(types *Types) *Bodies {
	if types == nil {
		types = NewTypes()
	}
	return &Bodies{
		types:  types,
		bodies: make(map[string]*Body),
	}
}
