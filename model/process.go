package model

// StateRef is the operand name that resolves to the activation's current
// state value inside a process body.
const StateRef = "state"

// Process defines one dataflow process. A process either carries an
// interpreted Body of ops or references a natively registered body by Ref;
// never both.
//
// Interpreted processes hold their persistent state as a single unsigned word
// of StateWidth bytes (zero width means the process is stateless). Native
// processes declare their state Go type by name through StateType, resolved
// against the extension type registry.
type Process struct {
	Name string `yaml:"name" json:"name"`

	// Interpreted body.
	StateWidth int     `yaml:"stateWidth,omitempty" json:"stateWidth,omitempty"`
	Init       uint64  `yaml:"init,omitempty" json:"init,omitempty"`
	InitToken  string  `yaml:"initToken,omitempty" json:"initToken,omitempty"`
	Body       []*Node `yaml:"body,omitempty" json:"body,omitempty"`
	NextToken  string  `yaml:"nextToken,omitempty" json:"nextToken,omitempty"`
	NextState  string  `yaml:"nextState,omitempty" json:"nextState,omitempty"`

	// Native body reference.
	Ref       string `yaml:"ref,omitempty" json:"ref,omitempty"`
	StateType string `yaml:"stateType,omitempty" json:"stateType,omitempty"`
}

// Lookup returns the body node with the supplied name, or nil.
func (p *Process) Lookup(name string) *Node {
	for _, node := range p.Body {
		if node.Name == name {
			return node
		}
	}
	return nil
}

// ChannelOps returns the body's channel ops in program order.
func (p *Process) ChannelOps() []*Node {
	var ops []*Node
	for _, node := range p.Body {
		if node.IsChannelOp() {
			ops = append(ops, node)
		}
	}
	return ops
}
