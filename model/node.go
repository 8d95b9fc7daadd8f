package model

// OpCode identifies a node operation within a process body.
type OpCode string

const (
	// OpLiteral yields a constant value of a fixed width.
	OpLiteral OpCode = "literal"

	// OpReceive consumes a token, optionally reads a payload from a channel
	// and produces a value and the next token.
	OpReceive OpCode = "receive"

	// OpSend consumes a token, optionally writes its operand to a channel and
	// produces the next token.
	OpSend OpCode = "send"

	// OpUMul multiplies two operands, wrapping at the operand width.
	OpUMul OpCode = "umul"

	// OpAdd adds two operands, wrapping at the operand width.
	OpAdd OpCode = "add"

	// OpSub subtracts the second operand from the first, wrapping at the
	// operand width.
	OpSub OpCode = "sub"
)

// Node is a single op in a process body. Value nodes (literal, binary ops,
// receive) define a named value referable by later nodes; channel ops
// (receive, send) additionally consume a token named by Token and produce a
// token under the node's own name.
type Node struct {
	Name string `yaml:"name" json:"name"`
	Op   OpCode `yaml:"op" json:"op"`

	// Literal fields.
	Value uint64 `yaml:"value,omitempty" json:"value,omitempty"`
	Width int    `yaml:"width,omitempty" json:"width,omitempty"`

	// Channel op fields.
	Channel   ChannelID `yaml:"channel,omitempty" json:"channel,omitempty"`
	Token     string    `yaml:"token,omitempty" json:"token,omitempty"`
	Predicate string    `yaml:"predicate,omitempty" json:"predicate,omitempty"`

	// Value operand references: two for binary ops, one (the payload) for send.
	Operands []string `yaml:"operands,omitempty" json:"operands,omitempty"`
}

// IsChannelOp reports whether the node touches a channel and participates in
// the token chain.
func (n *Node) IsChannelOp() bool {
	return n.Op == OpReceive || n.Op == OpSend
}

// DefinesValue reports whether the node produces a referable value.
func (n *Node) DefinesValue() bool {
	switch n.Op {
	case OpLiteral, OpReceive, OpUMul, OpAdd, OpSub:
		return true
	}
	return false
}
