package compiler

import (
	"context"
	"fmt"
	"reflect"

	"github.com/viant/procnet/model"
	"github.com/viant/procnet/runtime/exec"
	"github.com/viant/procnet/service/channel"
)

// Service compiles process definitions into compiled functions.
type Service struct{}

// New creates a compiler service.
func New() *Service {
	return &Service{}
}

// wordType is the Go representation of interpreted process state.
var wordType = reflect.TypeOf(uint64(0))

// Compile validates the process against the channel declarations and returns
// its definition together with an interpreting compiled function. The token
// chain is checked here, at compile time: once Compile succeeds every
// activation performs the body's channel ops in one deterministic order.
func (s *Service) Compile(process *model.Process, channels []*model.Channel) (exec.Definition, exec.CompiledFn, error) {
	def := exec.Definition{Name: process.Name, StateType: wordType}
	index := make(map[model.ChannelID]*model.Channel, len(channels))
	for _, channel := range channels {
		index[channel.ID] = channel
	}
	if issues := process.Validate(index); len(issues) > 0 {
		return def, nil, fmt.Errorf("failed to compile process %v: %w", process.Name, issues[0])
	}

	// Value widths per node, resolved once; validation guaranteed resolution
	// and width agreement.
	widths := map[string]int{model.StateRef: process.StateWidth}
	for _, node := range process.Body {
		switch node.Op {
		case model.OpLiteral:
			widths[node.Name] = node.Width
		case model.OpUMul, model.OpAdd, model.OpSub:
			widths[node.Name] = widths[node.Operands[0]]
		case model.OpReceive, model.OpSend:
			widths[node.Name] = index[node.Channel].Width
		}
	}
	stateMask := mask(process.StateWidth)

	fn := func(ctx context.Context, state interface{}, inputs []interface{}, access exec.ChannelAccess) (interface{}, error) {
		current, _ := state.(uint64)
		current &= stateMask
		env := make(map[string]uint64, len(process.Body))
		valueOf := func(ref string) uint64 {
			if ref == model.StateRef {
				return current
			}
			return env[ref]
		}
		predicateOf := func(node *model.Node) bool {
			return node.Predicate == "" || valueOf(node.Predicate) != 0
		}
		for _, node := range process.Body {
			switch node.Op {
			case model.OpLiteral:
				env[node.Name] = node.Value & mask(node.Width)
			case model.OpUMul:
				env[node.Name] = (valueOf(node.Operands[0]) * valueOf(node.Operands[1])) & mask(widths[node.Name])
			case model.OpAdd:
				env[node.Name] = (valueOf(node.Operands[0]) + valueOf(node.Operands[1])) & mask(widths[node.Name])
			case model.OpSub:
				env[node.Name] = (valueOf(node.Operands[0]) - valueOf(node.Operands[1])) & mask(widths[node.Name])
			case model.OpReceive:
				buf := make([]byte, widths[node.Name])
				if err := access.OnReceive(node.Channel, predicateOf(node), buf); err != nil {
					return nil, fmt.Errorf("node %v: %w", node.Name, err)
				}
				env[node.Name] = channel.DecodeUint(buf)
			case model.OpSend:
				buf := make([]byte, widths[node.Name])
				channel.PutUint(buf, valueOf(node.Operands[0]))
				if err := access.OnSend(node.Channel, predicateOf(node), buf); err != nil {
					return nil, fmt.Errorf("node %v: %w", node.Name, err)
				}
			}
		}
		next := current
		if process.StateWidth > 0 {
			next = valueOf(process.NextState) & stateMask
		}
		return next, nil
	}
	return def, fn, nil
}
