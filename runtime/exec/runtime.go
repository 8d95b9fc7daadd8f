package exec

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/viant/procnet/model"
	"github.com/viant/procnet/service/channel"
	"github.com/viant/procnet/tracing"
	"github.com/viant/structology/conv"
)

// ErrTypeMismatch is returned when the supplied state or inputs disagree with
// the process definition. The call is rejected before any channel effect.
var ErrTypeMismatch = errors.New("exec: type mismatch")

// Runtime orchestrates activations of one compiled process body against a
// shared queue manager.
type Runtime struct {
	def       Definition
	fn        CompiledFn
	queues    *channel.Manager
	handler   Handler
	converter *conv.Converter
}

// Option customizes a runtime.
type Option func(r *Runtime)

// WithHandler replaces the default queue handler, letting callers interpose
// on every committed channel op (for example to observe or mutate caller
// owned user data).
func WithHandler(handler Handler) Option {
	return func(r *Runtime) {
		r.handler = handler
	}
}

// RunOption customizes a single activation.
type RunOption func(o *runOptions)

type runOptions struct {
	userData interface{}
}

// WithUserData supplies an opaque, caller-owned value threaded unchanged into
// every handler invocation of this activation. The reference is dropped
// before Run returns.
func WithUserData(userData interface{}) RunOption {
	return func(o *runOptions) {
		o.userData = userData
	}
}

// New creates a runtime for the supplied definition and compiled body.
func New(def Definition, fn CompiledFn, queues *channel.Manager, options ...Option) (*Runtime, error) {
	if fn == nil {
		return nil, fmt.Errorf("process %v: compiled function is required", def.Name)
	}
	if queues == nil {
		return nil, fmt.Errorf("process %v: queue manager is required", def.Name)
	}
	convOptions := conv.DefaultOptions()
	convOptions.ClonePointerData = true
	convOptions.IgnoreUnmapped = true
	runtime := &Runtime{
		def:       def,
		fn:        fn,
		queues:    queues,
		handler:   queueHandler{},
		converter: conv.NewConverter(convOptions),
	}
	for _, option := range options {
		option(runtime)
	}
	return runtime, nil
}

// Definition returns the declared shapes of this runtime's process.
func (r *Runtime) Definition() Definition {
	return r.def
}

// Run performs one activation: it validates state and inputs, invokes the
// compiled body with a trampoline bound to the queue manager, and returns the
// next state. On failure the returned state is nil and effects already
// committed by the activation stand.
func (r *Runtime) Run(ctx context.Context, state interface{}, inputs []interface{}, options ...RunOption) (next interface{}, err error) {
	ctx, span := tracing.StartSpan(ctx, "exec.Run "+r.def.Name, "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	opts := &runOptions{}
	for _, option := range options {
		option(opts)
	}
	if state, err = r.checkedValue("state", state, r.def.StateType); err != nil {
		return nil, err
	}
	if len(inputs) != len(r.def.ParamTypes) {
		return nil, fmt.Errorf("process %v: %v inputs, declared %v: %w",
			r.def.Name, len(inputs), len(r.def.ParamTypes), ErrTypeMismatch)
	}
	for i, input := range inputs {
		if inputs[i], err = r.checkedValue(fmt.Sprintf("input[%v]", i), input, r.def.ParamTypes[i]); err != nil {
			return nil, err
		}
	}

	access := &trampoline{runtime: r, userData: opts.userData}
	next, err = r.fn(ctx, state, inputs, access)
	access.userData = nil
	if err != nil {
		return nil, fmt.Errorf("process %v: %w", r.def.Name, err)
	}
	return next, nil
}

// checkedValue accepts values of the declared type as-is and attempts one
// conversion otherwise; anything else is a type mismatch.
func (r *Runtime) checkedValue(role string, value interface{}, declared reflect.Type) (interface{}, error) {
	if declared == nil {
		if value == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("process %v: %v: unexpected %T: %w", r.def.Name, role, value, ErrTypeMismatch)
	}
	if value != nil && reflect.TypeOf(value) == declared {
		return value, nil
	}
	instance := reflect.New(declared)
	if value != nil {
		if err := r.converter.Convert(value, instance.Interface()); err != nil {
			return nil, fmt.Errorf("process %v: %v: cannot use %T as %v: %w",
				r.def.Name, role, value, declared, ErrTypeMismatch)
		}
	}
	return instance.Elem().Interface(), nil
}

// trampoline implements ChannelAccess for one activation. It applies the
// predicate contract and forwards committed ops to the runtime's handler
// together with the activation's user data.
type trampoline struct {
	runtime  *Runtime
	userData interface{}
}

func (t *trampoline) OnReceive(id model.ChannelID, predicate bool, out []byte) error {
	if !predicate {
		for i := range out {
			out[i] = 0
		}
		return nil
	}
	queue, err := t.runtime.queues.Lookup(id)
	if err != nil {
		return err
	}
	return t.runtime.handler.OnReceive(queue, out, t.userData)
}

func (t *trampoline) OnSend(id model.ChannelID, predicate bool, payload []byte) error {
	if !predicate {
		return nil
	}
	queue, err := t.runtime.queues.Lookup(id)
	if err != nil {
		return err
	}
	return t.runtime.handler.OnSend(queue, payload, t.userData)
}
