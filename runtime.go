package procnet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/procnet/internal/clock"
	"github.com/viant/procnet/internal/idgen"
	"github.com/viant/procnet/model"
	"github.com/viant/procnet/runtime/exec"
	"github.com/viant/procnet/service/channel"
)

// Runtime drives one instantiated process network. It owns the queue manager
// and, playing the driver role, keeps each process's current state between
// ticks; the activation kernel itself stays stateless.
type Runtime struct {
	id        string
	network   *model.Network
	queues    *channel.Manager
	processes map[string]*procInstance
	order     []string
	createdAt time.Time
	updatedAt time.Time
	mu        sync.RWMutex
}

// procInstance pairs a process runtime with its driver-held state.
type procInstance struct {
	runtime *exec.Runtime
	state   interface{}
	mu      sync.Mutex
}

func newRuntime(net *model.Network, queues *channel.Manager) *Runtime {
	now := clock.Now()
	return &Runtime{
		id:        idgen.New(),
		network:   net,
		queues:    queues,
		processes: make(map[string]*procInstance),
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Runtime) register(name string, procRuntime *exec.Runtime, initial interface{}) {
	r.processes[name] = &procInstance{runtime: procRuntime, state: initial}
	r.order = append(r.order, name)
}

// ID returns this runtime instance's identifier.
func (r *Runtime) ID() string {
	return r.id
}

// Network returns the declaration this runtime was built from.
func (r *Runtime) Network() *model.Network {
	return r.network
}

// Queue resolves a channel queue for seeding or inspection between ticks.
// It is the same queue activations use; no invariant is bypassed.
func (r *Runtime) Queue(id model.ChannelID) (channel.Queue, error) {
	return r.queues.Lookup(id)
}

// State returns the driver-held state of the named process.
func (r *Runtime) State(name string) (interface{}, error) {
	instance, err := r.instance(name)
	if err != nil {
		return nil, err
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	return instance.state, nil
}

// SetState replaces the driver-held state of the named process, e.g. to
// reseed it between ticks.
func (r *Runtime) SetState(name string, state interface{}) error {
	instance, err := r.instance(name)
	if err != nil {
		return err
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.state = state
	return nil
}

// Tick performs one activation of the named process, feeding the returned
// state back for the next tick. On failure the held state is not advanced;
// channel effects the activation committed before failing stand.
func (r *Runtime) Tick(ctx context.Context, name string, options ...exec.RunOption) error {
	instance, err := r.instance(name)
	if err != nil {
		return err
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	next, err := instance.runtime.Run(ctx, instance.state, nil, options...)
	if err != nil {
		return err
	}
	instance.state = next
	r.touch()
	return nil
}

// TickAll performs one round-robin pass over every process in declaration
// order and returns how many advanced. A process failing for lack of queue
// data counts as blocked and is skipped; any other failure aborts the pass.
func (r *Runtime) TickAll(ctx context.Context) (int, error) {
	advanced := 0
	for _, name := range r.order {
		if err := ctx.Err(); err != nil {
			return advanced, err
		}
		err := r.Tick(ctx, name)
		switch {
		case err == nil:
			advanced++
		case Blocked(err):
		default:
			return advanced, err
		}
	}
	return advanced, nil
}

// Drain repeats TickAll until a full pass advances no process, and returns
// the total number of activations performed. A network whose processes feed
// themselves indefinitely will not quiesce; bound such runs via ctx.
func (r *Runtime) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		advanced, err := r.TickAll(ctx)
		total += advanced
		if err != nil {
			return total, err
		}
		if advanced == 0 {
			return total, nil
		}
	}
}

// Blocked reports whether an activation failure only signals lack of queue
// data, i.e. the process may advance once its inputs are refilled.
func Blocked(err error) bool {
	return errors.Is(err, channel.ErrChannelEmpty) || errors.Is(err, channel.ErrChannelUnset)
}

func (r *Runtime) instance(name string) (*procInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instance, ok := r.processes[name]
	if !ok {
		return nil, fmt.Errorf("unknown process %q", name)
	}
	return instance, nil
}

func (r *Runtime) touch() {
	r.mu.Lock()
	r.updatedAt = clock.Now()
	r.mu.Unlock()
}
