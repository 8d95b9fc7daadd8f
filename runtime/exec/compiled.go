package exec

import (
	"context"
	"reflect"

	"github.com/viant/procnet/model"
	"github.com/viant/procnet/service/channel"
)

// Definition declares the shapes one compiled body expects: its persistent
// state type and the types of call-bound inputs.
type Definition struct {
	Name       string
	StateType  reflect.Type
	ParamTypes []reflect.Type
}

// ChannelAccess is the capability a compiled body uses for every channel op.
// The body evaluates each op's predicate itself and reports the outcome; the
// trampoline behind this interface decides whether the queue is touched.
//
// A false predicate never touches the queue: OnReceive zero-fills out so the
// op still yields the type's default value, OnSend produces nothing. Either
// way the op's token advances, so sequencing is unaffected by predicate
// outcomes.
type ChannelAccess interface {
	OnReceive(id model.ChannelID, predicate bool, out []byte) error
	OnSend(id model.ChannelID, predicate bool, payload []byte) error
}

// CompiledFn is the native-callable form of one process's activation logic,
// produced by a compilation service. It receives the validated state and
// inputs together with the channel access capability, and returns the next
// state. Channel op failures must be propagated unchanged so the driver can
// classify them.
type CompiledFn func(ctx context.Context, state interface{}, inputs []interface{}, channels ChannelAccess) (interface{}, error)

// Handler performs the queue side of a channel op once its predicate passed.
// The user data supplied to Run is threaded, by reference and unchanged, into
// every invocation; the runtime never inspects, copies or retains it.
type Handler interface {
	OnReceive(queue channel.Queue, out []byte, userData interface{}) error
	OnSend(queue channel.Queue, payload []byte, userData interface{}) error
}

// queueHandler is the default handler: plain queue IO, user data ignored.
type queueHandler struct{}

func (queueHandler) OnReceive(queue channel.Queue, out []byte, _ interface{}) error {
	return queue.Recv(out)
}

func (queueHandler) OnSend(queue channel.Queue, payload []byte, _ interface{}) error {
	return queue.Send(payload)
}
