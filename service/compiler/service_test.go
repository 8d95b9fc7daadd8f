package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procnet/model"
	"github.com/viant/procnet/runtime/exec"
	"github.com/viant/procnet/service/channel"
)

type harness struct {
	runtime *exec.Runtime
	queues  *channel.Manager
	state   interface{}
}

func compile(t *testing.T, process *model.Process, channels []*model.Channel) *harness {
	service := New()
	def, fn, err := service.Compile(process, channels)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	queues, err := channel.New(channels)
	assert.NoError(t, err)
	runtime, err := exec.New(def, fn, queues)
	assert.NoError(t, err)
	return &harness{runtime: runtime, queues: queues, state: process.Init}
}

func (h *harness) seed(t *testing.T, id model.ChannelID, value uint64, width int) {
	queue, err := h.queues.Lookup(id)
	assert.NoError(t, err)
	assert.NoError(t, queue.Send(channel.EncodeUint(value, width)))
}

func (h *harness) tick(t *testing.T) error {
	next, err := h.runtime.Run(context.Background(), h.state, nil)
	if err != nil {
		return err
	}
	h.state = next
	return nil
}

func (h *harness) recv(t *testing.T, id model.ChannelID, width int) uint64 {
	queue, err := h.queues.Lookup(id)
	assert.NoError(t, err)
	buf := make([]byte, width)
	assert.NoError(t, queue.Recv(buf))
	return channel.DecodeUint(buf)
}

func streamingPair(width int) []*model.Channel {
	return []*model.Channel{
		{Name: "in", ID: 0, Kind: model.KindStreaming, Width: width},
		{Name: "out", ID: 1, Kind: model.KindStreaming, Width: width},
	}
}

func TestService_Compile_multiplier(t *testing.T) {
	process := &model.Process{
		Name:      "the_proc",
		InitToken: "tok",
		Body: []*model.Node{
			{Name: "k", Op: model.OpLiteral, Value: 3, Width: 4},
			{Name: "v", Op: model.OpReceive, Token: "tok", Channel: 0},
			{Name: "p", Op: model.OpUMul, Operands: []string{"k", "v"}},
			{Name: "snd", Op: model.OpSend, Token: "v", Channel: 1, Operands: []string{"p"}},
		},
		NextToken: "snd",
		NextState: model.StateRef,
	}
	h := compile(t, process, streamingPair(4))

	for _, value := range []uint64{7, 42, 0} {
		h.seed(t, 0, value, 4)
		assert.NoError(t, h.tick(t))
		assert.Equal(t, value*3, h.recv(t, 1, 4))
	}

	// No queued input: the receive fails fast and the state is unchanged.
	err := h.tick(t)
	assert.ErrorIs(t, err, channel.ErrChannelEmpty)
}

func TestService_Compile_predicatedReceive(t *testing.T) {
	process := &model.Process{
		Name:       "recv_if",
		StateWidth: 1,
		Init:       0,
		InitToken:  "tok",
		Body: []*model.Node{
			{Name: "v", Op: model.OpReceive, Token: "tok", Channel: 0, Predicate: model.StateRef},
			{Name: "snd", Op: model.OpSend, Token: "v", Channel: 1, Operands: []string{"v"}},
			{Name: "one", Op: model.OpLiteral, Value: 1, Width: 1},
		},
		NextToken: "snd",
		NextState: "one",
	}
	h := compile(t, process, streamingPair(4))
	h.seed(t, 0, 0xbeef, 4)

	// First activation: state 0 disables the receive, so the op yields zero
	// and the queue is untouched.
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(0), h.recv(t, 1, 4))
	in, _ := h.queues.Lookup(0)
	assert.Equal(t, 1, in.Len())

	// Second activation: state 1 enables it and the payload flows through.
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(0xbeef), h.recv(t, 1, 4))
	assert.True(t, in.Empty())
}

func TestService_Compile_predicatedSend(t *testing.T) {
	process := &model.Process{
		Name:      "send_if",
		InitToken: "tok",
		Body: []*model.Node{
			{Name: "v", Op: model.OpReceive, Token: "tok", Channel: 0},
			{Name: "snd", Op: model.OpSend, Token: "v", Channel: 1, Operands: []string{"v"}, Predicate: "v"},
		},
		NextToken: "snd",
	}
	h := compile(t, process, streamingPair(4))
	out, _ := h.queues.Lookup(1)

	h.seed(t, 0, 0, 4)
	assert.NoError(t, h.tick(t))
	assert.True(t, out.Empty())

	h.seed(t, 0, 5, 4)
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(5), h.recv(t, 1, 4))
}

func TestService_Compile_singleValueAccumulator(t *testing.T) {
	channels := []*model.Channel{
		{Name: "in", ID: 0, Kind: model.KindSingleValue, Width: 4},
		{Name: "out", ID: 1, Kind: model.KindStreaming, Width: 4},
	}
	process := &model.Process{
		Name:       "accumulator",
		StateWidth: 4,
		Init:       0,
		InitToken:  "tok",
		Body: []*model.Node{
			{Name: "v", Op: model.OpReceive, Token: "tok", Channel: 0},
			{Name: "sum", Op: model.OpAdd, Operands: []string{model.StateRef, "v"}},
			{Name: "snd", Op: model.OpSend, Token: "v", Channel: 1, Operands: []string{"sum"}},
		},
		NextToken: "snd",
		NextState: "sum",
	}
	h := compile(t, process, channels)

	// Before the latch is written the receive fails fast.
	assert.ErrorIs(t, h.tick(t), channel.ErrChannelUnset)

	// A latched value is read without being consumed, so successive ticks
	// keep accumulating it.
	h.seed(t, 0, 7, 4)
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(7), h.recv(t, 1, 4))
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(14), h.recv(t, 1, 4))

	// Overwriting the latch switches the increment.
	h.seed(t, 0, 10, 4)
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(24), h.recv(t, 1, 4))
	assert.Equal(t, uint64(24), h.state)
}

func TestService_Compile_singleValuePlusStreaming(t *testing.T) {
	channels := []*model.Channel{
		{Name: "latch", ID: 0, Kind: model.KindSingleValue, Width: 4},
		{Name: "in", ID: 1, Kind: model.KindStreaming, Width: 4},
		{Name: "out", ID: 2, Kind: model.KindStreaming, Width: 4},
	}
	process := &model.Process{
		Name:      "offset_adder",
		InitToken: "tok",
		Body: []*model.Node{
			{Name: "base", Op: model.OpReceive, Token: "tok", Channel: 0},
			{Name: "v", Op: model.OpReceive, Token: "base", Channel: 1},
			{Name: "sum", Op: model.OpAdd, Operands: []string{"base", "v"}},
			{Name: "snd", Op: model.OpSend, Token: "v", Channel: 2, Operands: []string{"sum"}},
		},
		NextToken: "snd",
	}
	h := compile(t, process, channels)

	h.seed(t, 0, 7, 4)
	for _, value := range []uint64{42, 123} {
		h.seed(t, 1, value, 4)
	}
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(49), h.recv(t, 2, 4))
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(130), h.recv(t, 2, 4))

	// Re-latching the offset changes every subsequent activation.
	h.seed(t, 0, 10, 4)
	for _, value := range []uint64{42, 123} {
		h.seed(t, 1, value, 4)
	}
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(52), h.recv(t, 2, 4))
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(133), h.recv(t, 2, 4))
}

func TestService_Compile_maskedArithmetic(t *testing.T) {
	process := &model.Process{
		Name:      "narrow",
		InitToken: "tok",
		Body: []*model.Node{
			{Name: "a", Op: model.OpReceive, Token: "tok", Channel: 0},
			{Name: "k", Op: model.OpLiteral, Value: 200, Width: 1},
			{Name: "sum", Op: model.OpAdd, Operands: []string{"a", "k"}},
			{Name: "snd", Op: model.OpSend, Token: "a", Channel: 1, Operands: []string{"sum"}},
		},
		NextToken: "snd",
	}
	h := compile(t, process, streamingPair(1))

	// 100 + 200 wraps at the 1 byte value width.
	h.seed(t, 0, 100, 1)
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64(44), h.recv(t, 1, 1))

	// Subtraction wraps the same way.
	process.Body[2].Op = model.OpSub
	h = compile(t, process, streamingPair(1))
	h.seed(t, 0, 100, 1)
	assert.NoError(t, h.tick(t))
	assert.Equal(t, uint64((100-200)&0xff), h.recv(t, 1, 1))
}

func TestService_Compile_invalidProcess(t *testing.T) {
	process := &model.Process{
		Name:      "broken",
		InitToken: "tok",
		Body: []*model.Node{
			{Name: "v", Op: model.OpReceive, Token: "tok", Channel: 9},
		},
		NextToken: "v",
	}
	_, _, err := New().Compile(process, streamingPair(4))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown channel")
}
