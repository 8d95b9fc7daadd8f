package channel

import (
	"fmt"
	"sync"

	"github.com/viant/procnet/model"
)

// Queue is the runtime buffer backing one declared channel. Implementations
// serialize access per queue; Send and Recv never block.
type Queue interface {
	// Channel returns the backing declaration.
	Channel() *model.Channel

	// Send enqueues (streaming) or latches (single-value) a copy of payload.
	Send(payload []byte) error

	// Recv copies the head (streaming, consuming it) or the latched value
	// (single-value, without consuming) into out.
	Recv(out []byte) error

	// Empty reports whether a Recv would fail for lack of data.
	Empty() bool

	// HasValue reports whether a Recv would succeed.
	HasValue() bool

	// Len returns the number of buffered payloads.
	Len() int
}

// streamQueue implements FIFO semantics with an optional bounded capacity.
type streamQueue struct {
	channel  *model.Channel
	capacity int
	mu       sync.Mutex
	payloads [][]byte
}

func (q *streamQueue) Channel() *model.Channel {
	return q.channel
}

func (q *streamQueue) Send(payload []byte) error {
	if len(payload) != q.channel.Width {
		return fmt.Errorf("channel %v: send of %v bytes, declared width %v: %w",
			q.channel.ID, len(payload), q.channel.Width, ErrWidthMismatch)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.capacity > 0 && len(q.payloads) >= q.capacity {
		return fmt.Errorf("channel %v: capacity %v: %w", q.channel.ID, q.capacity, ErrQueueFull)
	}
	data := make([]byte, len(payload))
	copy(data, payload)
	q.payloads = append(q.payloads, data)
	return nil
}

func (q *streamQueue) Recv(out []byte) error {
	if len(out) != q.channel.Width {
		return fmt.Errorf("channel %v: recv into %v bytes, declared width %v: %w",
			q.channel.ID, len(out), q.channel.Width, ErrWidthMismatch)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.payloads) == 0 {
		return fmt.Errorf("channel %v: %w", q.channel.ID, ErrChannelEmpty)
	}
	copy(out, q.payloads[0])
	q.payloads[0] = nil
	q.payloads = q.payloads[1:]
	return nil
}

func (q *streamQueue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads) == 0
}

func (q *streamQueue) HasValue() bool {
	return !q.Empty()
}

func (q *streamQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

// singleValueQueue latches the most recent payload; reads are idempotent.
type singleValueQueue struct {
	channel *model.Channel
	mu      sync.Mutex
	value   []byte
	set     bool
}

func (q *singleValueQueue) Channel() *model.Channel {
	return q.channel
}

func (q *singleValueQueue) Send(payload []byte) error {
	if len(payload) != q.channel.Width {
		return fmt.Errorf("channel %v: send of %v bytes, declared width %v: %w",
			q.channel.ID, len(payload), q.channel.Width, ErrWidthMismatch)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.value == nil {
		q.value = make([]byte, q.channel.Width)
	}
	copy(q.value, payload)
	q.set = true
	return nil
}

func (q *singleValueQueue) Recv(out []byte) error {
	if len(out) != q.channel.Width {
		return fmt.Errorf("channel %v: recv into %v bytes, declared width %v: %w",
			q.channel.ID, len(out), q.channel.Width, ErrWidthMismatch)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.set {
		return fmt.Errorf("channel %v: %w", q.channel.ID, ErrChannelUnset)
	}
	copy(out, q.value)
	return nil
}

func (q *singleValueQueue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.set
}

func (q *singleValueQueue) HasValue() bool {
	return !q.Empty()
}

func (q *singleValueQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.set {
		return 1
	}
	return 0
}

// newQueue allocates the buffer matching the declaration's kind.
func newQueue(declaration *model.Channel, capacity int) (Queue, error) {
	if issues := declaration.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("%v: %w", issues[0], ErrInvalidChannelKind)
	}
	switch declaration.Kind {
	case model.KindStreaming:
		return &streamQueue{channel: declaration, capacity: capacity}, nil
	case model.KindSingleValue:
		return &singleValueQueue{channel: declaration}, nil
	}
	return nil, fmt.Errorf("channel %v: kind %q: %w", declaration.ID, declaration.Kind, ErrInvalidChannelKind)
}
