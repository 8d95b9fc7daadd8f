package channel

import (
	"fmt"

	"github.com/viant/procnet/model"
)

// Manager owns one queue per declared channel for the lifetime of a process
// network. It is the only component allowed to create queues; lookups after
// construction are idempotent and never allocate.
type Manager struct {
	channels []*model.Channel
	queues   map[model.ChannelID]Queue
}

// Option customizes a manager.
type Option func(m *manageOptions)

type manageOptions struct {
	capacity int
}

// WithCapacity bounds every streaming queue at n payloads; Send beyond the
// bound fails with ErrQueueFull. Zero keeps queues unbounded.
func WithCapacity(n int) Option {
	return func(m *manageOptions) {
		m.capacity = n
	}
}

// New allocates one queue per declaration. Construction fails on the first
// duplicate id or inconsistent declaration; a partially constructed manager
// is never returned.
func New(channels []*model.Channel, options ...Option) (*Manager, error) {
	opts := &manageOptions{}
	for _, option := range options {
		option(opts)
	}
	manager := &Manager{
		channels: channels,
		queues:   make(map[model.ChannelID]Queue, len(channels)),
	}
	for _, declaration := range channels {
		if _, ok := manager.queues[declaration.ID]; ok {
			return nil, fmt.Errorf("channel %v: %w", declaration.ID, ErrDuplicateChannel)
		}
		queue, err := newQueue(declaration, opts.capacity)
		if err != nil {
			return nil, err
		}
		manager.queues[declaration.ID] = queue
	}
	return manager, nil
}

// Lookup resolves the queue backing the supplied channel id.
func (m *Manager) Lookup(id model.ChannelID) (Queue, error) {
	queue, ok := m.queues[id]
	if !ok {
		return nil, fmt.Errorf("channel %v: %w", id, ErrUnknownChannel)
	}
	return queue, nil
}

// Channels returns the declarations this manager was constructed from.
func (m *Manager) Channels() []*model.Channel {
	return m.channels
}
