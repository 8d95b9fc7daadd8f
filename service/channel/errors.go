package channel

import "errors"

// Sentinel errors returned by queues and the manager. Using sentinel
// variables allows callers to reliably detect conditions via errors.Is
// instead of brittle string comparisons.

var (
	// ErrDuplicateChannel is returned at construction when two declarations
	// share a channel id.
	ErrDuplicateChannel = errors.New("channel: duplicate id")

	// ErrInvalidChannelKind is returned at construction when a declaration's
	// kind/width combination is inconsistent.
	ErrInvalidChannelKind = errors.New("channel: invalid kind")

	// ErrUnknownChannel is returned when a channel id was never declared.
	ErrUnknownChannel = errors.New("channel: unknown id")

	// ErrChannelEmpty is returned by Recv on a streaming queue holding no
	// payload. Reads never block; an empty read is an immediate failure.
	ErrChannelEmpty = errors.New("channel: empty")

	// ErrChannelUnset is returned by Recv on a single-value queue before the
	// first Send.
	ErrChannelUnset = errors.New("channel: no value set")

	// ErrWidthMismatch is returned when a payload size disagrees with the
	// channel's declared width.
	ErrWidthMismatch = errors.New("channel: payload width mismatch")

	// ErrQueueFull is returned by Send on a bounded streaming queue at
	// capacity. A full queue never blocks and never drops data silently.
	ErrQueueFull = errors.New("channel: queue full")
)
