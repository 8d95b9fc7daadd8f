package model

import "fmt"

// ChannelID identifies a channel within a process network.
type ChannelID int32

// Kind describes channel buffering semantics.
type Kind string

const (
	// KindStreaming buffers payloads in FIFO order; a receive consumes the head.
	KindStreaming Kind = "streaming"

	// KindSingleValue latches at most one payload; a send overwrites it and a
	// receive reads it without consuming.
	KindSingleValue Kind = "single_value"
)

// Valid reports whether k is a known channel kind.
func (k Kind) Valid() bool {
	return k == KindStreaming || k == KindSingleValue
}

// Channel declares a typed, identified communication endpoint. Kind and Width
// are immutable once the channel is registered with a queue manager; every
// payload transacted on the channel has exactly Width bytes.
type Channel struct {
	Name  string    `yaml:"name,omitempty" json:"name,omitempty"`
	ID    ChannelID `yaml:"id" json:"id"`
	Kind  Kind      `yaml:"kind" json:"kind"`
	Width int       `yaml:"width" json:"width"`
}

// Validate returns declaration issues, if any.
func (c *Channel) Validate() []error {
	var issues []error
	if !c.Kind.Valid() {
		issues = append(issues, fmt.Errorf("channel %v: unknown kind %q", c.ID, c.Kind))
	}
	if c.Width <= 0 {
		issues = append(issues, fmt.Errorf("channel %v: width must be positive, had %v", c.ID, c.Width))
	}
	return issues
}
