// Package channel provides the runtime buffers backing declared channels and
// the manager owning them.
//
// A streaming channel is a FIFO of fixed-width payloads; a single-value
// channel latches the most recent payload. Every queue operation is atomic
// with respect to other operations on the same queue, so producer and
// consumer processes may be ticked from separate goroutines. No ordering is
// guaranteed between different queues.
package channel
