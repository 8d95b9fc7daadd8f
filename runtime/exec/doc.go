// Package exec drives single activations (ticks) of compiled process bodies.
//
// One Run call validates the caller supplied state and inputs, invokes the
// compiled function with a channel-access trampoline bound to the queue
// manager, and returns the next state. The runtime keeps nothing between
// calls: the driver feeds the returned state back on the next Run, which
// makes the kernel trivially restartable and leaves queue mutation as the
// only cross-tick side effect.
//
// An activation is atomic from the driver's perspective. It never suspends;
// a read on an empty queue fails immediately instead of blocking. Effects
// committed before a mid-activation failure stand: queue operations are
// sequenced effects, not a transaction.
package exec
