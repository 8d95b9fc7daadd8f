// Package model contains the in-memory representation of process network
// definitions: channels, processes and their op bodies.
//
// A network is typically loaded from a YAML manifest into the structures
// defined here and validated with Network.Validate before a runtime is built
// from it. Validation is the construction-time boundary: a network that
// passes Validate never fails on channel identity or token wiring at tick
// time.
package model
