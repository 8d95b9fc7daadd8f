// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Callers should treat the returned identifiers as opaque strings.
package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier. It is a variable so
// tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }
