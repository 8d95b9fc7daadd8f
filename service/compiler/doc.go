// Package compiler turns a validated process definition into an invocable
// compiled function.
//
// This is the reference backend: an interpreter evaluating the body's ops in
// token order. Native lowering backends satisfy the same contract, so the
// runtime and driver layers are backend agnostic.
package compiler
