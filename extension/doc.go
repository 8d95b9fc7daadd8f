// Package extension holds the registries that let manifests reference Go
// types and natively implemented process bodies by name.
package extension
