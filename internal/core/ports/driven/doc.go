// Package driven defines the interfaces the core needs from the outside
// world: file loading, configuration, and the recent-files history.
//
// Driven ports are implemented by adapters (loader, config, storage)
// and consumed by core services and CLI wiring.
package driven
