// Package driving defines the interfaces through which external actors
// (CLI commands, the TUI) drive the core.
//
// Driving ports are implemented by core services and consumed by
// driving adapters. They express what the application can do, not how.
package driving
