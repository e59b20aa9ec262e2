// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage for viewer tuning
//     (batch sizes, reclamation cap and intervals, search debounce)
package file
