// Package domain defines the core entities for Skim: the lazily
// materialised JSON tree.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Node: one addressable JSON value within the tree
//   - Child: a tagged entry in a node's child list (real node or continuation)
//   - Continuation: a placeholder for the unmaterialised remainder
//   - Materializer: grows a node's child set in fixed-size batches
//   - Document: an opened file together with its decoded value graph
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
