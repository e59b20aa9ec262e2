package driving

import (
	"github.com/custodia-labs/skim-cli/internal/core/domain"
)

// SessionEvent notifies the presentation layer of asynchronous tree
// changes it should re-render for.
type SessionEvent int

const (
	// EventSearchCompleted fires when a debounced search has run (or a
	// query was cleared) and the result list changed.
	EventSearchCompleted SessionEvent = iota
	// EventBatchLoaded fires when a deferred continuation load
	// materialised a batch.
	EventBatchLoaded
	// EventReclaimed fires when a reclamation sweep evicted nodes.
	EventReclaimed
)

// SessionStats summarises a session for status display.
type SessionStats struct {
	// Materialized is the number of live node instances under the root,
	// root included.
	Materialized int

	// Matches is the size of the current search result list.
	Matches int

	// CurrentMatch is the 1-based position of the selected result in
	// the match list, 0 while no result is selected.
	CurrentMatch int
}

// NodeView is a render snapshot of one node, captured atomically with
// respect to the session's mutation stream. The presentation layer
// holds NodeViews across event-loop iterations instead of reading live
// nodes, which background timers mutate under the session lock.
type NodeView struct {
	ID           int64
	Key          string
	Kind         domain.Kind
	Summary      string
	ValueCleared bool
	Expanded     bool
	HasChildren  bool
	SearchResult bool

	// Remaining is how many children past the materialised window are
	// still unloaded, the count a continuation row displays.
	Remaining int
}

// TreeSession is the surface the presentation layer drives a single
// open document through. One session owns one tree and its timers;
// nothing is shared across documents.
//
// Reading Children triggers batched materialisation as a side effect.
// All mutation runs on the session's single logical stream; methods are
// safe to call from the UI goroutine and from timers.
type TreeSession interface {
	// Document returns the open document.
	Document() *domain.Document

	// Root returns the tree root. Its key is the RootKey sentinel and
	// it starts expanded.
	Root() *domain.Node

	// Children returns the node's child list, materialising the initial
	// batch on first read.
	Children(n *domain.Node) []domain.Child

	// Describe returns a render snapshot of the node, read atomically
	// with respect to the mutation stream.
	Describe(n *domain.Node) NodeView

	// CopyValue returns the node's clipboard text, read atomically with
	// respect to the mutation stream.
	CopyValue(n *domain.Node) string

	// ToggleExpanded flips a node's expansion state. A collapse
	// transition opportunistically unloads the subtree.
	ToggleExpanded(n *domain.Node)

	// TriggerContinuation schedules the next batch for a visible
	// continuation shortly after the call. Re-entrant triggers while a
	// load is pending are silent no-ops.
	TriggerContinuation(c *domain.Continuation)

	// SetQuery updates the active query. Each call re-arms the debounce
	// timer; an empty query clears immediately, and queries below the
	// minimum length never invoke the search engine.
	SetQuery(q string)

	// Query returns the active query.
	Query() string

	// Results returns the current ordered match list.
	Results() []*domain.Node

	// NextResult advances circularly through the match list, revealing
	// the selected node's ancestor path. Returns nil without results.
	NextResult() *domain.Node

	// PreviousResult steps circularly backwards through the match list.
	PreviousResult() *domain.Node

	// RevealPath expands every ancestor of the node so it is reachable
	// in a top-down expanded walk.
	RevealPath(n *domain.Node)

	// Stats returns current residency and match counts.
	Stats() SessionStats

	// Events delivers asynchronous change notifications. The channel is
	// closed when the session closes.
	Events() <-chan SessionEvent

	// Close cancels the session's timers synchronously and discards the
	// tree. Further calls are no-ops.
	Close() error
}
