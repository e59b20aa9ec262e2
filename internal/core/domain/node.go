package domain

import (
	"strings"
	"sync/atomic"
	"time"
)

// RootKey is the reserved key sentinel for a document's root node.
const RootKey = "root"

// smallSubtreeMax is the child count at or below which a non-root node
// starts expanded. Bounds initial render cost for flat documents while
// avoiding default explosion on deep ones.
const smallSubtreeMax = 2

// nodeIDs issues stable, process-wide unique node identifiers.
// Identifiers are never reused, even if a node is evicted and the same
// position is later re-materialised as a different instance.
var nodeIDs atomic.Int64

func nextNodeID() int64 {
	return nodeIDs.Add(1)
}

// Node represents one JSON value at one tree position.
//
// A node exclusively owns its materialised children; children hold a
// non-owning back-reference to their parent used for lookup only.
// Mutating methods are not safe for concurrent use: the session layer
// serialises all tree mutation on a single logical stream.
type Node struct {
	// Key is the label under which this value is referenced by its
	// parent: a property name, a synthetic "[i]" index label, or the
	// RootKey sentinel.
	Key string

	id           int64
	kind         Kind
	value        any
	valueCleared bool
	childCount   int
	parent       *Node
	children     []Child

	// The materialised children form one contiguous window over the
	// container's display order, covering source positions
	// [offset, offset+materialized). Eviction advances offset so a
	// continuation resumes past the retained tail instead of
	// re-materialising it.
	offset       int
	materialized int

	expanded     bool
	searchResult bool
	lastAccess   time.Time
}

// Child is one entry in a node's child list: a closed tagged variant
// holding either a real node or a continuation placeholder. Exactly one
// of the two fields is non-nil.
type Child struct {
	// Node is the real child node, nil for a continuation entry.
	Node *Node

	// Continuation is the load-more placeholder, nil for a real node.
	Continuation *Continuation
}

// IsContinuation reports whether this entry is the placeholder for the
// unmaterialised remainder.
func (c Child) IsContinuation() bool {
	return c.Continuation != nil
}

// Continuation signals that more items exist under its parent but are
// not yet materialised. It carries no decoded value and has no children.
// It is transient: replaced the moment the batch it represents is
// materialised.
type Continuation struct {
	parent  *Node
	pending bool
}

// Parent returns the node whose remainder this continuation represents.
func (c *Continuation) Parent() *Node {
	return c.parent
}

// Pending reports whether a materialisation for this continuation is
// already in flight.
func (c *Continuation) Pending() bool {
	return c.pending
}

// BeginLoad sets the in-flight guard. It returns false if a load is
// already pending, in which case the caller must treat the trigger as a
// silent no-op.
func (c *Continuation) BeginLoad() bool {
	if c.pending {
		return false
	}
	c.pending = true
	return true
}

// NewRoot constructs the root node for a decoded document value.
// No children are materialised; constructing a root over a
// million-entry array is cheap.
func NewRoot(value any) *Node {
	n := newNode(RootKey, value, nil)
	n.expanded = true
	return n
}

// newNode constructs a node for one decoded value. childCount is cached
// from the full underlying collection size, never truncated.
func newNode(key string, value any, parent *Node) *Node {
	count := ChildLen(value)
	return &Node{
		Key:        key,
		id:         nextNodeID(),
		kind:       KindOf(value),
		value:      value,
		childCount: count,
		parent:     parent,
		expanded:   count <= smallSubtreeMax,
		lastAccess: time.Now(),
	}
}

// ID returns the stable node identifier.
func (n *Node) ID() int64 { return n.id }

// Kind returns the classification cached at construction.
func (n *Node) Kind() Kind { return n.kind }

// Value returns the wrapped decoded value. The second result is false
// once the value has been cleared to save memory.
func (n *Node) Value() (any, bool) {
	if n.valueCleared {
		return nil, false
	}
	return n.value, true
}

// ValueCleared reports whether the wrapped value has been discarded.
func (n *Node) ValueCleared() bool { return n.valueCleared }

// ClearValue discards the wrapped value. Cached summary fields
// (ChildCount, Kind) stay valid; display, copy, and search-on-value
// degrade until the value is re-derived from an ancestor's container on
// the next materialisation. The node is not considered evicted.
func (n *Node) ClearValue() {
	n.value = nil
	n.valueCleared = true
}

// restoreValue re-derives a cleared value from the parent's container
// entry for this key, restoring cleared ancestors first. Returns false
// when no ancestor still holds a raw container to derive from.
func (n *Node) restoreValue() bool {
	if !n.valueCleared {
		return true
	}
	if n.parent == nil {
		return false
	}
	if !n.parent.restoreValue() {
		return false
	}
	v, ok := ChildValue(n.parent.value, n.Key)
	if !ok {
		return false
	}
	n.value = v
	n.valueCleared = false
	return true
}

// ChildCount returns the full size of the underlying container,
// regardless of how many children are materialised.
func (n *Node) ChildCount() int { return n.childCount }

// HasChildren reports whether the underlying container is non-empty.
func (n *Node) HasChildren() bool { return n.childCount > 0 }

// MaterializedCount returns how many children currently exist as real
// node instances. Always <= ChildCount; the continuation placeholder is
// excluded.
func (n *Node) MaterializedCount() int { return n.materialized }

// WindowOffset returns the source position of the first materialised
// child. Non-zero after an eviction retained only the tail of a larger
// window.
func (n *Node) WindowOffset() int { return n.offset }

// RemainingChildren returns how many children past the materialised
// window are still unmaterialised. This is the count a continuation
// placeholder stands for.
func (n *Node) RemainingChildren() int { return n.childCount - n.offset - n.materialized }

// Expanded reports the visibility of this node's children.
func (n *Node) Expanded() bool { return n.expanded }

// SetExpanded sets the visibility of this node's children.
func (n *Node) SetExpanded(v bool) { n.expanded = v }

// SearchResult reports whether this node matches the active query.
func (n *Node) SearchResult() bool { return n.searchResult }

// SetSearchResult marks or unmarks this node as a live match. A live
// match protects its subtree from reclamation.
func (n *Node) SetSearchResult(v bool) { n.searchResult = v }

// Parent returns the non-owning parent back-reference, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// LastAccess returns when children were last read or materialised.
// A staleness hint for opportunistic clearing, never a correctness
// signal.
func (n *Node) LastAccess() time.Time { return n.lastAccess }

// Touch updates the access time.
func (n *Node) Touch() { n.lastAccess = time.Now() }

// PeekChildren returns the current child list without triggering
// materialisation. Use Materializer.Children for the side-effecting
// read.
func (n *Node) PeekChildren() []Child { return n.children }

// Depth returns the number of ancestors above this node.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Path returns a jq-style path from the root to this node, e.g.
// "$.users[3].name". The root renders as "$".
func (n *Node) Path() string {
	if n.parent == nil {
		return "$"
	}
	var segs []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		segs = append(segs, cur.Key)
	}
	var b strings.Builder
	b.WriteString("$")
	for i := len(segs) - 1; i >= 0; i-- {
		if !strings.HasPrefix(segs[i], "[") {
			b.WriteString(".")
		}
		b.WriteString(segs[i])
	}
	return b.String()
}

// SubtreeHasSearchResult reports whether this node or any node in its
// materialised subtree is a live match. Unmaterialised entries cannot be
// flagged and are not inspected.
func (n *Node) SubtreeHasSearchResult() bool {
	if n.searchResult {
		return true
	}
	for _, c := range n.children {
		if c.Node != nil && c.Node.SubtreeHasSearchResult() {
			return true
		}
	}
	return false
}

// EvictAllChildren discards every materialised child and resets the
// materialised count to zero. Evicted subtrees are torn down bottom-up.
// Returns the number of nodes destroyed.
func (n *Node) EvictAllChildren() int {
	destroyed := 0
	for _, c := range n.children {
		if c.Node != nil {
			destroyed += c.Node.destroy()
		}
	}
	n.children = nil
	n.offset = 0
	n.materialized = 0
	return destroyed
}

// EvictToTail retains only the most-recently-materialised keep-sized
// suffix of children, tearing the evicted nodes' own subtrees down
// first. The window offset advances past the evicted prefix so the next
// batch resumes after the retained tail, and a continuation is
// re-inserted only if an unmaterialised remainder still exists past the
// window. Returns the number of nodes destroyed.
func (n *Node) EvictToTail(keep int) int {
	if keep < 0 {
		keep = 0
	}

	real := make([]Child, 0, len(n.children))
	for _, c := range n.children {
		if c.Node != nil {
			real = append(real, c)
		}
	}
	if len(real) <= keep {
		return 0
	}

	destroyed := 0
	cut := len(real) - keep
	for _, c := range real[:cut] {
		destroyed += c.Node.destroy()
	}

	n.children = append([]Child(nil), real[cut:]...)
	n.offset += cut
	n.materialized = keep
	if n.RemainingChildren() > 0 {
		n.children = append(n.children, Child{Continuation: &Continuation{parent: n}})
	}
	return destroyed
}

// destroy tears down this node's owned subtree, children before self,
// and returns the number of nodes destroyed including this one. The
// value is marked cleared, not merely nilled, so a stale reference held
// by the presentation layer degrades to the placeholder instead of
// observing a nil value.
func (n *Node) destroy() int {
	destroyed := 1
	for _, c := range n.children {
		if c.Node != nil {
			destroyed += c.Node.destroy()
		}
	}
	n.children = nil
	n.offset = 0
	n.materialized = 0
	n.value = nil
	n.valueCleared = true
	return destroyed
}
