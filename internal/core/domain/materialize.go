package domain

// BatchConfig sizes the incremental child materialisation.
type BatchConfig struct {
	// InitialSize is the number of children built on the first read.
	InitialSize int

	// BatchSize is the number of children built per continuation load.
	BatchSize int
}

// DefaultBatchConfig returns the standard batch sizes.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{InitialSize: 50, BatchSize: 50}
}

// Materializer grows a node's child set incrementally in fixed-size
// batches, inserting a continuation placeholder while a remainder
// exists.
type Materializer struct {
	cfg BatchConfig
}

// NewMaterializer creates a materializer. Non-positive sizes fall back
// to the defaults.
func NewMaterializer(cfg BatchConfig) *Materializer {
	def := DefaultBatchConfig()
	if cfg.InitialSize <= 0 {
		cfg.InitialSize = def.InitialSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	return &Materializer{cfg: cfg}
}

// Config returns the effective batch sizes.
func (m *Materializer) Config() BatchConfig {
	return m.cfg
}

// Children returns the node's child list, triggering the initial batch
// synchronously if the node has children that were never materialised.
// The first read is never free; subsequent reads are, until eviction.
func (m *Materializer) Children(n *Node) []Child {
	n.Touch()
	if n.materialized == 0 && n.HasChildren() {
		m.NextBatch(n, true)
	}
	return n.children
}

// NextBatch materialises the next child range past the window,
// [offset+materialized, min(offset+materialized+size, childCount)). It
// is a no-op returning false when the window already reaches the end of
// the container, or when the value was cleared and cannot be re-derived
// from an ancestor's container.
func (m *Materializer) NextBatch(n *Node, initial bool) bool {
	if n.RemainingChildren() <= 0 {
		return false
	}
	value, ok := n.Value()
	if !ok {
		if !n.restoreValue() {
			// No ancestor holds the raw container anymore.
			return false
		}
		value, _ = n.Value()
	}

	size := m.cfg.BatchSize
	if initial {
		size = m.cfg.InitialSize
	}
	lo := n.offset + n.materialized
	hi := min(lo+size, n.childCount)

	// Strip the trailing continuation this batch replaces.
	if k := len(n.children); k > 0 && n.children[k-1].IsContinuation() {
		n.children = n.children[:k-1]
	}

	for _, e := range EntryRange(value, lo, hi) {
		n.children = append(n.children, Child{Node: newNode(e.Key, e.Value, n)})
	}
	n.materialized = hi - n.offset

	if n.RemainingChildren() > 0 {
		n.children = append(n.children, Child{Continuation: &Continuation{parent: n}})
	}
	n.Touch()
	return true
}

// All drives materialisation of the node's children to completion and
// returns the full child list. Used by exact search traversal, which
// must see the head of the container too: a window that no longer
// starts at position zero is rebuilt from scratch first.
func (m *Materializer) All(n *Node) []Child {
	if n.WindowOffset() > 0 {
		n.EvictAllChildren()
	}
	m.Children(n)
	for m.NextBatch(n, false) {
	}
	return n.children
}
