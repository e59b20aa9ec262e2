package services

import (
	"time"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/logger"
)

// ReclaimConfig tunes the periodic memory reclamation.
type ReclaimConfig struct {
	// Cap is the materialised-children count above which a sweep evicts
	// down to the most-recently-materialised tail.
	Cap int

	// Interval is the sweep period while a document is open.
	Interval time.Duration

	// IdleAfter is how long a node must go without reads or
	// materialisation before its raw value may be cleared.
	IdleAfter time.Duration

	// ClearDelay is how long after a materialisation batch the deferred
	// value-clear check runs.
	ClearDelay time.Duration
}

// DefaultReclaimConfig returns the standard reclamation tuning.
func DefaultReclaimConfig() ReclaimConfig {
	return ReclaimConfig{
		Cap:        200,
		Interval:   10 * time.Second,
		IdleAfter:  30 * time.Second,
		ClearDelay: 60 * time.Second,
	}
}

// Reclaimer frees previously materialised subtrees to bound memory
// residency. It never evicts a subtree that is, or contains, a live
// search result.
type Reclaimer struct {
	cfg ReclaimConfig
}

// NewReclaimer creates a reclaimer. Non-positive fields fall back to
// the defaults.
func NewReclaimer(cfg ReclaimConfig) *Reclaimer {
	def := DefaultReclaimConfig()
	if cfg.Cap <= 0 {
		cfg.Cap = def.Cap
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = def.IdleAfter
	}
	if cfg.ClearDelay <= 0 {
		cfg.ClearDelay = def.ClearDelay
	}
	return &Reclaimer{cfg: cfg}
}

// Config returns the effective reclamation tuning.
func (r *Reclaimer) Config() ReclaimConfig {
	return r.cfg
}

// Sweep walks the materialised tree and evicts over-sized child sets
// down to the cap, keeping the most-recently-materialised tail. Subtrees
// holding a live search result are skipped entirely; their children are
// still recursed into unchanged. Returns the number of nodes destroyed.
func (r *Reclaimer) Sweep(root *domain.Node) int {
	destroyed := r.sweep(root)
	if destroyed > 0 {
		logger.Debug("Reclaim sweep destroyed %d nodes", destroyed)
	}
	return destroyed
}

func (r *Reclaimer) sweep(n *domain.Node) int {
	destroyed := 0
	if n.MaterializedCount() > r.cfg.Cap && !n.SubtreeHasSearchResult() {
		destroyed += n.EvictToTail(r.cfg.Cap)
	}
	for _, c := range n.PeekChildren() {
		if c.Node != nil {
			destroyed += r.sweep(c.Node)
		}
	}
	return destroyed
}

// UnloadIfCollapsed is the second, state-transition-driven unload path:
// a collapsed node's children are fully discarded and its materialised
// count reset to zero, recursively. Expanded nodes are recursed into
// looking for collapsed descendants. A subtree holding a live search
// result is left alone; the protection invariant applies to both unload
// paths. Returns the number of nodes destroyed.
func (r *Reclaimer) UnloadIfCollapsed(n *domain.Node) int {
	if n.SubtreeHasSearchResult() {
		// A live result below; only descend past the protected branch.
		destroyed := 0
		for _, c := range n.PeekChildren() {
			if c.Node != nil {
				destroyed += r.UnloadIfCollapsed(c.Node)
			}
		}
		return destroyed
	}
	if !n.Expanded() {
		return n.EvictAllChildren()
	}
	destroyed := 0
	for _, c := range n.PeekChildren() {
		if c.Node != nil {
			destroyed += r.UnloadIfCollapsed(c.Node)
		}
	}
	return destroyed
}

// ClearIdleValue discards the node's raw value if it has been idle for
// at least IdleAfter and is currently collapsed. Cached summary fields
// stay valid; display, copy, and search-on-value degrade until the
// value is re-derived from an ancestor on the next materialisation.
func (r *Reclaimer) ClearIdleValue(n *domain.Node) bool {
	if n.ValueCleared() || n.Expanded() {
		return false
	}
	if time.Since(n.LastAccess()) < r.cfg.IdleAfter {
		return false
	}
	if n.SubtreeHasSearchResult() {
		return false
	}
	n.ClearValue()
	return true
}
