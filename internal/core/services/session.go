package services

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/core/ports/driving"
	"github.com/custodia-labs/skim-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.TreeSession = (*Session)(nil)

// SessionConfig tunes one document session.
type SessionConfig struct {
	// Batch sizes child materialisation.
	Batch domain.BatchConfig

	// Reclaim tunes the periodic sweep and value clearing.
	Reclaim ReclaimConfig

	// Debounce is the single-shot delay between the last keystroke and
	// the search actually running.
	Debounce time.Duration

	// MinQueryLength is the boundary below which the engine is never
	// invoked.
	MinQueryLength int

	// AutoLoadDelay is how soon after a continuation becomes visible its
	// batch materialises. Deferred rather than instantaneous to smooth
	// batch-loading bursts.
	AutoLoadDelay time.Duration
}

// DefaultSessionConfig returns the standard session tuning.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Batch:          domain.DefaultBatchConfig(),
		Reclaim:        DefaultReclaimConfig(),
		Debounce:       300 * time.Millisecond,
		MinQueryLength: MinQueryLength,
		AutoLoadDelay:  100 * time.Millisecond,
	}
}

// Session owns one open document: its tree, search state, and timers.
// All tree mutation, whether from user input, the debounced search, the
// reclamation ticker, or deferred continuation loads, is serialised by
// one mutex, so no reader ever observes a torn node.
type Session struct {
	cfg       SessionConfig
	doc       *domain.Document
	mat       *domain.Materializer
	engine    *SearchEngine
	reclaimer *Reclaimer

	mu        sync.Mutex
	root      *domain.Node
	query     string
	results   []*domain.Node
	currentID int64
	debounce  *time.Timer
	closed    bool

	// autoLoad smooths continuation bursts: rapid scrolling through many
	// continuations spreads their loads out instead of spiking.
	autoLoad *rate.Limiter

	events chan driving.SessionEvent
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewSession opens a session over a decoded document and starts its
// reclamation ticker.
func NewSession(doc *domain.Document, cfg SessionConfig) *Session {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultSessionConfig().Debounce
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = MinQueryLength
	}
	if cfg.AutoLoadDelay <= 0 {
		cfg.AutoLoadDelay = DefaultSessionConfig().AutoLoadDelay
	}

	mat := domain.NewMaterializer(cfg.Batch)
	s := &Session{
		cfg:       cfg,
		doc:       doc,
		mat:       mat,
		engine:    NewSearchEngine(mat),
		reclaimer: NewReclaimer(cfg.Reclaim),
		root:      domain.NewRoot(doc.Value),
		autoLoad:  rate.NewLimiter(rate.Every(cfg.AutoLoadDelay), 4),
		events:    make(chan driving.SessionEvent, 16),
		stopCh:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.reclaimLoop()

	logger.Debug("Session opened for %s (%d bytes)", doc.Name, doc.Size)
	return s
}

// Document returns the open document.
func (s *Session) Document() *domain.Document {
	return s.doc
}

// Root returns the tree root.
func (s *Session) Root() *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// Children returns the node's child list, materialising the initial
// batch on first read and scheduling the deferred value-clear check for
// any batch that ran.
func (s *Session) Children(n *domain.Node) []domain.Child {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	before := n.MaterializedCount()
	kids := s.mat.Children(n)
	if n.MaterializedCount() != before {
		s.scheduleValueClearLocked(n)
	}
	return kids
}

// Describe returns a render snapshot of the node. Snapshots keep the
// presentation goroutine from reading node fields concurrently with the
// reclaim ticker and deferred load timers.
func (s *Session) Describe(n *domain.Node) driving.NodeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return driving.NodeView{
		ID:           n.ID(),
		Key:          n.Key,
		Kind:         n.Kind(),
		Summary:      n.DisplaySummary(),
		ValueCleared: n.ValueCleared(),
		Expanded:     n.Expanded(),
		HasChildren:  n.HasChildren(),
		SearchResult: n.SearchResult(),
		Remaining:    n.RemainingChildren(),
	}
}

// CopyValue returns the node's clipboard text under the session lock.
func (s *Session) CopyValue(n *domain.Node) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return n.CopyableValue()
}

// ToggleExpanded flips a node's expansion state. Collapsing triggers the
// opportunistic unload path for the subtree.
func (s *Session) ToggleExpanded(n *domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	n.SetExpanded(!n.Expanded())
	if !n.Expanded() {
		s.reclaimer.UnloadIfCollapsed(n)
	}
}

// TriggerContinuation schedules materialisation of the continuation's
// batch shortly after the call. A second trigger while one is pending is
// a silent no-op, not an error.
func (s *Session) TriggerContinuation(c *domain.Continuation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !c.BeginLoad() {
		return
	}

	delay := s.cfg.AutoLoadDelay
	if res := s.autoLoad.Reserve(); res.OK() {
		if d := res.Delay(); d > delay {
			delay = d
		}
	}

	parent := c.Parent()
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		if s.mat.NextBatch(parent, false) {
			s.scheduleValueClearLocked(parent)
			s.notifyLocked(driving.EventBatchLoaded)
		}
	})
}

// SetQuery updates the active query, re-arming the debounce timer. Empty
// queries bypass the timer and clear immediately; queries below the
// minimum length are treated as no search and never reach the engine.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.query = q
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}

	trimmed := strings.TrimSpace(q)
	if len([]rune(trimmed)) < s.cfg.MinQueryLength {
		// Zero-latency clear is a UX contract, not an optimisation.
		s.clearSearchLocked()
		s.notifyLocked(driving.EventSearchCompleted)
		return
	}

	s.debounce = time.AfterFunc(s.cfg.Debounce, func() {
		s.runSearch(trimmed)
	})
}

// runSearch is the debounce timer body.
func (s *Session) runSearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || q != strings.TrimSpace(s.query) {
		// A newer keystroke invalidated this timer between fire and lock.
		return
	}

	logger.Section("Tree Search")
	logger.Debug("Query: %q", q)

	s.engine.ClearMatches(s.root)
	s.engine.ExpandToRevealMatches(s.root, q)
	s.results = s.engine.CollectMatches(s.root, q)
	s.currentID = 0
	s.notifyLocked(driving.EventSearchCompleted)
}

// clearSearchLocked resets match state and runs the collapsed-subtree
// unload that follows a cleared query.
func (s *Session) clearSearchLocked() {
	s.engine.ClearMatches(s.root)
	s.results = nil
	s.currentID = 0
	s.reclaimer.UnloadIfCollapsed(s.root)
}

// Query returns the active query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the current ordered match list.
func (s *Session) Results() []*domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// NextResult advances circularly through the match list and reveals the
// selection's ancestor path.
func (s *Session) NextResult() *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepResultLocked(s.engine.Next)
}

// PreviousResult steps circularly backwards through the match list.
func (s *Session) PreviousResult() *domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepResultLocked(s.engine.Previous)
}

func (s *Session) stepResultLocked(step func([]*domain.Node, int64) *domain.Node) *domain.Node {
	n := step(s.results, s.currentID)
	if n == nil {
		return nil
	}
	s.currentID = n.ID()
	s.engine.RevealPath(n)
	return n
}

// RevealPath expands every ancestor of the node.
func (s *Session) RevealPath(n *domain.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.RevealPath(n)
}

// Stats returns current residency and match counts.
func (s *Session) Stats() driving.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := 0
	if s.currentID != 0 {
		for i, n := range s.results {
			if n.ID() == s.currentID {
				current = i + 1
				break
			}
		}
	}
	return driving.SessionStats{
		Materialized: countMaterialized(s.root),
		Matches:      len(s.results),
		CurrentMatch: current,
	}
}

func countMaterialized(n *domain.Node) int {
	total := 1
	for _, c := range n.PeekChildren() {
		if c.Node != nil {
			total += countMaterialized(c.Node)
		}
	}
	return total
}

// Events delivers asynchronous change notifications.
func (s *Session) Events() <-chan driving.SessionEvent {
	return s.events
}

// Close synchronously cancels the reclamation ticker and any pending
// debounce before discarding the tree, so no stale timer mutates nodes
// being torn down. Deferred one-shot timers that fire later observe the
// closed flag and return without touching the tree.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.root.EvictAllChildren()
	s.results = nil
	s.mu.Unlock()

	close(s.events)
	logger.Debug("Session closed for %s", s.doc.Name)
	return nil
}

// reclaimLoop is the periodic reclamation timer, independent of the
// search debounce, running while the document is open.
func (s *Session) reclaimLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.reclaimer.Config().Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			destroyed := s.reclaimer.Sweep(s.root)
			if destroyed > 0 {
				s.notifyLocked(driving.EventReclaimed)
			}
			s.mu.Unlock()
		}
	}
}

// scheduleValueClearLocked arms the deferred raw-value clear that
// follows each materialisation batch.
func (s *Session) scheduleValueClearLocked(n *domain.Node) {
	time.AfterFunc(s.reclaimer.Config().ClearDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		if s.reclaimer.ClearIdleValue(n) {
			logger.Debug("Cleared idle value at %s", n.Path())
		}
	})
}

// notifyLocked delivers an event without blocking the mutation stream.
// A full channel drops the event; the UI re-reads state on the next one.
func (s *Session) notifyLocked(ev driving.SessionEvent) {
	select {
	case s.events <- ev:
	default:
	}
}
