package services

import (
	"strings"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/logger"
)

// MinQueryLength is the boundary policy below which callers must not
// invoke the engine. The engine itself is defined for any non-empty
// query; the cutoff is performance policy, not correctness.
const MinQueryLength = 2

// SearchEngine matches nodes against a substring query and computes the
// ancestor expansion needed to make every match reachable. It operates
// correctly on partially materialised trees, forcing materialisation
// only where a match cannot be ruled out.
type SearchEngine struct {
	mat *domain.Materializer
}

// NewSearchEngine creates a search engine sharing the session's
// materializer.
func NewSearchEngine(mat *domain.Materializer) *SearchEngine {
	return &SearchEngine{mat: mat}
}

// Matches reports whether the node satisfies the query: case-insensitive
// containment against the key and, for string and number scalars, the
// value's literal textual form. Booleans, null, and containers match on
// key only. A cleared value degrades to key-only matching.
func (e *SearchEngine) Matches(n *domain.Node, query string) bool {
	if query == "" {
		return false
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(n.Key), q) {
		return true
	}
	return matchesValue(n, q)
}

// matchesValue applies the value half of the match test. q must already
// be lowercased.
func matchesValue(n *domain.Node, q string) bool {
	value, ok := n.Value()
	if !ok {
		return false
	}
	return scalarContains(value, q)
}

// scalarContains reports whether a string or number value contains q.
// Other shapes never match on value.
func scalarContains(value any, q string) bool {
	switch domain.KindOf(value) {
	case domain.KindString, domain.KindNumber:
		text, _ := domain.ScalarText(value)
		return strings.Contains(strings.ToLower(text), q)
	default:
		return false
	}
}

// rawScan inspects the node's raw container entries directly, without
// materialising anything, to decide whether any immediate child could
// match. The second result reports whether the scan was exhaustive for
// the whole subtree: true only when every entry is a scalar, in which
// case a negative scan proves no match exists below this node.
func (e *SearchEngine) rawScan(n *domain.Node, q string) (hit, exhaustive bool) {
	value, ok := n.Value()
	if !ok {
		// Cleared value: nothing to scan, nothing proven.
		return false, false
	}

	exhaustive = true
	for _, entry := range domain.Entries(value) {
		if strings.Contains(strings.ToLower(entry.Key), q) {
			hit = true
		}
		switch domain.KindOf(entry.Value) {
		case domain.KindObject, domain.KindArray, domain.KindUnknown:
			exhaustive = false
		default:
			if scalarContains(entry.Value, q) {
				hit = true
			}
		}
		if hit && !exhaustive {
			return hit, exhaustive
		}
	}
	return hit, exhaustive
}

// ExpandToRevealMatches walks the subtree, marking exact matches and
// expanding every branch that leads to one. Returns whether the subtree
// contains or leads to a match.
//
// The cheap raw scan only decides whether forcing materialisation is
// worthwhile; match status is set exclusively by the exact check. A
// scalar-only container with a negative scan is skipped outright.
func (e *SearchEngine) ExpandToRevealMatches(n *domain.Node, query string) bool {
	q := strings.ToLower(query)
	return e.expand(n, q)
}

func (e *SearchEngine) expand(n *domain.Node, q string) bool {
	matched := e.matchesLower(n, q)
	if matched {
		n.SetSearchResult(true)
		n.SetExpanded(true)
	}
	if !n.HasChildren() {
		return matched
	}

	hit, exhaustive := e.rawScan(n, q)
	if hit {
		n.SetExpanded(true)
	}

	kids := e.descendants(n, hit, exhaustive)
	anyChild := false
	for _, c := range kids {
		if c.Node != nil && e.expand(c.Node, q) {
			anyChild = true
		}
	}
	if anyChild {
		n.SetExpanded(true)
	}
	return matched || anyChild
}

// CollectMatches returns every matching node in stable pre-order (self
// before children, children in adapter-defined order), forcing
// materialisation along paths that may hold matches. The ordering is
// the contract result navigation relies on.
func (e *SearchEngine) CollectMatches(n *domain.Node, query string) []*domain.Node {
	q := strings.ToLower(query)
	var out []*domain.Node
	e.collect(n, q, &out)
	logger.Debug("Collected %d matches for %q", len(out), query)
	return out
}

func (e *SearchEngine) collect(n *domain.Node, q string, out *[]*domain.Node) {
	if e.matchesLower(n, q) {
		*out = append(*out, n)
	}
	if !n.HasChildren() {
		return
	}
	hit, exhaustive := e.rawScan(n, q)
	for _, c := range e.descendants(n, hit, exhaustive) {
		if c.Node != nil {
			e.collect(c.Node, q, out)
		}
	}
}

// descendants returns the children a search walk must visit. A positive
// scan or a container-bearing subtree forces full materialisation;
// otherwise only already-materialised children are revisited, since the
// scan proved the rest match-free.
func (e *SearchEngine) descendants(n *domain.Node, hit, exhaustive bool) []domain.Child {
	if hit || !exhaustive {
		return e.mat.All(n)
	}
	if n.MaterializedCount() > 0 {
		return n.PeekChildren()
	}
	return nil
}

// matchesLower is Matches with the query already lowercased.
func (e *SearchEngine) matchesLower(n *domain.Node, q string) bool {
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(n.Key), q) {
		return true
	}
	return matchesValue(n, q)
}

// ClearMatches recursively resets every search-result flag without
// touching expansion or materialisation state. Clearing a search must
// not collapse or evict anything by itself.
func (e *SearchEngine) ClearMatches(n *domain.Node) {
	n.SetSearchResult(false)
	for _, c := range n.PeekChildren() {
		if c.Node != nil {
			e.ClearMatches(c.Node)
		}
	}
}

// Next returns the result after currentID, wrapping from the last
// element to the first. An absent currentID yields the first element.
func (e *SearchEngine) Next(results []*domain.Node, currentID int64) *domain.Node {
	if len(results) == 0 {
		return nil
	}
	if i := resultIndex(results, currentID); i >= 0 {
		return results[(i+1)%len(results)]
	}
	return results[0]
}

// Previous returns the result before currentID, wrapping from the first
// element to the last. An absent currentID yields the last element.
func (e *SearchEngine) Previous(results []*domain.Node, currentID int64) *domain.Node {
	if len(results) == 0 {
		return nil
	}
	if i := resultIndex(results, currentID); i >= 0 {
		return results[(i-1+len(results))%len(results)]
	}
	return results[len(results)-1]
}

func resultIndex(results []*domain.Node, id int64) int {
	for i, n := range results {
		if n.ID() == id {
			return i
		}
	}
	return -1
}

// RevealPath force-expands every ancestor of the node, never the node
// itself, guaranteeing reachability in a top-down expanded walk
// independent of search state.
func (e *SearchEngine) RevealPath(n *domain.Node) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		p.SetExpanded(true)
	}
}
