package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
)

func newEngine() (*SearchEngine, *domain.Materializer) {
	mat := domain.NewMaterializer(domain.DefaultBatchConfig())
	return NewSearchEngine(mat), mat
}

func TestSearchEngine_Matches(t *testing.T) {
	engine, mat := newEngine()
	root := domain.NewRoot(map[string]any{
		"userName": "John Smith",
		"age":      json.Number("42"),
		"active":   true,
		"address":  nil,
		"tags":     []any{"alpha"},
	})
	byKey := map[string]*domain.Node{}
	for _, c := range mat.All(root) {
		byKey[c.Node.Key] = c.Node
	}

	// Case-insensitive containment on key.
	assert.True(t, engine.Matches(byKey["userName"], "username"))
	assert.True(t, engine.Matches(byKey["userName"], "Name"))

	// String values match on contents.
	assert.True(t, engine.Matches(byKey["userName"], "john"))

	// Numbers match against their literal text.
	assert.True(t, engine.Matches(byKey["age"], "42"))

	// Booleans and null match on key only, never value.
	assert.False(t, engine.Matches(byKey["active"], "true"))
	assert.True(t, engine.Matches(byKey["active"], "activ"))
	assert.False(t, engine.Matches(byKey["address"], "null"))

	// Containers never match on value.
	assert.False(t, engine.Matches(byKey["tags"], "alpha"))
	assert.True(t, engine.Matches(byKey["tags"], "tag"))

	// Empty query matches nothing.
	assert.False(t, engine.Matches(root, ""))
}

func TestSearchEngine_MatchesClearedValueDegradesToKeyOnly(t *testing.T) {
	engine, mat := newEngine()
	root := domain.NewRoot(map[string]any{"email": "john@example.com"})
	email := mat.Children(root)[0].Node

	require.True(t, engine.Matches(email, "example"))

	email.ClearValue()

	// Value text is gone; the key still matches.
	assert.False(t, engine.Matches(email, "example"))
	assert.True(t, engine.Matches(email, "email"))
}

func TestSearchEngine_ExpandToRevealMatches_NestedMatch(t *testing.T) {
	engine, mat := newEngine()
	root := domain.NewRoot(map[string]any{
		"aaa": map[string]any{"irrelevant1": 1, "irrelevant2": 2, "irrelevant3": 3},
		"bbb": map[string]any{
			"ccc": map[string]any{
				"ddd": map[string]any{"person": "John", "x": 1, "y": 2},
				"eee": 5,
				"fff": 6,
			},
			"gg": 7,
			"hh": 8,
		},
		"zzz": 9,
	})

	found := engine.ExpandToRevealMatches(root, "John")
	require.True(t, found)

	kids := mat.Children(root)
	var bbb, aaa *domain.Node
	for _, c := range kids {
		switch c.Node.Key {
		case "bbb":
			bbb = c.Node
		case "aaa":
			aaa = c.Node
		}
	}

	// All three ancestors of the match are expanded.
	assert.True(t, root.Expanded())
	require.NotNil(t, bbb)
	assert.True(t, bbb.Expanded())

	var ccc *domain.Node
	for _, c := range bbb.PeekChildren() {
		if c.Node != nil && c.Node.Key == "ccc" {
			ccc = c.Node
		}
	}
	require.NotNil(t, ccc)
	assert.True(t, ccc.Expanded())

	var ddd *domain.Node
	for _, c := range ccc.PeekChildren() {
		if c.Node != nil && c.Node.Key == "ddd" {
			ddd = c.Node
		}
	}
	require.NotNil(t, ddd)
	assert.True(t, ddd.Expanded())

	var person *domain.Node
	for _, c := range ddd.PeekChildren() {
		if c.Node != nil && c.Node.Key == "person" {
			person = c.Node
		}
	}
	require.NotNil(t, person)
	assert.True(t, person.SearchResult())

	// The non-matching sibling branch keeps its pre-search expansion
	// state (childCount 3 > 2, so collapsed).
	require.NotNil(t, aaa)
	assert.False(t, aaa.Expanded())
}

func TestSearchEngine_ExpandSkipsScalarOnlySubtreesWithoutMatch(t *testing.T) {
	engine, mat := newEngine()
	wide := make(map[string]any, 500)
	for i := 0; i < 500; i++ {
		wide[keyName(i)] = i
	}
	root := domain.NewRoot(map[string]any{"wide": wide, "needleHome": "zzfindme"})

	found := engine.ExpandToRevealMatches(root, "zzfindme")
	require.True(t, found)

	var wideNode *domain.Node
	for _, c := range mat.Children(root) {
		if c.Node != nil && c.Node.Key == "wide" {
			wideNode = c.Node
		}
	}
	require.NotNil(t, wideNode)

	// The raw scan ruled the scalar-only container out: nothing under it
	// was materialised just to answer the search.
	assert.Equal(t, 0, wideNode.MaterializedCount())
	assert.False(t, wideNode.Expanded())
}

func keyName(i int) string {
	return "entry" + string(rune('a'+i%26)) + "_" + string(rune('0'+i%10))
}

func TestSearchEngine_CollectMatchesPreOrder(t *testing.T) {
	engine, _ := newEngine()
	root := domain.NewRoot(map[string]any{
		"match_b": map[string]any{
			"match_inner": 1,
			"other":       2,
		},
		"match_a": "x",
		"plain":   "match_value",
	})

	results := engine.CollectMatches(root, "match")

	keys := make([]string, 0, len(results))
	for _, n := range results {
		keys = append(keys, n.Key)
	}
	// Pre-order, children in lexicographic key order.
	assert.Equal(t, []string{"match_a", "match_b", "match_inner", "plain"}, keys)
}

func TestSearchEngine_CollectMatchesIdempotent(t *testing.T) {
	engine, _ := newEngine()
	root := domain.NewRoot(map[string]any{
		"alpha": []any{"match1", "match2"},
		"beta":  "match3",
	})

	first := engine.CollectMatches(root, "match")
	second := engine.CollectMatches(root, "match")

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID(), second[i].ID())
	}
}

func TestSearchEngine_Navigation(t *testing.T) {
	engine, _ := newEngine()
	root := domain.NewRoot([]any{"m1", "m2", "m3"})
	results := engine.CollectMatches(root, "m")
	require.Len(t, results, 3)

	// next wraps from the last element to the first.
	assert.Equal(t, results[1].ID(), engine.Next(results, results[0].ID()).ID())
	assert.Equal(t, results[0].ID(), engine.Next(results, results[2].ID()).ID())

	// previous wraps from the first element to the last.
	assert.Equal(t, results[2].ID(), engine.Previous(results, results[0].ID()).ID())

	// Absent id: next yields the first, previous the last.
	assert.Equal(t, results[0].ID(), engine.Next(results, -1).ID())
	assert.Equal(t, results[2].ID(), engine.Previous(results, -1).ID())

	// Empty results yield nil.
	assert.Nil(t, engine.Next(nil, 1))
	assert.Nil(t, engine.Previous(nil, 1))
}

func TestSearchEngine_NavigationRoundTrips(t *testing.T) {
	engine, _ := newEngine()
	root := domain.NewRoot([]any{"m1", "m2", "m3", "m4"})
	results := engine.CollectMatches(root, "m")
	require.Len(t, results, 4)

	// next called N times from any start returns to the start.
	cur := results[2].ID()
	for i := 0; i < len(results); i++ {
		cur = engine.Next(results, cur).ID()
	}
	assert.Equal(t, results[2].ID(), engine.Previous(results, engine.Next(results, cur).ID()).ID())
	assert.Equal(t, results[2].ID(), cur)
}

func TestSearchEngine_ClearMatches(t *testing.T) {
	engine, mat := newEngine()
	root := domain.NewRoot(map[string]any{"match_key": map[string]any{"match_sub": 1}})

	engine.ExpandToRevealMatches(root, "match")
	outer := mat.Children(root)[0].Node
	require.True(t, outer.SearchResult())
	wasExpanded := outer.Expanded()
	wasMaterialized := outer.MaterializedCount()

	engine.ClearMatches(root)

	// Flags reset; expansion and materialisation untouched.
	assert.False(t, root.SearchResult())
	assert.False(t, outer.SearchResult())
	assert.Equal(t, wasExpanded, outer.Expanded())
	assert.Equal(t, wasMaterialized, outer.MaterializedCount())
}

func TestSearchEngine_RevealPath(t *testing.T) {
	engine, mat := newEngine()
	root := domain.NewRoot(map[string]any{
		"l1a": 1, "l1b": 2, "l1c": 3,
		"l1d": map[string]any{
			"l2a": 1, "l2b": 2, "l2c": 3,
			"l2d": map[string]any{"leaf": 1, "x": 2, "y": 3, "z": 4},
		},
	})

	l1d := findChild(t, mat, root, "l1d")
	l2d := findChild(t, mat, l1d, "l2d")
	leaf := findChild(t, mat, l2d, "leaf")

	l1d.SetExpanded(false)
	l2d.SetExpanded(false)
	leaf.SetExpanded(false)

	engine.RevealPath(leaf)

	assert.True(t, root.Expanded())
	assert.True(t, l1d.Expanded())
	assert.True(t, l2d.Expanded())
	// The node's own expansion is never touched.
	assert.False(t, leaf.Expanded())
}

func findChild(t *testing.T, mat *domain.Materializer, n *domain.Node, key string) *domain.Node {
	t.Helper()
	for _, c := range mat.All(n) {
		if c.Node != nil && c.Node.Key == key {
			return c.Node
		}
	}
	t.Fatalf("child %q not found under %s", key, n.Path())
	return nil
}
