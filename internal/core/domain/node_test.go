package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoot(t *testing.T) {
	root := NewRoot(map[string]any{"a": 1, "b": 2, "c": 3})

	assert.Equal(t, RootKey, root.Key)
	assert.True(t, root.Expanded())
	assert.Equal(t, 3, root.ChildCount())
	assert.True(t, root.HasChildren())
	assert.Equal(t, 0, root.MaterializedCount())
	assert.Empty(t, root.PeekChildren())
	assert.Nil(t, root.Parent())
}

func TestNode_ChildCountNeverTruncated(t *testing.T) {
	big := make([]any, 100000)
	for i := range big {
		big[i] = i
	}

	root := NewRoot(big)

	// Construction over a huge array stays cheap: count cached, no
	// children built.
	assert.Equal(t, 100000, root.ChildCount())
	assert.Equal(t, 0, root.MaterializedCount())
}

func TestNode_UniqueStableIDs(t *testing.T) {
	a := NewRoot("x")
	b := NewRoot("y")

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), a.ID())
}

func TestNode_DefaultExpansion(t *testing.T) {
	mat := NewMaterializer(DefaultBatchConfig())
	root := NewRoot(map[string]any{
		"small": map[string]any{"a": 1, "b": 2},
		"large": map[string]any{"a": 1, "b": 2, "c": 3},
		"leaf":  "value",
	})

	kids := mat.Children(root)
	byKey := map[string]*Node{}
	for _, c := range kids {
		byKey[c.Node.Key] = c.Node
	}

	// Small subtrees start expanded, larger ones collapsed.
	assert.True(t, byKey["small"].Expanded())
	assert.False(t, byKey["large"].Expanded())
	assert.True(t, byKey["leaf"].Expanded())
}

func TestNode_ClearValueKeepsSummaryFields(t *testing.T) {
	root := NewRoot(map[string]any{"a": 1, "b": 2, "c": 3})

	root.ClearValue()

	_, ok := root.Value()
	assert.False(t, ok)
	assert.True(t, root.ValueCleared())
	assert.Equal(t, 3, root.ChildCount())
	assert.True(t, root.HasChildren())
	assert.Equal(t, KindObject, root.Kind())
	assert.Equal(t, "{3 properties}", root.DisplaySummary())
}

func TestNode_Path(t *testing.T) {
	mat := NewMaterializer(DefaultBatchConfig())
	root := NewRoot(map[string]any{
		"users": []any{
			map[string]any{"name": "Ada"},
		},
	})

	users := mat.Children(root)[0].Node
	first := mat.Children(users)[0].Node
	name := mat.Children(first)[0].Node

	assert.Equal(t, "$", root.Path())
	assert.Equal(t, "$.users", users.Path())
	assert.Equal(t, "$.users[0]", first.Path())
	assert.Equal(t, "$.users[0].name", name.Path())
	assert.Equal(t, 3, name.Depth())
}

func TestNode_SubtreeHasSearchResult(t *testing.T) {
	mat := NewMaterializer(DefaultBatchConfig())
	root := NewRoot(map[string]any{"a": map[string]any{"b": 1}})

	a := mat.Children(root)[0].Node
	b := mat.Children(a)[0].Node

	assert.False(t, root.SubtreeHasSearchResult())

	b.SetSearchResult(true)
	assert.True(t, root.SubtreeHasSearchResult())
	assert.True(t, a.SubtreeHasSearchResult())
}

func TestNode_EvictAllChildren(t *testing.T) {
	mat := NewMaterializer(DefaultBatchConfig())
	root := NewRoot(map[string]any{"a": map[string]any{"b": map[string]any{"c": 1}}})

	a := mat.Children(root)[0].Node
	b := mat.Children(a)[0].Node
	mat.Children(b)

	destroyed := root.EvictAllChildren()

	// Whole owned subtree torn down: a, b, c.
	assert.Equal(t, 3, destroyed)
	assert.Empty(t, root.PeekChildren())
	assert.Equal(t, 0, root.MaterializedCount())

	// Re-reading re-materialises fresh instances with new identities.
	again := mat.Children(root)[0].Node
	assert.NotEqual(t, a.ID(), again.ID())
}

func TestNode_DestroyedNodeDegradesGracefully(t *testing.T) {
	mat := NewMaterializer(DefaultBatchConfig())
	root := NewRoot(map[string]any{"name": "Ada", "age": 36})

	kids := mat.Children(root)
	name := kids[1].Node
	require.Equal(t, `"Ada"`, name.DisplaySummary())

	root.EvictAllChildren()

	// A stale reference to an evicted node renders the placeholder
	// instead of observing a nil value.
	assert.True(t, name.ValueCleared())
	assert.Equal(t, "(unavailable)", name.DisplaySummary())
	assert.Equal(t, "", name.CopyableValue())
}

func TestNode_EvictToTail(t *testing.T) {
	arr := make([]any, 30)
	for i := range arr {
		arr[i] = i
	}
	mat := NewMaterializer(BatchConfig{InitialSize: 30, BatchSize: 30})
	root := NewRoot(arr)
	mat.Children(root)
	require.Equal(t, 30, root.MaterializedCount())

	destroyed := root.EvictToTail(10)

	assert.Equal(t, 20, destroyed)
	assert.Equal(t, 10, root.MaterializedCount())
	assert.Equal(t, 20, root.WindowOffset())
	assert.Equal(t, 0, root.RemainingChildren())

	kids := root.PeekChildren()
	// Most-recently-materialised tail retained. Everything past the
	// window was already materialised, so no continuation appears and
	// the next batch is a no-op.
	require.Len(t, kids, 10)
	assert.Equal(t, "[20]", kids[0].Node.Key)
	assert.Equal(t, "[29]", kids[9].Node.Key)
	assert.False(t, mat.NextBatch(root, false))
}

func TestNode_EvictToTailContinuationResumesPastWindow(t *testing.T) {
	arr := make([]any, 300)
	for i := range arr {
		arr[i] = i
	}
	mat := NewMaterializer(BatchConfig{InitialSize: 50, BatchSize: 50})
	root := NewRoot(arr)
	mat.Children(root)
	for root.MaterializedCount() < 250 {
		require.True(t, mat.NextBatch(root, false))
	}

	root.EvictToTail(200)
	require.Equal(t, 50, root.WindowOffset())
	require.Equal(t, 50, root.RemainingChildren())

	kids := root.PeekChildren()
	require.True(t, kids[len(kids)-1].IsContinuation())

	// The continuation resumes past the retained tail, never
	// re-materialising entries the tail still holds.
	require.True(t, mat.NextBatch(root, false))

	seen := map[string]int{}
	for _, c := range root.PeekChildren() {
		if c.Node != nil {
			seen[c.Node.Key]++
		}
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "key %s appears %d times", key, count)
	}
	assert.Len(t, seen, 250)
	assert.Equal(t, "[50]", root.PeekChildren()[0].Node.Key)
	assert.Equal(t, "[299]", root.PeekChildren()[249].Node.Key)
	assert.Equal(t, 0, root.RemainingChildren())
	assert.False(t, mat.NextBatch(root, false))
}

func TestNode_EvictToTailNoopUnderKeep(t *testing.T) {
	mat := NewMaterializer(DefaultBatchConfig())
	root := NewRoot([]any{1, 2, 3})
	mat.Children(root)

	assert.Equal(t, 0, root.EvictToTail(5))
	assert.Equal(t, 3, root.MaterializedCount())
}

func TestContinuation_BeginLoadGuard(t *testing.T) {
	c := &Continuation{}

	assert.False(t, c.Pending())
	assert.True(t, c.BeginLoad())
	assert.True(t, c.Pending())
	// Re-entrant trigger while in flight is a silent no-op.
	assert.False(t, c.BeginLoad())
}
