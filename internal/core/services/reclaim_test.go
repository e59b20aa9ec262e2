package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
)

func intArray(n int) []any {
	arr := make([]any, n)
	for i := range arr {
		arr[i] = i
	}
	return arr
}

func TestReclaimer_SweepEvictsToCap(t *testing.T) {
	mat := domain.NewMaterializer(domain.BatchConfig{InitialSize: 250, BatchSize: 250})
	root := domain.NewRoot(intArray(300))
	mat.Children(root)
	require.Equal(t, 250, root.MaterializedCount())

	r := NewReclaimer(ReclaimConfig{Cap: 200})
	destroyed := r.Sweep(root)

	assert.Equal(t, 50, destroyed)
	assert.Equal(t, 200, root.MaterializedCount())

	kids := root.PeekChildren()
	require.Len(t, kids, 201)
	// The most-recently-materialised 200 survive.
	assert.Equal(t, "[50]", kids[0].Node.Key)
	assert.Equal(t, "[249]", kids[199].Node.Key)
	// Remainder exists again: continuation re-inserted.
	assert.True(t, kids[200].IsContinuation())
}

func TestReclaimer_SweepTearsDownSubtreesBottomUp(t *testing.T) {
	items := make([]any, 250)
	for i := range items {
		items[i] = map[string]any{"id": i}
	}
	mat := domain.NewMaterializer(domain.BatchConfig{InitialSize: 250, BatchSize: 250})
	root := domain.NewRoot(items)
	kids := mat.Children(root)

	// Materialise a grandchild in a node that will be evicted.
	first := kids[0].Node
	mat.Children(first)
	require.Equal(t, 1, first.MaterializedCount())

	r := NewReclaimer(ReclaimConfig{Cap: 200})
	destroyed := r.Sweep(root)

	// 50 children evicted plus the one materialised grandchild.
	assert.Equal(t, 51, destroyed)
	assert.Equal(t, 0, first.MaterializedCount())
	assert.Empty(t, first.PeekChildren())
}

func TestReclaimer_SweepSkipsProtectedSubtree(t *testing.T) {
	mat := domain.NewMaterializer(domain.BatchConfig{InitialSize: 250, BatchSize: 250})
	root := domain.NewRoot(intArray(300))
	kids := mat.Children(root)
	require.Equal(t, 250, root.MaterializedCount())

	// One live match anywhere in the materialised subtree protects it.
	kids[3].Node.SetSearchResult(true)
	before := root.PeekChildren()

	r := NewReclaimer(ReclaimConfig{Cap: 200})
	destroyed := r.Sweep(root)

	assert.Equal(t, 0, destroyed)
	assert.Equal(t, 250, root.MaterializedCount())
	assert.Equal(t, len(before), len(root.PeekChildren()))
	assert.Equal(t, before[0].Node.ID(), root.PeekChildren()[0].Node.ID())
}

func TestReclaimer_SweepUnderCapUntouched(t *testing.T) {
	mat := domain.NewMaterializer(domain.DefaultBatchConfig())
	root := domain.NewRoot(intArray(120))
	mat.All(root)

	r := NewReclaimer(ReclaimConfig{Cap: 200})
	assert.Equal(t, 0, r.Sweep(root))
	assert.Equal(t, 120, root.MaterializedCount())
}

func TestReclaimer_UnloadIfCollapsed(t *testing.T) {
	mat := domain.NewMaterializer(domain.DefaultBatchConfig())
	root := domain.NewRoot(map[string]any{
		"open":   map[string]any{"a": 1, "b": 2, "c": 3},
		"closed": map[string]any{"x": 1, "y": 2, "z": 3},
	})
	kids := mat.Children(root)
	open, closed := kids[1].Node, kids[0].Node
	mat.Children(open)
	mat.Children(closed)
	open.SetExpanded(true)
	closed.SetExpanded(false)

	r := NewReclaimer(DefaultReclaimConfig())
	destroyed := r.UnloadIfCollapsed(root)

	// The collapsed subtree is fully discarded, the expanded one kept.
	assert.Equal(t, 3, destroyed)
	assert.Equal(t, 0, closed.MaterializedCount())
	assert.Empty(t, closed.PeekChildren())
	assert.Equal(t, 3, open.MaterializedCount())
}

func TestReclaimer_UnloadIfCollapsedSparesLiveResults(t *testing.T) {
	mat := domain.NewMaterializer(domain.DefaultBatchConfig())
	root := domain.NewRoot(map[string]any{"sub": map[string]any{"a": 1, "b": 2, "c": 3}})
	sub := mat.Children(root)[0].Node
	subKids := mat.Children(sub)
	sub.SetExpanded(false)
	subKids[0].Node.SetSearchResult(true)

	r := NewReclaimer(DefaultReclaimConfig())
	destroyed := r.UnloadIfCollapsed(root)

	assert.Equal(t, 0, destroyed)
	assert.Equal(t, 3, sub.MaterializedCount())
}

func TestReclaimer_ClearIdleValue(t *testing.T) {
	r := NewReclaimer(ReclaimConfig{IdleAfter: time.Millisecond})

	n := domain.NewRoot(map[string]any{"a": 1, "b": 2, "c": 3})
	n.SetExpanded(false)
	time.Sleep(5 * time.Millisecond)

	assert.True(t, r.ClearIdleValue(n))
	assert.True(t, n.ValueCleared())

	// Idempotent: already cleared.
	assert.False(t, r.ClearIdleValue(n))
}

func TestReclaimer_ClearIdleValueSkipsExpandedAndFresh(t *testing.T) {
	r := NewReclaimer(ReclaimConfig{IdleAfter: time.Millisecond})

	expanded := domain.NewRoot(map[string]any{"a": 1})
	time.Sleep(5 * time.Millisecond)
	assert.False(t, r.ClearIdleValue(expanded)) // root starts expanded

	fresh := domain.NewRoot(map[string]any{"a": 1, "b": 2, "c": 3})
	fresh.SetExpanded(false)
	fresh.Touch()
	assert.False(t, r.ClearIdleValue(fresh))
	assert.False(t, fresh.ValueCleared())
}
