package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_Defaults(t *testing.T) {
	b := NewBar(nil, nil)

	assert.Equal(t, StateBrowsing, b.State())
	assert.Equal(t, 80, b.Width())
}

func TestBar_ShowsDocument(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(120)
	b.SetDocument("big.json", 2048)
	b.SetNodeCount(1234)

	out := b.View()

	assert.Contains(t, out, "big.json")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "1,234 nodes")
}

func TestBar_ShowsMatchCounter(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(120)
	b.SetState(StateSearching)

	b.SetMatches(7, 0)
	assert.Contains(t, b.View(), "7 matches")

	b.SetMatches(7, 3)
	assert.Contains(t, b.View(), "match 3/7")

	b.SetMatches(0, 0)
	assert.Contains(t, b.View(), "no matches")
}

func TestBar_MessageReplacesCounters(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(120)
	b.SetDocument("big.json", 2048)
	b.SetMessage("Copied: 42")

	out := b.View()

	assert.Contains(t, out, "Copied: 42")
	assert.NotContains(t, out, "big.json")
}

func TestBar_ErrorState(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(120)
	b.SetState(StateError)
	b.SetMessage("something broke")

	assert.Contains(t, b.View(), "Error: something broke")
}

func TestBar_Clear(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetState(StateError)
	b.SetMessage("boom")
	b.SetMatches(5, 2)

	b.Clear()

	assert.Equal(t, StateBrowsing, b.State())
	assert.Empty(t, b.Message())
	assert.Zero(t, b.MatchCount())
}
