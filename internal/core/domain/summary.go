package domain

import "fmt"

// maxStringDisplay is the truncation threshold for string summaries.
// Strings longer than this render as the first truncatedStringLen runes
// plus an ellipsis marker; the full value stays round-trippable for
// copy.
const (
	maxStringDisplay   = 100
	truncatedStringLen = 97
	ellipsis           = "..."
)

// clearedPlaceholder renders in place of a value that has been
// discarded to save memory.
const clearedPlaceholder = "(unavailable)"

// DisplaySummary returns the one-line textual rendering of this node's
// value for the presentation layer. Container summaries use the cached
// child count and are correct before any child is materialised.
func (n *Node) DisplaySummary() string {
	switch n.kind {
	case KindObject:
		return fmt.Sprintf("{%d properties}", n.childCount)
	case KindArray:
		return fmt.Sprintf("[%d items]", n.childCount)
	}

	value, ok := n.Value()
	if !ok {
		return clearedPlaceholder
	}

	switch n.kind {
	case KindString:
		return `"` + truncateRunes(value.(string)) + `"`
	case KindNumber, KindBool, KindNull:
		text, _ := ScalarText(value)
		return text
	default:
		return fmt.Sprint(value)
	}
}

// CopyableValue returns the raw value text for the clipboard/export
// collaborator: the untruncated string contents, the literal scalar
// form, or the display summary for containers, which are not
// meaningfully copyable as raw values.
func (n *Node) CopyableValue() string {
	switch n.kind {
	case KindObject, KindArray:
		return n.DisplaySummary()
	}

	value, ok := n.Value()
	if !ok {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	if text, ok := ScalarText(value); ok {
		return text
	}
	return fmt.Sprint(value)
}

// truncateRunes shortens s for display, preserving whole runes.
func truncateRunes(s string) string {
	runes := []rune(s)
	if len(runes) <= maxStringDisplay {
		return s
	}
	return string(runes[:truncatedStringLen]) + ellipsis
}
