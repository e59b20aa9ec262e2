package driven

import (
	"context"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
)

// HistoryStore persists the recent-files list. Tree state is never
// persisted; only file metadata survives a session.
type HistoryStore interface {
	// Touch records an open of the given file, creating or updating its
	// entry and bumping its open count.
	Touch(ctx context.Context, entry domain.HistoryEntry) error

	// SetLastQuery updates the remembered query for a path.
	SetLastQuery(ctx context.Context, path, query string) error

	// Recent returns up to limit entries, most recently opened first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Close releases the underlying storage.
	Close() error
}
