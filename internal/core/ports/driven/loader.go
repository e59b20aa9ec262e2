package driven

import (
	"context"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
)

// DocumentLoader acquires files and hands the core a fully decoded
// value graph. The core itself never performs file I/O or text-to-value
// decoding.
type DocumentLoader interface {
	// Supports reports whether the loader can decode the given path,
	// judged by extension.
	Supports(path string) bool

	// Load reads and decodes the file into an opaque value graph.
	// Returns domain.ErrUnsupportedFormat for unknown extensions and
	// domain.ErrFileTooLarge when the size limit is exceeded.
	Load(ctx context.Context, path string) (*domain.Document, error)
}
