// Package loader acquires files for the core: it reads a file, decodes
// it into an opaque value graph, and hands the result over as a
// domain.Document. The tree core itself never parses text.
//
// Supported formats, dispatched by extension:
//   - .json           encoding/json with UseNumber, so numbers keep
//     their source literal
//   - .jsonc, .hujson JWCC standardised to plain JSON first
//   - .yaml, .yml     decoded via goccy/go-yaml into the same shapes
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/tailscale/hujson"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/core/ports/driven"
	"github.com/custodia-labs/skim-cli/internal/logger"
)

// Ensure FileLoader implements the interface.
var _ driven.DocumentLoader = (*FileLoader)(nil)

// DefaultMaxSize is the default file size limit (256 MiB). Documents
// are fully decoded in memory; the tree above them is what stays
// bounded.
const DefaultMaxSize = 256 << 20

// FileLoader reads and decodes local files.
type FileLoader struct {
	maxSize int64
}

// New creates a file loader. A non-positive maxSize falls back to
// DefaultMaxSize.
func New(maxSize int64) *FileLoader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &FileLoader{maxSize: maxSize}
}

// Supports reports whether the path has a decodable extension.
func (l *FileLoader) Supports(path string) bool {
	return formatFor(path) != ""
}

// Load reads and decodes the file into an opaque value graph.
func (l *FileLoader) Load(ctx context.Context, path string) (*domain.Document, error) {
	format := formatFor(path)
	if format == "" {
		return nil, fmt.Errorf("loading %s: %w", path, domain.ErrUnsupportedFormat)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stating %s: %w", path, err)
	}
	if info.Size() > l.maxSize {
		return nil, fmt.Errorf("loading %s (%d bytes): %w", path, info.Size(), domain.ErrFileTooLarge)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	value, err := decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	logger.Debug("Loaded %s (%s, %d bytes)", abs, format, len(data))
	return &domain.Document{
		ID:       uuid.NewString(),
		Path:     abs,
		Name:     filepath.Base(abs),
		Size:     info.Size(),
		Format:   format,
		Value:    value,
		LoadedAt: time.Now(),
	}, nil
}

// decode turns raw file bytes into the opaque value graph.
func decode(format string, data []byte) (any, error) {
	switch format {
	case "hujson":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, err
		}
		return decodeJSON(std)
	case "yaml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return decodeJSON(data)
	}
}

// decodeJSON decodes with UseNumber so number literals survive for
// display and value matching.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// formatFor maps an extension to a format name, "" when unsupported.
func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".jsonc", ".hujson":
		return "hujson"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}
