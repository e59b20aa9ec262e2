package domain

import "time"

// Document represents one opened file together with its fully decoded
// value graph. The core never parses text itself; the loader adapter
// hands the decoded value in.
type Document struct {
	// ID is the unique identifier for this open document.
	ID string

	// Path is the absolute file path the document was loaded from.
	Path string

	// Name is the human-readable file name.
	Name string

	// Size is the on-disk size in bytes at load time.
	Size int64

	// Format is the detected input format ("json", "hujson", "yaml").
	Format string

	// Value is the decoded value graph the tree is built over. The
	// underlying value is never mutated while the document is open.
	Value any

	// LoadedAt is when the file was decoded.
	LoadedAt time.Time
}

// HistoryEntry records one previously opened file for the recent-files
// list. No tree state is persisted, only file metadata.
type HistoryEntry struct {
	// Path is the absolute file path.
	Path string

	// Name is the file name shown in listings.
	Name string

	// Size is the file size in bytes when last opened.
	Size int64

	// LastOpened is when the file was last opened.
	LastOpened time.Time

	// LastQuery is the last search query used in this file, if any.
	LastQuery string

	// Opens counts how many times the file has been opened.
	Opens int
}
