package driven

// ConfigStore provides persistent key-value configuration.
// Keys use dotted notation, e.g. "batch.size" or "reclaim.cap".
type ConfigStore interface {
	// Get retrieves a raw configuration value.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" if absent or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 if absent or mistyped.
	GetInt(key string) int

	// GetBool retrieves a boolean value, false if absent or mistyped.
	GetBool(key string) bool

	// Set stores a configuration value.
	Set(key string, value any) error

	// Save persists the configuration.
	Save() error
}
