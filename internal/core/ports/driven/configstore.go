package driven

// ConfigStore holds settings under dotted keys such as "storage.backend"
// or "retrieval.token_budget". SettingsService is its only reader; the
// other layers receive a decoded domain.AppSettings.
type ConfigStore interface {
	// Get returns the raw value at key and whether it exists.
	Get(key string) (any, bool)

	// GetString returns the string at key, or "" when missing or not a string.
	GetString(key string) string

	// GetInt returns the integer at key, or 0.
	GetInt(key string) int

	// GetBool returns the boolean at key, or false.
	GetBool(key string) bool

	// GetStringSlice returns the string list at key, or nil.
	GetStringSlice(key string) []string

	// Set stores value at key. File-backed stores persist immediately.
	Set(key string, value any) error

	// Save writes the current values to storage.
	Save() error

	// Load re-reads values from storage, replacing what is held.
	Load() error

	// Path names the backing file, shown by `folio settings show`.
	Path() string
}
