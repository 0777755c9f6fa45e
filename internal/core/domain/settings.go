package domain

const unknownDescription = "Unknown"

// AIProvider identifies a language model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is OpenAI cloud API or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud or compatible endpoint)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key.
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.APIKey != ""
}

// StorageBackend selects the key-value store holding entity collections.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps collections in process memory.
	StorageMemory StorageBackend = "memory"

	// StorageSQLite keeps collections in a local SQLite file.
	StorageSQLite StorageBackend = "sqlite"

	// StorageRedis keeps collections in a Redis server.
	StorageRedis StorageBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageSQLite, StorageRedis:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageMemory:
		return "Memory (lost on exit)"
	case StorageSQLite:
		return "SQLite (local file)"
	case StorageRedis:
		return "Redis (shared key-value server)"
	default:
		return unknownDescription
	}
}

// StorageSettings holds entity store configuration.
type StorageSettings struct {
	// Backend is the primary key-value store.
	Backend StorageBackend

	// DataDir is the SQLite data directory. Empty uses ~/.folio/data.
	DataDir string

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string

	// RedisPassword is the optional Redis password.
	RedisPassword string

	// RedisDB is the Redis logical database number.
	RedisDB int

	// KeyPrefix namespaces the collection keys.
	KeyPrefix string

	// Fixtures is the static YAML/JSON file served when the store is empty.
	Fixtures string
}

// RetrievalSettings holds context assembly configuration.
type RetrievalSettings struct {
	// TokenBudget caps the estimated size of the assembled context.
	TokenBudget int

	// MaxCompanies caps the number of disambiguation blocks.
	MaxCompanies int
}

// HTTPSettings holds HTTP server configuration.
type HTTPSettings struct {
	// Addr is the listen address.
	Addr string

	// AllowedOrigins are the CORS origins. Empty allows any origin.
	AllowedOrigins []string

	// RatePerMinute limits LLM-backed requests. Zero disables the limit.
	RatePerMinute int
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM       LLMSettings
	Storage   StorageSettings
	Retrieval RetrievalSettings
	HTTP      HTTPSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; search degrades to ranked results.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Storage: StorageSettings{
			Backend:   StorageSQLite,
			KeyPrefix: "folio:",
		},
		Retrieval: RetrievalSettings{
			TokenBudget:  3000,
			MaxCompanies: 3,
		},
		HTTP: HTTPSettings{
			Addr:          ":8080",
			RatePerMinute: 30,
		},
	}
}

// AllAIProviders returns the supported LLM providers.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultLLMModels maps providers to the model used when none is set.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}
