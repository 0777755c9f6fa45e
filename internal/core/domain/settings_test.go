package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "ollama is not supported", provider: AIProvider("ollama"), expected: false},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{name: "empty", settings: LLMSettings{}, expected: false},
		{name: "missing key", settings: LLMSettings{Provider: AIProviderOpenAI}, expected: false},
		{name: "invalid provider", settings: LLMSettings{Provider: "x", APIKey: "k"}, expected: false},
		{name: "configured", settings: LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestStorageBackend(t *testing.T) {
	for _, b := range []StorageBackend{StorageMemory, StorageSQLite, StorageRedis} {
		assert.True(t, b.IsValid(), b.String())
		assert.NotEqual(t, "Unknown", b.Description())
	}
	assert.False(t, StorageBackend("kv").IsValid())
	assert.Equal(t, "Unknown", StorageBackend("kv").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.Equal(t, "folio:", s.Storage.KeyPrefix)
	assert.Equal(t, 3000, s.Retrieval.TokenBudget)
	assert.Equal(t, 3, s.Retrieval.MaxCompanies)
	assert.Equal(t, ":8080", s.HTTP.Addr)
	assert.Equal(t, 30, s.HTTP.RatePerMinute)
}
