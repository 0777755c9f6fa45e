package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.Storage.KeyPrefix, settings.Storage.KeyPrefix)
	assert.Equal(t, defaults.Retrieval, settings.Retrieval)
	assert.Equal(t, defaults.HTTP.Addr, settings.HTTP.Addr)
	assert.False(t, settings.LLM.IsConfigured())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		KeyLLMProvider:    "anthropic",
		KeyLLMAPIKey:      "sk-test",
		KeyStorageBackend: "redis",
		KeyRedisAddr:      "localhost:6379",
		KeyTokenBudget:    int64(1200),
		KeyAllowedOrigins: []any{"https://example.com"},
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderAnthropic], settings.LLM.Model)
	assert.Equal(t, domain.StorageRedis, settings.Storage.Backend)
	assert.Equal(t, "localhost:6379", settings.Storage.RedisAddr)
	assert.Equal(t, 1200, settings.Retrieval.TokenBudget)
	assert.Equal(t, []string{"https://example.com"}, settings.HTTP.AllowedOrigins)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		KeyLLMProvider:    "invalid_provider",
		KeyStorageBackend: "floppy",
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
}

func TestSettingsService_Get_ZeroIsKept(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{KeyHTTPRatePerMin: 0})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 0, settings.HTTP.RatePerMinute)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o",
		APIKey:   "sk-test",
	}
	settings.Storage.Fixtures = "/tmp/portfolio.yaml"

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "openai", store.GetString(KeyLLMProvider))
	assert.Equal(t, "gpt-4o", store.GetString(KeyLLMModel))
	assert.Equal(t, "sk-test", store.GetString(KeyLLMAPIKey))
	assert.Equal(t, "/tmp/portfolio.yaml", store.GetString(KeyFixtures))
	assert.Equal(t, 3000, store.GetInt(KeyTokenBudget))
}

func TestSettingsService_Save_KeepsSecretsWhenEmpty(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		KeyLLMAPIKey:     "sk-keep",
		KeyRedisPassword: "hunter2",
	})
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "sk-keep", store.GetString(KeyLLMAPIKey))
	assert.Equal(t, "hunter2", store.GetString(KeyRedisPassword))
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.Set(KeyTokenBudget, " 800 "))
	assert.Equal(t, 800, store.GetInt(KeyTokenBudget))

	require.NoError(t, service.Set(KeyAllowedOrigins, "https://a.dev, ,https://b.dev"))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, store.GetStringSlice(KeyAllowedOrigins))

	require.NoError(t, service.Set(KeyStorageBackend, "memory"))
	assert.Equal(t, "memory", store.GetString(KeyStorageBackend))
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"negative int", KeyMaxCompanies, "-1"},
		{"not an int", KeyRedisDB, "two"},
		{"bad provider", KeyLLMProvider, "ollama"},
		{"bad backend", KeyStorageBackend, "floppy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, service.Set(tt.key, tt.value), domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore(), nil).Keys()

	assert.Equal(t, KeyLLMProvider, keys[0])
	assert.Contains(t, keys, KeyFixtures)
	assert.Contains(t, keys, KeyHTTPRatePerMin)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "", "sk-test"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", settings.LLM.Model)
	assert.True(t, settings.LLM.IsConfigured())

	assert.Error(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", ""))
	assert.Error(t, service.SetLLMProvider("invalid", "", "key"))
}

func TestSettingsService_SetStorageBackend(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetStorageBackend(domain.StorageMemory))
	assert.Equal(t, "memory", store.GetString(KeyStorageBackend))

	assert.Error(t, service.SetStorageBackend("floppy"))
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{"defaults", nil, false},
		{"redis without addr", map[string]any{KeyStorageBackend: "redis"}, true},
		{"redis with addr", map[string]any{KeyStorageBackend: "redis", KeyRedisAddr: "localhost:6379"}, false},
		{"invalid provider", map[string]any{KeyLLMProvider: "bogus"}, true},
		{"provider without key", map[string]any{KeyLLMProvider: "openai"}, true},
		{"provider with key", map[string]any{KeyLLMProvider: "openai", KeyLLMAPIKey: "sk"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStoreWith(tt.values), nil)
			err := service.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_ValidateLLMConfig(t *testing.T) {
	t.Run("no validator", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.ValidateLLMConfig())
	})

	t.Run("delegates", func(t *testing.T) {
		validator := &mockAIConfigValidator{err: errors.New("unreachable")}
		store := memory.NewConfigStoreWith(map[string]any{KeyLLMProvider: "openai", KeyLLMAPIKey: "sk"})
		service := NewSettingsService(store, validator)

		assert.Error(t, service.ValidateLLMConfig())
		require.NotNil(t, validator.called)
		assert.Equal(t, domain.AIProviderOpenAI, validator.called.Provider)
	})
}
