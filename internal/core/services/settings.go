package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyLLMProvider    = "llm.provider"
	KeyLLMModel       = "llm.model"
	KeyLLMBaseURL     = "llm.base_url"
	KeyLLMAPIKey      = "llm.api_key"
	KeyStorageBackend = "storage.backend"
	KeyStorageDataDir = "storage.data_dir"
	KeyRedisAddr      = "storage.redis_addr"
	KeyRedisPassword  = "storage.redis_password"
	KeyRedisDB        = "storage.redis_db"
	KeyKeyPrefix      = "storage.key_prefix"
	KeyFixtures       = "storage.fixtures"
	KeyTokenBudget    = "retrieval.token_budget"
	KeyMaxCompanies   = "retrieval.max_companies"
	KeyHTTPAddr       = "http.addr"
	KeyAllowedOrigins = "http.allowed_origins"
	KeyHTTPRatePerMin = "http.rate_per_minute"
)

// settingKind is how a key's value is parsed and stored.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindList
)

// settingKeys lists every recognised key in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{KeyLLMProvider, kindString},
	{KeyLLMModel, kindString},
	{KeyLLMBaseURL, kindString},
	{KeyLLMAPIKey, kindString},
	{KeyStorageBackend, kindString},
	{KeyStorageDataDir, kindString},
	{KeyRedisAddr, kindString},
	{KeyRedisPassword, kindString},
	{KeyRedisDB, kindInt},
	{KeyKeyPrefix, kindString},
	{KeyFixtures, kindString},
	{KeyTokenBudget, kindInt},
	{KeyMaxCompanies, kindInt},
	{KeyHTTPAddr, kindString},
	{KeyAllowedOrigins, kindList},
	{KeyHTTPRatePerMin, kindInt},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(defaults.LLM.Provider),
			Model:    s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(KeyLLMBaseURL), // No default - empty uses the provider endpoint
			APIKey:   s.configStore.GetString(KeyLLMAPIKey),
		},
		Storage: domain.StorageSettings{
			Backend:       s.getBackend(defaults.Storage.Backend),
			DataDir:       s.configStore.GetString(KeyStorageDataDir),
			RedisAddr:     s.configStore.GetString(KeyRedisAddr),
			RedisPassword: s.configStore.GetString(KeyRedisPassword),
			RedisDB:       s.getInt(KeyRedisDB, defaults.Storage.RedisDB),
			KeyPrefix:     s.getString(KeyKeyPrefix, defaults.Storage.KeyPrefix),
			Fixtures:      s.configStore.GetString(KeyFixtures),
		},
		Retrieval: domain.RetrievalSettings{
			TokenBudget:  s.getInt(KeyTokenBudget, defaults.Retrieval.TokenBudget),
			MaxCompanies: s.getInt(KeyMaxCompanies, defaults.Retrieval.MaxCompanies),
		},
		HTTP: domain.HTTPSettings{
			Addr:           s.getString(KeyHTTPAddr, defaults.HTTP.Addr),
			AllowedOrigins: s.configStore.GetStringSlice(KeyAllowedOrigins),
			RatePerMinute:  s.getInt(KeyHTTPRatePerMin, defaults.HTTP.RatePerMinute),
		},
	}

	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyStorageBackend, settings.Storage.Backend.String()},
		{KeyStorageDataDir, settings.Storage.DataDir},
		{KeyRedisAddr, settings.Storage.RedisAddr},
		{KeyRedisDB, settings.Storage.RedisDB},
		{KeyKeyPrefix, settings.Storage.KeyPrefix},
		{KeyFixtures, settings.Storage.Fixtures},
		{KeyTokenBudget, settings.Retrieval.TokenBudget},
		{KeyMaxCompanies, settings.Retrieval.MaxCompanies},
		{KeyHTTPAddr, settings.HTTP.Addr},
		{KeyAllowedOrigins, settings.HTTP.AllowedOrigins},
		{KeyHTTPRatePerMin, settings.HTTP.RatePerMinute},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets are only written when provided so a partial save never clears them.
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}
	if settings.Storage.RedisPassword != "" {
		if err := s.configStore.Set(KeyRedisPassword, settings.Storage.RedisPassword); err != nil {
			return fmt.Errorf("save %s: %w", KeyRedisPassword, err)
		}
	}

	return nil
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		out[i] = k.key
	}
	return out
}

// Set stores a single setting after validating it.
// List values are comma-separated.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	for _, k := range settingKeys {
		if k.key != key {
			continue
		}
		if err := validateSetting(key, value); err != nil {
			return err
		}

		var stored any = value
		switch k.kind {
		case kindInt:
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
			}
			stored = n
		case kindList:
			stored = splitList(value)
		}
		if err := s.configStore.Set(key, stored); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetStorageBackend selects the entity store backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}
	return s.configStore.Set(KeyStorageBackend, backend.String())
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Storage.Backend == domain.StorageRedis && settings.Storage.RedisAddr == "" {
		return fmt.Errorf("storage backend %q requires %s", settings.Storage.Backend.Description(), KeyRedisAddr)
	}
	if p := s.configStore.GetString(KeyLLMProvider); p != "" && !settings.LLM.Provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", p)
	}
	if settings.LLM.Provider.IsValid() && settings.LLM.APIKey == "" {
		return fmt.Errorf("LLM provider %q requires %s", settings.LLM.Provider.Description(), KeyLLMAPIKey)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt returns defaultVal only when the key is absent, so zero can be stored.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(KeyLLMProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(KeyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func validateSetting(key, value string) error {
	switch key {
	case KeyLLMProvider:
		if value != "" && !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid LLM provider %q", domain.ErrInvalidInput, value)
		}
	case KeyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid storage backend %q", domain.ErrInvalidInput, value)
		}
	}
	return nil
}

func splitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
