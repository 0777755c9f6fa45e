// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/folio/internal/adapters/driven/llm/anthropic"
	openaillm "github.com/custodia-labs/folio/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of LLM initialisation.
type InitResult struct {
	// LLMService is nil when no provider is configured or it is unusable.
	LLMService driven.LLMService
	// Warnings are non-fatal issues that caused fallback.
	Warnings []string
	// FellBack is true if a configured provider could not be used and
	// answers degrade to ranked results.
	FellBack bool
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the configured LLM service. When ping is set the provider
// is contacted first. Failures are reported as warnings, never as errors.
func Init(settings *domain.LLMSettings, ping bool) *InitResult {
	result := &InitResult{}
	if settings == nil || !settings.IsConfigured() {
		logger.Debug("No LLM configured")
		return result
	}

	var (
		svc driven.LLMService
		err error
	)
	if ping {
		svc, err = CreateAndValidateLLMService(settings)
	} else {
		svc, err = CreateLLMService(settings)
	}
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
		logger.Warn("LLM disabled: %v", err)
		return result
	}

	logger.Debug("LLM: %s (%s)", settings.Provider, svc.ModelName())
	result.LLMService = svc
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'folio settings set llm.provider' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check llm.api_key and llm.base_url",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// An unconfigured provider is valid.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	return pingLLM(settings, pingTimeout)
}

func pingLLM(settings *domain.LLMSettings, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = pingTimeout
	}
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}
