package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// mockLLMService records calls and replies with canned text.
type mockLLMService struct {
	mu sync.Mutex

	reply  string
	deltas []string
	err    error

	system   string
	prompt   string
	messages []driven.ChatMessage
	genOpts  driven.GenerateOptions
	chatOpts driven.ChatOptions
}

func (m *mockLLMService) Generate(_ context.Context, system, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.system, m.prompt, m.genOpts = system, prompt, opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages, m.chatOpts = messages, opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ChatStream(
	_ context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
	onDelta func(string) error,
) (string, error) {
	m.mu.Lock()
	m.messages, m.chatOpts = messages, opts
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}

	var sb strings.Builder
	for _, d := range m.deltas {
		if err := onDelta(d); err != nil {
			return sb.String(), err
		}
		sb.WriteString(d)
	}
	return sb.String(), nil
}

func (m *mockLLMService) ModelName() string          { return "mock-model" }
func (m *mockLLMService) Ping(_ context.Context) error { return m.err }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// sectionCounter charges a fixed cost per ranked section so budget
// trimming can be tested without real token counts.
type sectionCounter struct{}

func (sectionCounter) Count(text string) int {
	n := 10
	if strings.Contains(text, "Relevant projects:") {
		n += 100
	}
	if strings.Contains(text, "Relevant experiences:") {
		n += 100
	}
	return n
}

// mockAIConfigValidator records the settings it was asked to validate.
type mockAIConfigValidator struct {
	err    error
	called *domain.LLMSettings
}

func (m *mockAIConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.called = config
	return m.err
}

// failingEntityStore fails every call.
type failingEntityStore struct{}

var errStoreDown = errors.New("store down")

func (failingEntityStore) LoadProjects(_ context.Context) ([]domain.Project, error) {
	return nil, errStoreDown
}
func (failingEntityStore) LoadExperiences(_ context.Context) ([]domain.Experience, error) {
	return nil, errStoreDown
}
func (failingEntityStore) SaveProjects(_ context.Context, _ []domain.Project) error { return errStoreDown }
func (failingEntityStore) SaveExperiences(_ context.Context, _ []domain.Experience) error {
	return errStoreDown
}
func (failingEntityStore) Close() error { return nil }

// testCorpus has a company collision on Acme and one draft experience.
func testCorpus() domain.Corpus {
	return domain.Corpus{
		Projects: []domain.Project{
			{
				Slug:      "pricing-engine",
				Title:     "Pricing engine",
				Company:   "Acme",
				Tags:      []string{"pricing", "python"},
				Result:    "Cut churn by 12%",
				Year:      "2024",
				UpdatedAt: "2024-03-01",
			},
			{
				Slug:      "logistics-dashboard",
				Title:     "Logistics dashboard",
				Company:   "Globex",
				Tags:      []string{"logistics"},
				UpdatedAt: "2024-02-01",
			},
		},
		Experiences: []domain.Experience{
			{
				Slug:        "data-analyst",
				Role:        "Data analyst",
				Company:     "Acme Inc",
				Period:      "2021-2023",
				Description: "Owned weekly reporting",
				Missions:    []string{"Built KPI reports"},
				UpdatedAt:   "2023-01-01",
			},
			{
				Slug:           "secret-role",
				Role:           "Strategy lead",
				Company:        "Initech",
				Missions:       []string{"Hidden mission"},
				IsConfidential: true,
				UpdatedAt:      "2022-01-01",
			},
			{
				Slug:      "draft-role",
				Role:      "Unpublished role",
				Company:   "Umbrella",
				Status:    domain.StatusDraft,
				UpdatedAt: "2025-01-01",
			},
		},
	}
}

func newTestPortfolio() *PortfolioService {
	return NewPortfolioService(memory.NewSeededEntityStore(testCorpus()))
}

func newTestRetrieval(portfolio *PortfolioService) *RetrievalService {
	return NewRetrievalService(portfolio, nil, nil, domain.DefaultAppSettings().Retrieval)
}
