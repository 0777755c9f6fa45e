package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Generation options for search answers.
const (
	searchMaxTokens   = 700
	searchTemperature = 0.2
)

// defaultSearchPrompt is used when no PromptStore is set.
const defaultSearchPrompt = `You answer questions about a personal portfolio using only the context below.
Reply with JSON only: {"answer": string, "relatedProjects": [slug], "relatedExperiences": [slug], "type": "projects"|"experiences"|"mixed"|"general"}.

Context:
%s`

// modelAnswer is the JSON reply the model is asked for.
type modelAnswer struct {
	Answer             string   `json:"answer"`
	RelatedProjects    []string `json:"relatedProjects"`
	RelatedExperiences []string `json:"relatedExperiences"`
	Type               string   `json:"type"`
}

// SearchService answers portfolio questions.
type SearchService struct {
	retrieval  driving.RetrievalService
	portfolio  driving.PortfolioService
	llmService driven.LLMService
	prompts    driven.PromptStore
}

// NewSearchService creates a new search service.
// The llmService parameter is optional (can be nil).
func NewSearchService(
	retrieval driving.RetrievalService,
	portfolio driving.PortfolioService,
	llmService driven.LLMService,
) *SearchService {
	return &SearchService{
		retrieval:  retrieval,
		portfolio:  portfolio,
		llmService: llmService,
	}
}

// SetPromptStore sets the store for the search system prompt.
func (s *SearchService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Search answers query. Without a language model, or when the model
// fails, the ranked entities are returned with an empty answer.
func (s *SearchService) Search(ctx context.Context, query string) (*domain.SearchAnswer, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	r, err := s.retrieval.Retrieve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	if s.llmService == nil {
		logger.Debug("No LLM configured, returning ranked results")
		return rankedAnswer("", r), nil
	}

	system := renderPrompt(loadPrompt(s.prompts, driven.PromptSearchSystem, defaultSearchPrompt), r.Context)
	start := time.Now()
	reply, err := s.llmService.Generate(ctx, system, query, driven.GenerateOptions{
		MaxTokens:   searchMaxTokens,
		Temperature: searchTemperature,
	})
	logger.Since("search generation", start)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		logger.Warn("LLM search failed, returning ranked results: %v", err)
		return rankedAnswer("", r), nil
	}

	parsed, ok := parseModelAnswer(reply)
	if !ok {
		logger.Debug("LLM reply is not JSON, using raw text")
		return rankedAnswer(strings.TrimSpace(reply), r), nil
	}

	corpus, err := s.portfolio.Corpus(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return attach(parsed, corpus), nil
}

// rankedAnswer builds an answer from the retrieved ranked entities.
func rankedAnswer(answer string, r *domain.Retrieval) *domain.SearchAnswer {
	projects := append([]domain.Project{}, r.Projects...)
	experiences := redactAll(r.Experiences)
	return &domain.SearchAnswer{
		Answer:             answer,
		RelatedProjects:    projects,
		RelatedExperiences: experiences,
		Type:               domain.AnswerTypeFor(len(projects), len(experiences)),
	}
}

// attach re-attaches full records by slug, dropping unknown slugs.
func attach(m modelAnswer, corpus domain.Corpus) *domain.SearchAnswer {
	out := &domain.SearchAnswer{
		Answer:             strings.TrimSpace(m.Answer),
		RelatedProjects:    []domain.Project{},
		RelatedExperiences: []domain.Experience{},
	}

	seen := make(map[string]struct{})
	for _, slug := range m.RelatedProjects {
		p, ok := corpus.FindProject(strings.TrimPrefix(strings.TrimSpace(slug), "@"))
		if _, dup := seen[p.Slug]; !ok || dup {
			continue
		}
		seen[p.Slug] = struct{}{}
		out.RelatedProjects = append(out.RelatedProjects, p)
	}
	seen = make(map[string]struct{})
	for _, slug := range m.RelatedExperiences {
		e, ok := corpus.FindExperience(strings.TrimPrefix(strings.TrimSpace(slug), "@"))
		if _, dup := seen[e.Slug]; !ok || dup {
			continue
		}
		seen[e.Slug] = struct{}{}
		out.RelatedExperiences = append(out.RelatedExperiences, e.Redacted())
	}

	out.Type = domain.AnswerType(m.Type)
	if !out.Type.IsValid() {
		out.Type = domain.AnswerTypeFor(len(out.RelatedProjects), len(out.RelatedExperiences))
	}
	return out
}

// parseModelAnswer decodes the JSON reply, tolerating code fences and
// text around the object.
func parseModelAnswer(reply string) (modelAnswer, bool) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return modelAnswer{}, false
	}

	var m modelAnswer
	if err := json.Unmarshal([]byte(text[start:end+1]), &m); err != nil {
		return modelAnswer{}, false
	}
	return m, true
}

func redactAll(experiences []domain.Experience) []domain.Experience {
	out := make([]domain.Experience, len(experiences))
	for i := range experiences {
		out[i] = experiences[i].Redacted()
	}
	return out
}

// promptPlaceholder marks where the retrieved context goes in a template.
const promptPlaceholder = "%s"

// loadPrompt returns the named template, or fallback when the store is
// missing, fails, or the template does not hold exactly one placeholder.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	switch {
	case err != nil:
		logger.Warn("Load prompt %s: %v", name, err)
		return fallback
	case strings.Count(prompt, promptPlaceholder) != 1:
		logger.Warn("Prompt %s needs exactly one %s placeholder, using the default", name, promptPlaceholder)
		return fallback
	}
	return prompt
}

// renderPrompt inserts context at the placeholder. Other % sequences in
// the template are kept as written.
func renderPrompt(template, retrieved string) string {
	return strings.Replace(template, promptPlaceholder, retrieved, 1)
}
