package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/core/retrieval"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// runesPerToken is the fallback estimate when no TokenCounter is set.
const runesPerToken = 4

// RetrievalService assembles the model context from the published corpus.
type RetrievalService struct {
	portfolio    driving.PortfolioService
	assembler    *retrieval.Assembler
	counter      driven.TokenCounter
	tokenBudget  int
	maxCompanies int
}

// changeNotifier is implemented by portfolio services that report writes.
// Writes can keep the cache fingerprint unchanged, so each one drops the index.
type changeNotifier interface {
	OnChange(fn func())
}

// NewRetrievalService creates a retrieval service.
// The counter is optional; a zero budget disables trimming.
func NewRetrievalService(
	portfolio driving.PortfolioService,
	assembler *retrieval.Assembler,
	counter driven.TokenCounter,
	settings domain.RetrievalSettings,
) *RetrievalService {
	if assembler == nil {
		assembler = retrieval.NewAssembler(nil)
	}
	if n, ok := portfolio.(changeNotifier); ok {
		n.OnChange(assembler.Cache().Invalidate)
	}
	return &RetrievalService{
		portfolio:    portfolio,
		assembler:    assembler,
		counter:      counter,
		tokenBudget:  settings.TokenBudget,
		maxCompanies: settings.MaxCompanies,
	}
}

// Retrieve builds the context for query. Ranked experiences are dropped
// first, then ranked projects, until the context fits the token budget.
// The summary, mention and disambiguation blocks are always kept.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) (*domain.Retrieval, error) {
	start := time.Now()
	defer logger.Since("retrieve", start)

	corpus, err := s.portfolio.Corpus(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	slugs := retrieval.ExtractMentionSlugs(query)
	targeted := retrieval.BuildTargetedContext(slugs, corpus)
	if len(targeted.Unmatched) > 0 {
		logger.Debug("Unmatched mentions: %v", targeted.Unmatched)
	}

	compact := s.assembler.Build(retrieval.ContextRequest{
		Query:          query,
		Corpus:         corpus,
		MentionedSlugs: slugs,
		Targeted:       targeted.Text,
	})
	disambiguation := retrieval.BuildDisambiguationContext(query, corpus, s.maxCompanies)

	text := joinContext(compact, disambiguation)
	tokens := s.count(text)
	trimmed := false
	for _, kind := range []retrieval.SectionKind{retrieval.SectionExperiences, retrieval.SectionProjects} {
		if s.tokenBudget <= 0 || tokens <= s.tokenBudget {
			break
		}
		if !compact.Has(kind) {
			continue
		}
		compact = compact.Without(kind)
		text = joinContext(compact, disambiguation)
		tokens = s.count(text)
		trimmed = true
		logger.Debug("Dropped %s section to fit budget (%d tokens)", kind, tokens)
	}
	if s.tokenBudget > 0 && tokens > s.tokenBudget {
		logger.Warn("Context exceeds token budget after trimming: %d > %d", tokens, s.tokenBudget)
	}

	logger.Debug("Context: %d tokens, %d projects, %d experiences, %d mentions",
		tokens, len(compact.Projects), len(compact.Experiences), len(targeted.Mentioned))

	return &domain.Retrieval{
		Context:        text,
		Targeted:       targeted.Text,
		Disambiguation: disambiguation,
		Mentioned:      targeted.Mentioned,
		Unmatched:      targeted.Unmatched,
		Projects:       compact.Projects,
		Experiences:    compact.Experiences,
		Tokens:         tokens,
		Trimmed:        trimmed,
	}, nil
}

func (s *RetrievalService) count(text string) int {
	if s.counter != nil {
		return s.counter.Count(text)
	}
	return EstimateTokens(text)
}

// EstimateTokens approximates a token count from the rune length.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + runesPerToken - 1) / runesPerToken
}

func joinContext(compact retrieval.CompactContext, disambiguation string) string {
	text := compact.String()
	if disambiguation == "" {
		return text
	}
	return strings.Join([]string{text, disambiguation}, "\n\n")
}
