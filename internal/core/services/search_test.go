package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

func newTestSearch(llm driven.LLMService) *SearchService {
	portfolio := newTestPortfolio()
	return NewSearchService(newTestRetrieval(portfolio), portfolio, llm)
}

func TestSearchService_EmptyQuery(t *testing.T) {
	_, err := newTestSearch(nil).Search(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchService_WithoutLLM(t *testing.T) {
	answer, err := newTestSearch(nil).Search(context.Background(), "pricing")

	require.NoError(t, err)
	assert.Empty(t, answer.Answer)
	assert.Equal(t, "pricing-engine", answer.RelatedProjects[0].Slug)
	assert.Equal(t, domain.AnswerMixed, answer.Type)
	for _, e := range answer.RelatedExperiences {
		if e.IsConfidential {
			assert.Equal(t, []string{domain.ConfidentialPlaceholder}, e.Missions)
		}
	}
}

func TestSearchService_JSONReply(t *testing.T) {
	llm := &mockLLMService{reply: `{"answer": " Acme pricing work. ",
		"relatedProjects": ["@pricing-engine", "pricing-engine", "ghost"],
		"relatedExperiences": ["secret-role", "draft-role"],
		"type": "mixed"}`}

	answer, err := newTestSearch(llm).Search(context.Background(), "pricing at acme")

	require.NoError(t, err)
	assert.Equal(t, "Acme pricing work.", answer.Answer)
	require.Len(t, answer.RelatedProjects, 1)
	assert.Equal(t, "pricing-engine", answer.RelatedProjects[0].Slug)
	require.Len(t, answer.RelatedExperiences, 1)
	assert.Equal(t, []string{domain.ConfidentialPlaceholder}, answer.RelatedExperiences[0].Missions)
	assert.Equal(t, domain.AnswerMixed, answer.Type)

	assert.Equal(t, "pricing at acme", llm.prompt)
	assert.Contains(t, llm.system, "Portfolio: 2 projects")
	assert.Equal(t, searchMaxTokens, llm.genOpts.MaxTokens)
	assert.InDelta(t, searchTemperature, llm.genOpts.Temperature, 0.0001)
}

func TestSearchService_FencedReplyWithUnknownType(t *testing.T) {
	llm := &mockLLMService{reply: "```json\n{\"answer\": \"ok\", \"relatedProjects\": [\"logistics-dashboard\"], \"type\": \"whatever\"}\n```"}

	answer, err := newTestSearch(llm).Search(context.Background(), "logistics")

	require.NoError(t, err)
	assert.Equal(t, "ok", answer.Answer)
	assert.Equal(t, domain.AnswerProjects, answer.Type)
	assert.Empty(t, answer.RelatedExperiences)
}

func TestSearchService_RawReply(t *testing.T) {
	llm := &mockLLMService{reply: "  I built a pricing engine.  "}

	answer, err := newTestSearch(llm).Search(context.Background(), "pricing")

	require.NoError(t, err)
	assert.Equal(t, "I built a pricing engine.", answer.Answer)
	assert.NotEmpty(t, answer.RelatedProjects)
}

func TestSearchService_LLMFailureDegrades(t *testing.T) {
	llm := &mockLLMService{err: errors.New("rate limited")}

	answer, err := newTestSearch(llm).Search(context.Background(), "pricing")

	require.NoError(t, err)
	assert.Empty(t, answer.Answer)
	assert.NotEmpty(t, answer.RelatedProjects)
}

func TestSearchService_CancellationPropagates(t *testing.T) {
	llm := &mockLLMService{err: context.Canceled}

	_, err := newTestSearch(llm).Search(context.Background(), "pricing")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchService_PromptStore(t *testing.T) {
	tests := []struct {
		name   string
		store  *mockPromptStore
		prefix string
	}{
		{"custom", &mockPromptStore{prompts: map[string]string{driven.PromptSearchSystem: "CUSTOM\n%s"}}, "CUSTOM\n"},
		{"no placeholder", &mockPromptStore{prompts: map[string]string{driven.PromptSearchSystem: "static"}}, "You answer"},
		{"load error", &mockPromptStore{err: errors.New("io")}, "You answer"},
		{"two placeholders", &mockPromptStore{prompts: map[string]string{driven.PromptSearchSystem: "A %s B %s"}}, "You answer"},
		{"literal percent", &mockPromptStore{prompts: map[string]string{driven.PromptSearchSystem: "Be 100% factual.\n%s"}}, "Be 100% factual.\nPortfolio:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLMService{reply: "{}"}
			service := newTestSearch(llm)
			service.SetPromptStore(tt.store)

			_, err := service.Search(context.Background(), "pricing")

			require.NoError(t, err)
			assert.True(t, len(llm.system) > len(tt.prefix) && llm.system[:len(tt.prefix)] == tt.prefix, llm.system)
			assert.NotContains(t, llm.system, "%!")
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	assert.Equal(t, "Rate 100%: ctx with %s inside", renderPrompt("Rate 100%: %s", "ctx with %s inside"))
	assert.Equal(t, "no slot", renderPrompt("no slot", "ctx"))
}

func TestParseModelAnswer(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		ok    bool
	}{
		{"plain", `{"answer": "a"}`, true},
		{"fenced", "```\n{\"answer\": \"a\"}\n```", true},
		{"surrounded", `Here you go: {"answer": "a"} thanks`, true},
		{"text", "no json here", false},
		{"broken", `{"answer": `, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := parseModelAnswer(tt.reply)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, "a", m.Answer)
			}
		})
	}
}
