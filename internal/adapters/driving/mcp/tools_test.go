package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with summaries", func(t *testing.T) {
		corpus := testCorpus()
		search := &mockSearchService{answer: &domain.SearchAnswer{
			Answer:             "Pricing work at Acme.",
			Type:               domain.AnswerMixed,
			RelatedProjects:    corpus.Projects[:1],
			RelatedExperiences: corpus.Experiences[:1],
		}}
		server := newTestServer(&mockPortfolioService{}, search, nil)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "pricing"})

		require.NoError(t, err)
		assert.Equal(t, "pricing", search.query)
		assert.Equal(t, "Pricing work at Acme.", output.Answer)
		assert.Equal(t, "mixed", output.Type)
		require.Len(t, output.Projects, 1)
		assert.Equal(t, EntitySummary{Slug: "pricing-engine", Title: "Pricing engine", Company: "Acme", Tagline: "Dynamic pricing"}, output.Projects[0])
		require.Len(t, output.Experiences, 1)
		assert.Equal(t, "Data analyst", output.Experiences[0].Title)
	})

	t.Run("empty related lists are not nil", func(t *testing.T) {
		search := &mockSearchService{answer: &domain.SearchAnswer{Type: domain.AnswerGeneral}}
		server := newTestServer(&mockPortfolioService{}, search, nil)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "hello"})

		require.NoError(t, err)
		assert.NotNil(t, output.Projects)
		assert.NotNil(t, output.Experiences)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		search := &mockSearchService{err: errors.New("search failed")}
		server := newTestServer(&mockPortfolioService{}, search, nil)

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleContext(t *testing.T) {
	ctx := context.Background()

	t.Run("returns context and mentions", func(t *testing.T) {
		r := &mockRetrievalService{retrieval: &domain.Retrieval{
			Context:   "Relevant projects:\n- Pricing engine",
			Tokens:    12,
			Trimmed:   true,
			Mentioned: []domain.EntityRef{{Kind: domain.KindProject, Slug: "pricing-engine"}},
			Unmatched: []string{"ghost"},
		}}
		server := newTestServer(&mockPortfolioService{}, &mockSearchService{}, r)

		_, output, err := server.handleContext(ctx, nil, ContextInput{Query: "@pricing-engine @ghost"})

		require.NoError(t, err)
		assert.Equal(t, "Relevant projects:\n- Pricing engine", output.Context)
		assert.Equal(t, 12, output.Tokens)
		assert.True(t, output.Trimmed)
		assert.Equal(t, []string{"project:pricing-engine"}, output.Mentioned)
		assert.Equal(t, []string{"ghost"}, output.Unmatched)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		r := &mockRetrievalService{err: domain.ErrStoreUnavailable}
		server := newTestServer(&mockPortfolioService{}, &mockSearchService{}, r)

		_, _, err := server.handleContext(ctx, nil, ContextInput{Query: "x"})

		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestServer_handleMentions(t *testing.T) {
	ctx := context.Background()

	t.Run("lists candidates", func(t *testing.T) {
		portfolio := &mockPortfolioService{candidates: []domain.MentionCandidate{
			{Kind: domain.KindProject, Slug: "pricing-engine", Label: "Pricing engine"},
		}}
		server := newTestServer(portfolio, &mockSearchService{}, nil)

		_, output, err := server.handleMentions(ctx, nil, MentionsInput{Prefix: "pri"})

		require.NoError(t, err)
		assert.Equal(t, "pri", portfolio.prefix)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "pricing-engine", output.Candidates[0].Slug)
	})

	t.Run("no candidates is an empty list", func(t *testing.T) {
		server := newTestServer(&mockPortfolioService{}, &mockSearchService{}, nil)

		_, output, err := server.handleMentions(ctx, nil, MentionsInput{Prefix: "zzz"})

		require.NoError(t, err)
		assert.NotNil(t, output.Candidates)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		portfolio := &mockPortfolioService{err: errors.New("store down")}
		server := newTestServer(portfolio, &mockSearchService{}, nil)

		_, _, err := server.handleMentions(ctx, nil, MentionsInput{})

		assert.Error(t, err)
	})
}
