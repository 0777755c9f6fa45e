package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	answer *domain.SearchAnswer
	err    error
	query  string
}

func (m *mockSearchService) Search(_ context.Context, query string) (*domain.SearchAnswer, error) {
	m.query = query
	return m.answer, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	retrieval *domain.Retrieval
	err       error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string) (*domain.Retrieval, error) {
	return m.retrieval, m.err
}

// mockPortfolioService implements the read side of driving.PortfolioService.
type mockPortfolioService struct {
	driving.PortfolioService
	corpus     domain.Corpus
	candidates []domain.MentionCandidate
	err        error
	prefix     string
}

func (m *mockPortfolioService) ListProjects(context.Context, bool) ([]domain.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	return domain.PublishedProjects(m.corpus.Projects), nil
}

func (m *mockPortfolioService) ListExperiences(context.Context, bool) ([]domain.Experience, error) {
	if m.err != nil {
		return nil, m.err
	}
	return domain.PublishedExperiences(m.corpus.Experiences), nil
}

func (m *mockPortfolioService) GetProject(_ context.Context, slug string) (*domain.Project, error) {
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.corpus.FindProject(slug); ok {
		return &p, nil
	}
	return nil, fmt.Errorf("project %q: %w", slug, domain.ErrNotFound)
}

func (m *mockPortfolioService) GetExperience(_ context.Context, slug string) (*domain.Experience, error) {
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.corpus.FindExperience(slug); ok {
		return &e, nil
	}
	return nil, fmt.Errorf("experience %q: %w", slug, domain.ErrNotFound)
}

func (m *mockPortfolioService) MentionCandidates(_ context.Context, prefix string) ([]domain.MentionCandidate, error) {
	m.prefix = prefix
	return m.candidates, m.err
}

func testCorpus() domain.Corpus {
	return domain.Corpus{
		Projects: []domain.Project{
			{Slug: "pricing-engine", Title: "Pricing engine", Company: "Acme", Tagline: "Dynamic pricing"},
			{Slug: "draft-project", Title: "Draft", Status: domain.StatusDraft},
		},
		Experiences: []domain.Experience{
			{Slug: "data-analyst", Role: "Data analyst", Company: "Acme Inc", Missions: []string{"Weekly reporting"}},
			{Slug: "secret-role", Role: "Strategy lead", Company: "Initech", IsConfidential: true, Missions: []string{"Hidden mission"}},
		},
	}
}

func newTestServer(portfolio *mockPortfolioService, search *mockSearchService, r *mockRetrievalService) *Server {
	ports := &Ports{Search: search, Portfolio: portfolio}
	if r != nil {
		ports.Retrieval = r
	}
	server, err := NewServer(ports)
	if err != nil {
		panic(err)
	}
	return server
}
