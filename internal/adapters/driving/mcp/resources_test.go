package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestExtractSlug(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		collection string
		expected   string
	}{
		{"valid project URI", "folio://projects/pricing-engine", projectsCollection, "pricing-engine"},
		{"valid experience URI", "folio://experiences/data-analyst", experiencesCollection, "data-analyst"},
		{"wrong collection", "folio://projects/pricing-engine", experiencesCollection, ""},
		{"invalid scheme", "file://projects/pricing-engine", projectsCollection, ""},
		{"nested path", "folio://projects/a/b", projectsCollection, ""},
		{"collection only", "folio://projects", projectsCollection, ""},
		{"empty URI", "", projectsCollection, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSlug(tt.uri, tt.collection))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleProjectsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists published projects", func(t *testing.T) {
		server := newTestServer(&mockPortfolioService{corpus: testCorpus()}, &mockSearchService{}, nil)

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("folio://projects"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		var projects []domain.Project
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &projects))
		require.Len(t, projects, 1)
		assert.Equal(t, "pricing-engine", projects[0].Slug)
	})

	t.Run("empty portfolio is an empty list", func(t *testing.T) {
		server := newTestServer(&mockPortfolioService{}, &mockSearchService{}, nil)

		result, err := server.handleProjectsResource(ctx, makeReadResourceRequest("folio://projects"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(&mockPortfolioService{err: errors.New("database error")}, &mockSearchService{}, nil)

		_, err := server.handleProjectsResource(ctx, makeReadResourceRequest("folio://projects"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing projects")
	})
}

func TestServer_handleExperiencesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("redacts confidential missions", func(t *testing.T) {
		server := newTestServer(&mockPortfolioService{corpus: testCorpus()}, &mockSearchService{}, nil)

		result, err := server.handleExperiencesResource(ctx, makeReadResourceRequest("folio://experiences"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, "Weekly reporting")
		assert.Contains(t, text, domain.ConfidentialPlaceholder)
		assert.NotContains(t, text, "Hidden mission")
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(&mockPortfolioService{err: errors.New("database error")}, &mockSearchService{}, nil)

		_, err := server.handleExperiencesResource(ctx, makeReadResourceRequest("folio://experiences"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing experiences")
	})
}

func TestServer_handleProjectResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(&mockPortfolioService{corpus: testCorpus()}, &mockSearchService{}, nil)

	t.Run("returns project", func(t *testing.T) {
		result, err := server.handleProjectResource(ctx, makeReadResourceRequest("folio://projects/pricing-engine"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"slug": "pricing-engine"`)
	})

	for _, uri := range []string{
		"folio://projects/missing",
		"folio://projects/draft-project",
		"folio://invalid/uri",
	} {
		t.Run("not found "+uri, func(t *testing.T) {
			_, err := server.handleProjectResource(ctx, makeReadResourceRequest(uri))
			require.Error(t, err)
		})
	}

	t.Run("store failure is wrapped", func(t *testing.T) {
		failing := newTestServer(&mockPortfolioService{err: domain.ErrStoreUnavailable}, &mockSearchService{}, nil)

		_, err := failing.handleProjectResource(ctx, makeReadResourceRequest("folio://projects/pricing-engine"))

		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestServer_handleExperienceResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(&mockPortfolioService{corpus: testCorpus()}, &mockSearchService{}, nil)

	t.Run("redacts confidential experience", func(t *testing.T) {
		result, err := server.handleExperienceResource(ctx, makeReadResourceRequest("folio://experiences/secret-role"))

		require.NoError(t, err)
		assert.NotContains(t, result.Contents[0].Text, "Hidden mission")
		assert.Contains(t, result.Contents[0].Text, domain.ConfidentialPlaceholder)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := server.handleExperienceResource(ctx, makeReadResourceRequest("folio://experiences/missing"))
		require.Error(t, err)
	})
}
