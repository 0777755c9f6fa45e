package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// SearchInput is the input schema for the search_portfolio tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question to answer from the portfolio"`
}

// SearchOutput is the output schema for the search_portfolio tool.
type SearchOutput struct {
	Answer      string          `json:"answer"`
	Type        string          `json:"type"`
	Projects    []EntitySummary `json:"projects"`
	Experiences []EntitySummary `json:"experiences"`
}

// EntitySummary is a compact view of a related entity.
type EntitySummary struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Company string `json:"company,omitempty"`
	Tagline string `json:"tagline,omitempty"`
}

// ContextInput is the input schema for the build_context tool.
type ContextInput struct {
	Query string `json:"query" jsonschema:"the query to build context for; @slug mentions are honoured"`
}

// ContextOutput is the output schema for the build_context tool.
type ContextOutput struct {
	Context   string   `json:"context"`
	Tokens    int      `json:"tokens"`
	Trimmed   bool     `json:"trimmed"`
	Mentioned []string `json:"mentioned,omitempty"`
	Unmatched []string `json:"unmatched,omitempty"`
}

// MentionsInput is the input schema for the list_mentions tool.
type MentionsInput struct {
	Prefix string `json:"prefix,omitempty" jsonschema:"slug or label prefix; empty lists everything"`
}

// MentionsOutput is the output schema for the list_mentions tool.
type MentionsOutput struct {
	Candidates []domain.MentionCandidate `json:"candidates"`
	Count      int                       `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_portfolio",
		Description: "Answer a question about the portfolio's projects and experiences",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_mentions",
		Description: "List entities that can be referenced with @slug",
	}, s.handleMentions)

	if s.ports.Retrieval != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "build_context",
			Description: "Build the ranked portfolio context a language model would receive for a query",
		}, s.handleContext)
	}
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	answer, err := s.ports.Search.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Answer:      answer.Answer,
		Type:        string(answer.Type),
		Projects:    make([]EntitySummary, len(answer.RelatedProjects)),
		Experiences: make([]EntitySummary, len(answer.RelatedExperiences)),
	}
	for i, p := range answer.RelatedProjects {
		output.Projects[i] = EntitySummary{Slug: p.Slug, Title: p.Title, Company: p.Company, Tagline: p.Tagline}
	}
	for i, e := range answer.RelatedExperiences {
		output.Experiences[i] = EntitySummary{Slug: e.Slug, Title: e.Role, Company: e.Company, Tagline: e.Tagline}
	}

	return nil, output, nil
}

func (s *Server) handleContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContextInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	r, err := s.ports.Retrieval.Retrieve(ctx, input.Query)
	if err != nil {
		return nil, ContextOutput{}, err
	}

	output := ContextOutput{
		Context:   r.Context,
		Tokens:    r.Tokens,
		Trimmed:   r.Trimmed,
		Unmatched: r.Unmatched,
	}
	for _, ref := range r.Mentioned {
		output.Mentioned = append(output.Mentioned, string(ref.Kind)+":"+ref.Slug)
	}

	return nil, output, nil
}

func (s *Server) handleMentions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MentionsInput,
) (*mcp.CallToolResult, MentionsOutput, error) {
	candidates, err := s.ports.Portfolio.MentionCandidates(ctx, input.Prefix)
	if err != nil {
		return nil, MentionsOutput{}, err
	}
	if candidates == nil {
		candidates = []domain.MentionCandidate{}
	}
	return nil, MentionsOutput{Candidates: candidates, Count: len(candidates)}, nil
}
