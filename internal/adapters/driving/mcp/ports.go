package mcp

import (
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Search answers portfolio questions.
	Search driving.SearchService

	// Portfolio reads projects, experiences and mention candidates.
	Portfolio driving.PortfolioService

	// Retrieval builds the raw model context. Optional; build_context is
	// only registered when it is set.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set. A nil Ports has none.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Portfolio == nil {
		return ErrMissingPortfolioService
	}
	return nil
}
