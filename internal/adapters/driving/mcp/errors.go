// Package mcp provides an MCP (Model Context Protocol) server adapter for Folio.
// It lets AI assistants search the portfolio and pull retrieval context.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingPortfolioService is returned when the portfolio service is not provided.
var ErrMissingPortfolioService = errors.New("mcp: portfolio service is required")
