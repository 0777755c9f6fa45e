package driving

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// SearchService answers free-text questions about the portfolio.
type SearchService interface {
	// Search returns an answer with the related entities re-attached by slug.
	// Without a language model the answer is empty and only ranked entities are returned.
	Search(ctx context.Context, query string) (*domain.SearchAnswer, error)
}

// RetrievalService assembles the bounded model context for a request.
type RetrievalService interface {
	// Retrieve resolves mentions, ranks entities, detects company collisions
	// and assembles the context within the configured token budget.
	Retrieve(ctx context.Context, query string) (*domain.Retrieval, error)
}

// ChatService runs the portfolio assistant over a rolling conversation.
type ChatService interface {
	// Chat sanitises turns, builds the context from the latest user turn and
	// streams the reply through onDelta. It returns the full reply.
	Chat(ctx context.Context, turns []domain.ChatTurn, onDelta func(string) error) (string, error)
}
