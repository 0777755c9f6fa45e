package driven

import "context"

// LLMService provides language model operations for search answers and chat.
// This is an optional service - when nil, search degrades to ranked results only.
//
// Implementations include:
//   - OpenAI (and compatible endpoints)
//   - Anthropic (Claude)
type LLMService interface {
	// Generate produces a single completion for a system prompt and user text.
	Generate(ctx context.Context, system, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation and returns the full reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ChatStream conducts a multi-turn conversation, calling onDelta for each
	// text fragment as it arrives. It returns the concatenated reply.
	// An error returned by onDelta aborts the stream.
	ChatStream(ctx context.Context, messages []ChatMessage, opts ChatOptions, onDelta func(string) error) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
