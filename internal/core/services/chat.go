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
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Conversation bounds.
const (
	// MaxTurns is the number of most recent turns sent to the model.
	MaxTurns = 16

	// MaxTurnLength is the rune length a single turn is truncated to.
	MaxTurnLength = 2000
)

// Generation options for chat replies.
const (
	chatMaxTokens   = 900
	chatTemperature = 0.4
)

// defaultChatPrompt is used when no PromptStore is set.
const defaultChatPrompt = `You are the assistant of a personal portfolio. Answer using only the context below.
Projects are deliverables; experiences are jobs with responsibilities. Never blend the two.
If the user references something unknown, say you do not recognise it.

Context:
%s`

// SanitizeTurns keeps user and assistant turns with non-empty content,
// trims and truncates each, and returns the last MaxTurns of them.
func SanitizeTurns(turns []domain.ChatTurn) []domain.ChatTurn {
	out := make([]domain.ChatTurn, 0, len(turns))
	for _, t := range turns {
		if !t.Role.IsValid() {
			continue
		}
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		if utf8.RuneCountInString(content) > MaxTurnLength {
			content = strings.TrimSpace(string([]rune(content)[:MaxTurnLength]))
		}
		out = append(out, domain.ChatTurn{Role: t.Role, Content: content})
	}
	if len(out) > MaxTurns {
		out = out[len(out)-MaxTurns:]
	}
	return out
}

// ChatService runs the portfolio assistant.
type ChatService struct {
	retrieval  driving.RetrievalService
	llmService driven.LLMService
	prompts    driven.PromptStore
}

// NewChatService creates a new chat service.
// The llmService parameter is optional; Chat fails without it.
func NewChatService(retrieval driving.RetrievalService, llmService driven.LLMService) *ChatService {
	return &ChatService{
		retrieval:  retrieval,
		llmService: llmService,
	}
}

// SetPromptStore sets the store for the chat system prompt.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Chat answers the latest user turn, streaming the reply through onDelta.
func (s *ChatService) Chat(ctx context.Context, turns []domain.ChatTurn, onDelta func(string) error) (string, error) {
	logger.Section("Chat")

	turns = SanitizeTurns(turns)
	if len(turns) == 0 || turns[len(turns)-1].Role != domain.RoleUser {
		return "", fmt.Errorf("%w: conversation must end with a user turn", domain.ErrInvalidInput)
	}
	if s.llmService == nil {
		return "", fmt.Errorf("%w: no LLM provider configured", domain.ErrLLMUnavailable)
	}

	latest := turns[len(turns)-1].Content
	r, err := s.retrieval.Retrieve(ctx, latest)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}
	logger.Debug("Chat context: %d tokens, %d mentions", r.Tokens, len(r.Mentioned))

	messages := make([]driven.ChatMessage, 0, len(turns)+1)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: renderPrompt(loadPrompt(s.prompts, driven.PromptChatSystem, defaultChatPrompt), r.Context),
	})
	for _, t := range turns {
		messages = append(messages, driven.ChatMessage{Role: string(t.Role), Content: t.Content})
	}

	if onDelta == nil {
		onDelta = func(string) error { return nil }
	}

	start := time.Now()
	reply, err := s.llmService.ChatStream(ctx, messages, driven.ChatOptions{
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	}, onDelta)
	logger.Since("chat stream", start)
	if err != nil {
		return reply, fmt.Errorf("chat: %w", err)
	}
	return reply, nil
}
