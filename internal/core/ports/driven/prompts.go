package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names fall back to a default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptSearchSystem instructs the model to answer a search query as JSON.
	// The template expects a %s placeholder for the retrieved context.
	PromptSearchSystem = "search_system"

	// PromptChatSystem is the system prompt of the portfolio assistant.
	// The template expects a %s placeholder for the retrieved context.
	PromptChatSystem = "chat_system"
)
