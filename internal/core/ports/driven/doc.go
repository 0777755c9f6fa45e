// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EntityStore: Project and experience collection persistence
//   - ConfigStore: Application configuration
//   - PromptStore: System prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model. Without it, search returns ranked entities only
//     and chat is unavailable.
//   - TokenCounter: Context size estimation. Without it, a rune-based estimate is used.
//   - WatchableStore: Change notification for file-backed stores.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
