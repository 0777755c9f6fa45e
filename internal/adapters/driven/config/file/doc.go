// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the folio home directory (~/.folio).
//
// Adapters:
//   - ConfigStore: TOML configuration, one table per settings section
//   - PromptStore: user-editable prompt templates with embedded defaults
package file
