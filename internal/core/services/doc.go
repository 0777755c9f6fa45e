// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Ranking and context assembly live in internal/core/retrieval;
// services load the corpus, enforce budgets and talk to the LLM.
package services
