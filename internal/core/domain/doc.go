// Package domain defines the core business entities for folio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Project: A portfolio case study (title, company, narrative sections)
//   - Experience: A work or leadership position (role, company, missions)
//   - Entity: The closed union over Project and Experience
//   - MentionCandidate: A projection used for @mention suggestions
//   - ChatTurn: One message of a chat conversation
//   - SearchAnswer: The structured reply of the search endpoint
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
