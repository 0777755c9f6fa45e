// Package retrieval builds the in-memory search index over portfolio
// entities and assembles the bounded context handed to the language model.
//
// The pipeline for one request:
//
//   - ExtractMentionSlugs pulls @slug references out of the message
//   - BuildTargetedContext resolves them against the full corpus
//   - IndexCache returns the SemanticIndex for the corpus fingerprint
//   - RankProjects / RankExperiences score the remaining candidates
//   - BuildDisambiguationContext flags companies that are both a project
//     and an experience
//   - Assembler.Build concatenates the sections in fixed priority order
//
// Everything here is pure computation over the corpus it is handed.
// No function performs I/O or returns an error.
package retrieval
