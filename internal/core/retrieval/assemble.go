package retrieval

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// SectionKind names a section of the compact context.
type SectionKind string

// Sections in assembly order.
const (
	SectionSummary     SectionKind = "summary"
	SectionTargeted    SectionKind = "targeted"
	SectionProjects    SectionKind = "projects"
	SectionExperiences SectionKind = "experiences"
)

// ContextRequest is the input of one context assembly.
type ContextRequest struct {
	// Query is the raw user text; mentions are stripped before ranking.
	Query string

	// Corpus is the visible corpus, already filtered by the caller.
	Corpus domain.Corpus

	// MentionedSlugs are excluded from ranking.
	MentionedSlugs []string

	// Targeted is the rendered mention context, may be empty.
	Targeted string
}

// Section is one non-empty block of the compact context.
type Section struct {
	Kind SectionKind
	Text string
}

// CompactContext is the assembled context with the entities it ranked.
type CompactContext struct {
	Sections    []Section
	Projects    []domain.Project
	Experiences []domain.Experience
}

// String joins the sections with blank lines.
func (c CompactContext) String() string {
	parts := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n\n")
}

// Has reports whether a section of the given kind is present.
func (c CompactContext) Has(kind SectionKind) bool {
	for _, s := range c.Sections {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// Without returns a copy with the section of the given kind removed,
// along with the entities it listed.
func (c CompactContext) Without(kind SectionKind) CompactContext {
	out := CompactContext{Projects: c.Projects, Experiences: c.Experiences}
	for _, s := range c.Sections {
		if s.Kind != kind {
			out.Sections = append(out.Sections, s)
		}
	}
	switch kind {
	case SectionProjects:
		out.Projects = nil
	case SectionExperiences:
		out.Experiences = nil
	}
	return out
}

// Assembler builds compact contexts over a shared index cache.
type Assembler struct {
	cache *IndexCache
}

// NewAssembler creates an assembler. A nil cache gets a fresh one.
func NewAssembler(cache *IndexCache) *Assembler {
	if cache == nil {
		cache = NewIndexCache()
	}
	return &Assembler{cache: cache}
}

// Cache returns the index cache backing the assembler.
func (a *Assembler) Cache() *IndexCache {
	return a.cache
}

// Build assembles the summary, targeted, ranked project and ranked
// experience sections, in that order, omitting empty ones.
func (a *Assembler) Build(req ContextRequest) CompactContext {
	corpus := req.Corpus
	idx := a.cache.Get(corpus.Projects, corpus.Experiences)

	tokens := QueryTokens(StripMentions(req.Query))
	exclude := NewSlugSet(req.MentionedSlugs...)
	limits := LimitsFor(len(req.MentionedSlugs) > 0)

	projects := Entities(RankProjects(idx, tokens, exclude, limits.Projects))
	experiences := Entities(RankExperiences(idx, tokens, exclude, limits.Experiences))

	out := CompactContext{Projects: projects, Experiences: experiences}
	out.Sections = append(out.Sections, Section{
		Kind: SectionSummary,
		Text: fmt.Sprintf("Portfolio: %d projects, %d experiences.",
			len(corpus.Projects), len(corpus.Experiences)),
	})

	if t := strings.TrimSpace(req.Targeted); t != "" {
		out.Sections = append(out.Sections, Section{Kind: SectionTargeted, Text: t})
	}

	if len(projects) > 0 {
		lines := []string{"Relevant projects:"}
		for _, p := range projects {
			lines = append(lines, "- "+projectSummary(p))
		}
		out.Sections = append(out.Sections, Section{Kind: SectionProjects, Text: strings.Join(lines, "\n")})
	}

	if len(experiences) > 0 {
		lines := []string{"Relevant experiences:"}
		for _, e := range experiences {
			lines = append(lines, "- "+experienceSummary(e))
		}
		out.Sections = append(out.Sections, Section{Kind: SectionExperiences, Text: strings.Join(lines, "\n")})
	}

	return out
}
