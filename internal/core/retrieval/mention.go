package retrieval

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Mention slug length bounds.
const (
	minMentionLength = 2
	maxMentionLength = 81
)

// mentionPattern matches @ at the start of the text or after a character
// that cannot be part of a word, followed by a slug-like run.
// Length bounds are applied after matching.
var (
	mentionPattern = regexp.MustCompile(`(^|[^A-Za-z0-9_@])@([A-Za-z0-9-]+)`)
	multiSpace     = regexp.MustCompile(`[ \t]{2,}`)
)

// mentionSpan is the byte range of one valid mention, @ included.
type mentionSpan struct {
	start, end int
	slug       string
}

func findMentions(text string) []mentionSpan {
	var spans []mentionSpan
	for _, m := range mentionPattern.FindAllStringSubmatchIndex(text, -1) {
		slug := strings.TrimRight(text[m[4]:m[5]], "-")
		if len(slug) < minMentionLength || len(slug) > maxMentionLength {
			continue
		}
		// m[4] is the slug start; the @ sits right before it.
		spans = append(spans, mentionSpan{start: m[4] - 1, end: m[5], slug: strings.ToLower(slug)})
	}
	return spans
}

// ExtractMentionSlugs returns the distinct lowercase @mention slugs in
// order of first appearance.
func ExtractMentionSlugs(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range findMentions(text) {
		if _, dup := seen[m.slug]; dup {
			continue
		}
		seen[m.slug] = struct{}{}
		out = append(out, m.slug)
	}
	return out
}

// StripMentions removes @mention tokens from display text and collapses
// the double spaces left behind.
func StripMentions(text string) string {
	spans := findMentions(text)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range spans {
		b.WriteString(text[last:m.start])
		last = m.end
	}
	b.WriteString(text[last:])

	return strings.TrimSpace(multiSpace.ReplaceAllString(b.String(), " "))
}

// MentionCandidates lists every entity as a mention candidate,
// projects first, each in corpus order.
func MentionCandidates(corpus domain.Corpus) []domain.MentionCandidate {
	out := make([]domain.MentionCandidate, 0, corpus.Size())
	for i := range corpus.Projects {
		out = append(out, domain.NewMentionCandidate(corpus.Projects[i]))
	}
	for i := range corpus.Experiences {
		out = append(out, domain.NewMentionCandidate(corpus.Experiences[i]))
	}
	return out
}

// Targeted is the resolution of explicit mentions.
type Targeted struct {
	// Text is the rendered mention context, empty when there were no mentions.
	Text string

	// Mentioned are the resolved references in mention order.
	Mentioned []domain.EntityRef

	// Unmatched are the slugs that matched no entity.
	Unmatched []string
}

// Slugs returns the slugs of the resolved references.
func (t Targeted) Slugs() []string {
	out := make([]string, len(t.Mentioned))
	for i, ref := range t.Mentioned {
		out[i] = ref.Slug
	}
	return out
}

// BuildTargetedContext resolves slugs against the full corpus, projects
// first, and renders each match as a bounded single-line summary.
// Unmatched slugs are reported, never dropped.
func BuildTargetedContext(slugs []string, corpus domain.Corpus) Targeted {
	var t Targeted
	if len(slugs) == 0 {
		return t
	}

	lines := []string{"Explicitly mentioned by the user (authoritative records):"}
	for _, slug := range slugs {
		if p, ok := findProject(corpus.Projects, slug); ok {
			t.Mentioned = append(t.Mentioned, p.Ref())
			lines = append(lines, "- "+projectDetail(p))
			continue
		}
		if e, ok := findExperience(corpus.Experiences, slug); ok {
			t.Mentioned = append(t.Mentioned, e.Ref())
			lines = append(lines, "- "+experienceDetail(e))
			continue
		}
		t.Unmatched = append(t.Unmatched, slug)
	}

	if len(t.Unmatched) > 0 {
		refs := make([]string, len(t.Unmatched))
		for i, slug := range t.Unmatched {
			refs[i] = "@" + slug
		}
		lines = append(lines, "Unknown references (no matching project or experience, say so): "+
			strings.Join(refs, ", "))
	}
	if len(t.Mentioned) == 0 {
		// Only the unknown-reference line is worth sending.
		lines = lines[len(lines)-1:]
	}

	t.Text = strings.Join(lines, "\n")
	return t
}

func findProject(projects []domain.Project, slug string) (domain.Project, bool) {
	for i := range projects {
		if strings.EqualFold(projects[i].Slug, slug) {
			return projects[i], true
		}
	}
	return domain.Project{}, false
}

func findExperience(experiences []domain.Experience, slug string) (domain.Experience, bool) {
	for i := range experiences {
		if strings.EqualFold(experiences[i].Slug, slug) {
			return experiences[i], true
		}
	}
	return domain.Experience{}, false
}
