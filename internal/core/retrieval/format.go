package retrieval

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Clip lengths in runes.
const (
	// detailClip bounds each field of an explicitly mentioned entity.
	detailClip = 200

	// summaryClip bounds each field of a ranked entity.
	summaryClip = 180
)

const ellipsis = "…"

// Clip collapses whitespace and truncates s to max runes, ending with an
// ellipsis when truncated.
func Clip(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + ellipsis
}

// line joins non-empty parts with " | ".
type line []string

func (l *line) add(label, value string, max int) {
	value = Clip(value, max)
	if value == "" {
		return
	}
	if label != "" {
		value = label + ": " + value
	}
	*l = append(*l, value)
}

func (l line) String() string {
	return strings.Join(l, " | ")
}

func projectHeadline(p domain.Project) string {
	h := `Project "` + Clip(p.Title, detailClip) + `" [` + p.Slug + `]`
	if p.Company != "" {
		h += " for " + Clip(p.Company, detailClip)
	}
	return h
}

func experienceHeadline(e domain.Experience) string {
	h := `Experience "` + Clip(e.Role, detailClip) + `" [` + e.Slug + `]`
	if e.Company != "" {
		h += " at " + Clip(e.Company, detailClip)
	}
	return h
}

// projectDetail renders every narrative section of a mentioned project.
func projectDetail(p domain.Project) string {
	l := line{projectHeadline(p)}
	l.add("", p.Tagline, detailClip)
	l.add("Category", string(p.Category), detailClip)
	l.add("Tags", strings.Join(p.Tags, ", "), detailClip)
	l.add("Year", p.Year, detailClip)
	l.add("Duration", p.Duration, detailClip)
	l.add("Badge", p.Badge, detailClip)
	l.add("Contributors", strings.Join(p.Contributors, ", "), detailClip)
	if p.IsNDA {
		l.add("", "Under NDA: do not disclose client specifics", detailClip)
	}
	l.add("Context", p.Context, detailClip)
	l.add("Problem", p.Problem, detailClip)
	l.add("Data", p.Data, detailClip)
	l.add("Method", p.Method, detailClip)
	l.add("Result", p.Result, detailClip)
	l.add("Impact", p.Impact, detailClip)
	return l.String()
}

// experienceDetail renders a mentioned experience. Missions go through
// VisibleMissions so confidential content never appears.
func experienceDetail(e domain.Experience) string {
	l := line{experienceHeadline(e)}
	l.add("", e.Tagline, detailClip)
	l.add("Type", string(e.Type), detailClip)
	l.add("Period", e.Period, detailClip)
	l.add("Location", e.Location, detailClip)
	l.add("Tools", strings.Join(e.Tools, ", "), detailClip)
	l.add("Description", e.Description, detailClip)
	l.add("Missions", strings.Join(e.VisibleMissions(), "; "), detailClip)
	return l.String()
}

// projectSummary renders a ranked project compactly.
func projectSummary(p domain.Project) string {
	l := line{projectHeadline(p)}
	l.add("", p.Tagline, summaryClip)
	l.add("Tags", strings.Join(p.Tags, ", "), summaryClip)
	l.add("Year", p.Year, summaryClip)
	l.add("Result", p.Result, summaryClip)
	l.add("Impact", p.Impact, summaryClip)
	return l.String()
}

// experienceSummary renders a ranked experience compactly.
func experienceSummary(e domain.Experience) string {
	l := line{experienceHeadline(e)}
	l.add("", e.Tagline, summaryClip)
	l.add("Period", e.Period, summaryClip)
	l.add("Description", e.Description, summaryClip)
	l.add("Missions", strings.Join(e.VisibleMissions(), "; "), summaryClip)
	return l.String()
}
