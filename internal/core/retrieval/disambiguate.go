package retrieval

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// DefaultMaxCompanies is the number of collision blocks rendered when the
// caller does not choose.
const DefaultMaxCompanies = 3

// Per-kind entries listed in one collision block.
const maxCollisionEntries = 3

// queryMatchScore is awarded to a collision the query names.
const queryMatchScore = 10

// companyStopwords are generic corporate suffixes ignored when comparing names.
var companyStopwords = map[string]struct{}{
	"inc": {}, "sa": {}, "sas": {}, "group": {}, "groupe": {}, "ltd": {},
	"llc": {}, "corp": {}, "corporation": {}, "co": {}, "company": {},
	"gmbh": {}, "plc": {}, "the": {}, "srl": {}, "ag": {}, "bv": {},
}

// NormalizeCompany folds a company name to its comparison key: accents
// removed, lowercase, punctuation as spaces, stopwords dropped.
func NormalizeCompany(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	words := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	kept := words[:0]
	for _, w := range words {
		if _, stop := companyStopwords[w]; !stop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Collision is a company present as both a project and an experience.
type Collision struct {
	Key         string
	Labels      []string
	Projects    []domain.Project
	Experiences []domain.Experience

	// first is the corpus position of the first entity seen for Key.
	first int
}

// Size is the number of entities sharing the company.
func (c Collision) Size() int {
	return len(c.Projects) + len(c.Experiences)
}

// Entities returns the experiences then projects under the company,
// bounded per kind.
func (c Collision) Entities() []domain.Entity {
	out := make([]domain.Entity, 0, maxCollisionEntries*2)
	for i := 0; i < len(c.Experiences) && i < maxCollisionEntries; i++ {
		out = append(out, c.Experiences[i])
	}
	for i := 0; i < len(c.Projects) && i < maxCollisionEntries; i++ {
		out = append(out, c.Projects[i])
	}
	return out
}

func (c Collision) score(query string) int {
	q := strings.ToLower(query)
	if q == "" {
		return 0
	}
	if strings.Contains(NormalizeCompany(query), c.Key) || strings.Contains(q, c.Key) {
		return queryMatchScore
	}
	for _, label := range c.Labels {
		if strings.Contains(q, strings.ToLower(label)) {
			return queryMatchScore
		}
	}
	return 0
}

// FindCollisions groups the corpus by normalized company and keeps the
// keys held by at least one project and one experience, in order of
// first appearance.
func FindCollisions(corpus domain.Corpus) []Collision {
	groups := make(map[string]*Collision)
	var order []string
	pos := 0

	group := func(company string) *Collision {
		pos++
		key := NormalizeCompany(company)
		if key == "" {
			return nil
		}
		g, ok := groups[key]
		if !ok {
			g = &Collision{Key: key, first: pos}
			groups[key] = g
			order = append(order, key)
		}
		if !containsFold(g.Labels, company) {
			g.Labels = append(g.Labels, strings.TrimSpace(company))
		}
		return g
	}

	for _, p := range corpus.Projects {
		if g := group(p.Company); g != nil {
			g.Projects = append(g.Projects, p)
		}
	}
	for _, e := range corpus.Experiences {
		if g := group(e.Company); g != nil {
			g.Experiences = append(g.Experiences, e)
		}
	}

	var out []Collision
	for _, key := range order {
		g := groups[key]
		if len(g.Projects) > 0 && len(g.Experiences) > 0 {
			out = append(out, *g)
		}
	}
	return out
}

// BuildDisambiguationContext renders a guard block for the companies the
// query is most likely about. Collisions named by the query come first,
// then larger collisions, then corpus order. Returns "" when there is
// nothing to disambiguate.
func BuildDisambiguationContext(query string, corpus domain.Corpus, maxCompanies int) string {
	if maxCompanies <= 0 {
		maxCompanies = DefaultMaxCompanies
	}

	collisions := FindCollisions(corpus)
	if len(collisions) == 0 {
		return ""
	}

	scores := make([]int, len(collisions))
	for i := range collisions {
		scores[i] = collisions[i].score(query)
	}
	idx := make([]int, len(collisions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := collisions[idx[a]], collisions[idx[b]]
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		if ca.Size() != cb.Size() {
			return ca.Size() > cb.Size()
		}
		return ca.first < cb.first
	})
	if len(idx) > maxCompanies {
		idx = idx[:maxCompanies]
	}

	blocks := []string{"Company disambiguation (same company appears as a job and as a project):"}
	for _, i := range idx {
		blocks = append(blocks, renderCollision(collisions[i]))
	}
	return strings.Join(blocks, "\n\n")
}

func renderCollision(c Collision) string {
	lines := []string{"Company: " + strings.Join(c.Labels, " / ")}
	for _, e := range c.Entities() {
		lines = append(lines, "- "+collisionLine(e))
	}
	lines = append(lines, "Rule: never mix project outcomes with experience responsibilities for this company.")
	return strings.Join(lines, "\n")
}

func collisionLine(e domain.Entity) string {
	switch v := e.(type) {
	case domain.Experience:
		l := line{`Experience (job) "` + Clip(v.Role, summaryClip) + `" [` + v.Slug + `]`}
		l.add("Period", v.Period, summaryClip)
		l.add("Responsibilities", v.Description, summaryClip)
		return l.String()
	case domain.Project:
		l := line{`Project (deliverable) "` + Clip(v.Title, summaryClip) + `" [` + v.Slug + `]`}
		l.add("Year", v.Year, summaryClip)
		l.add("Result", v.Result, summaryClip)
		return l.String()
	default:
		return e.Label()
	}
}

func containsFold(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
