package retrieval

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Scoring constants.
const (
	// longTokenLength is the rune length from which a token counts as specific.
	longTokenLength = 7
	longTokenBoost  = 1.35
	shortTokenBoost = 1.1

	// minPhraseLength is the joined query length above which the phrase bonus applies.
	minPhraseLength = 5
)

// bonuses are the per-kind flat rewards added on top of token scores.
type bonuses struct {
	phrase   float64
	coverage float64
}

var (
	projectBonuses    = bonuses{phrase: 4.2, coverage: 2.1}
	experienceBonuses = bonuses{phrase: 4.0, coverage: 2.0}
)

// Limits is the number of ranked entities of each kind kept in a context.
type Limits struct {
	Projects    int
	Experiences int
}

// LimitsFor returns the relevance budget. Explicit mentions already occupy
// guaranteed slots, so the ranked budget shrinks when they are present.
func LimitsFor(hasMentions bool) Limits {
	if hasMentions {
		return Limits{Projects: 3, Experiences: 2}
	}
	return Limits{Projects: 6, Experiences: 4}
}

// SlugSet is a set of lowercase slugs.
type SlugSet map[string]struct{}

// NewSlugSet builds a set from slugs, lowercasing each.
func NewSlugSet(slugs ...string) SlugSet {
	s := make(SlugSet, len(slugs))
	for _, slug := range slugs {
		s[strings.ToLower(slug)] = struct{}{}
	}
	return s
}

// Has reports whether slug is in the set, ignoring case.
func (s SlugSet) Has(slug string) bool {
	_, ok := s[strings.ToLower(slug)]
	return ok
}

// Hit is a ranked entity with its score. Hits from the chronological
// fallback carry a zero score.
type Hit[E domain.Entity] struct {
	Entity E
	Score  float64
}

// RankProjects returns up to limit projects for the query tokens.
func RankProjects(idx *SemanticIndex, tokens []string, exclude SlugSet, limit int) []Hit[domain.Project] {
	return rank(&idx.Projects, tokens, exclude, limit, projectBonuses)
}

// RankExperiences returns up to limit experiences for the query tokens.
func RankExperiences(idx *SemanticIndex, tokens []string, exclude SlugSet, limit int) []Hit[domain.Experience] {
	return rank(&idx.Experiences, tokens, exclude, limit, experienceBonuses)
}

// Entities unwraps hits into their entities, preserving order.
func Entities[E domain.Entity](hits []Hit[E]) []E {
	out := make([]E, len(hits))
	for i := range hits {
		out[i] = hits[i].Entity
	}
	return out
}

// rank scores candidates and returns the best limit of them.
// Equal scores keep corpus order. When no candidate matches any token the
// most recently updated entities are returned instead, so a context is
// never left without entities purely due to vocabulary mismatch.
func rank[E domain.Entity](c *Collection[E], tokens []string, exclude SlugSet, limit int, b bonuses) []Hit[E] {
	if limit <= 0 || len(c.Docs) == 0 {
		return []Hit[E]{}
	}
	if len(tokens) == 0 {
		return recent(c, exclude, limit)
	}

	candidates := candidateOrdinals(c, tokens)
	phrase := strings.Join(tokens, " ")
	hits := make([]Hit[E], 0, len(candidates))

	for _, ord := range candidates {
		doc := &c.Docs[ord]
		if exclude.Has(doc.Entity.Ref().Slug) {
			continue
		}

		var score float64
		matched := 0
		for _, tok := range tokens {
			w, ok := doc.Weights[tok]
			if !ok {
				continue
			}
			matched++
			score += w * lengthBoost(tok)
		}
		if matched == 0 {
			continue
		}

		if utf8.RuneCountInString(phrase) > minPhraseLength && strings.Contains(doc.Text, phrase) {
			score += b.phrase
		}
		score += float64(matched) / float64(len(tokens)) * b.coverage

		hits = append(hits, Hit[E]{Entity: doc.Entity, Score: score})
	}

	if len(hits) == 0 {
		return recent(c, exclude, limit)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// candidateOrdinals unions the postings of all tokens in ascending ordinal
// order, or returns every ordinal when no token has postings.
func candidateOrdinals[E domain.Entity](c *Collection[E], tokens []string) []int {
	seen := make(map[int]struct{})
	for _, tok := range tokens {
		for _, ord := range c.Postings[tok] {
			seen[ord] = struct{}{}
		}
	}

	if len(seen) == 0 {
		all := make([]int, len(c.Docs))
		for i := range all {
			all[i] = i
		}
		return all
	}

	out := make([]int, 0, len(seen))
	for ord := range seen {
		out = append(out, ord)
	}
	sort.Ints(out)
	return out
}

// recent returns non-excluded entities by descending updatedAt, corpus order on ties.
func recent[E domain.Entity](c *Collection[E], exclude SlugSet, limit int) []Hit[E] {
	hits := make([]Hit[E], 0, len(c.Docs))
	for i := range c.Docs {
		if exclude.Has(c.Docs[i].Entity.Ref().Slug) {
			continue
		}
		hits = append(hits, Hit[E]{Entity: c.Docs[i].Entity})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Entity.LastUpdated().After(hits[j].Entity.LastUpdated())
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func lengthBoost(tok string) float64 {
	if utf8.RuneCountInString(tok) >= longTokenLength {
		return longTokenBoost
	}
	return shortTokenBoost
}
