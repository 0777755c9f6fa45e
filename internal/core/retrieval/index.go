package retrieval

import (
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Project field weights. A token found in several fields sums their weights.
const (
	weightProjectSlug         = 3.2
	weightProjectTitle        = 3.7
	weightProjectCompany      = 2.8
	weightProjectTagline      = 2.2
	weightProjectTags         = 2.3
	weightProjectCategory     = 1.6
	weightProjectContributors = 1.0
	weightProjectContext      = 1.2
	weightProjectProblem      = 1.2
	weightProjectData         = 1.1
	weightProjectMethod       = 1.2
	weightProjectResult       = 1.4
	weightProjectImpact       = 1.4
)

// Experience field weights.
const (
	weightExperienceSlug        = 3.1
	weightExperienceRole        = 3.6
	weightExperienceCompany     = 2.6
	weightExperienceTagline     = 2.0
	weightExperienceTools       = 2.3
	weightExperienceLocation    = 1.0
	weightExperienceDescription = 1.3
	weightExperienceMissions    = 1.2
)

// field is one weighted piece of entity text.
type field struct {
	text   string
	weight float64
}

// Document is one indexed entity.
type Document[E domain.Entity] struct {
	// Entity is the indexed record.
	Entity E

	// Text is the lowercase concatenation of every indexed field,
	// used for phrase containment checks.
	Text string

	// Weights maps each token to its summed field weight.
	Weights map[string]float64
}

// Collection is the indexed form of one entity kind.
type Collection[E domain.Entity] struct {
	// Docs are in corpus order; a document's position is its ordinal.
	Docs []Document[E]

	// Postings maps a token to the ascending ordinals of documents holding it.
	Postings map[string][]int
}

// SemanticIndex is one build over a corpus.
type SemanticIndex struct {
	Projects    Collection[domain.Project]
	Experiences Collection[domain.Experience]
}

// Build indexes the corpus. It is deterministic and has no side effects.
func Build(projects []domain.Project, experiences []domain.Experience) *SemanticIndex {
	return &SemanticIndex{
		Projects:    newCollection(projects, projectFields),
		Experiences: newCollection(experiences, experienceFields),
	}
}

func newCollection[E domain.Entity](entities []E, fieldsOf func(E) []field) Collection[E] {
	c := Collection[E]{
		Docs:     make([]Document[E], len(entities)),
		Postings: make(map[string][]int),
	}
	for ord, e := range entities {
		doc := newDocument(e, fieldsOf(e))
		c.Docs[ord] = doc
		for tok := range doc.Weights {
			c.Postings[tok] = append(c.Postings[tok], ord)
		}
	}
	return c
}

func newDocument[E domain.Entity](e E, fields []field) Document[E] {
	weights := make(map[string]float64)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.text == "" {
			continue
		}
		parts = append(parts, f.text)
		for _, tok := range Tokenize(f.text, IndexMinLength) {
			weights[tok] += f.weight
		}
	}
	return Document[E]{
		Entity:  e,
		Text:    strings.ToLower(strings.Join(parts, " ")),
		Weights: weights,
	}
}

func projectFields(p domain.Project) []field {
	return []field{
		{p.Slug, weightProjectSlug},
		{p.Title, weightProjectTitle},
		{p.Company, weightProjectCompany},
		{p.Tagline, weightProjectTagline},
		{strings.Join(p.Tags, " "), weightProjectTags},
		{string(p.Category), weightProjectCategory},
		{strings.Join(p.Contributors, " "), weightProjectContributors},
		{p.Context, weightProjectContext},
		{p.Problem, weightProjectProblem},
		{p.Data, weightProjectData},
		{p.Method, weightProjectMethod},
		{p.Result, weightProjectResult},
		{p.Impact, weightProjectImpact},
	}
}

func experienceFields(e domain.Experience) []field {
	return []field{
		{e.Slug, weightExperienceSlug},
		{e.Role, weightExperienceRole},
		{e.Company, weightExperienceCompany},
		{e.Tagline, weightExperienceTagline},
		{strings.Join(e.Tools, " "), weightExperienceTools},
		{e.Location, weightExperienceLocation},
		{e.Description, weightExperienceDescription},
		{strings.Join(e.VisibleMissions(), " "), weightExperienceMissions},
	}
}
