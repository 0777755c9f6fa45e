package domain

// AnswerType classifies what a search answer is about.
type AnswerType string

// Available answer types.
const (
	AnswerProjects    AnswerType = "projects"
	AnswerExperiences AnswerType = "experiences"
	AnswerMixed       AnswerType = "mixed"
	AnswerGeneral     AnswerType = "general"
)

// IsValid returns true if the answer type is recognised.
func (t AnswerType) IsValid() bool {
	switch t {
	case AnswerProjects, AnswerExperiences, AnswerMixed, AnswerGeneral:
		return true
	default:
		return false
	}
}

// AnswerTypeFor derives the answer type from which related lists are non-empty.
func AnswerTypeFor(projects, experiences int) AnswerType {
	switch {
	case projects > 0 && experiences > 0:
		return AnswerMixed
	case projects > 0:
		return AnswerProjects
	case experiences > 0:
		return AnswerExperiences
	default:
		return AnswerGeneral
	}
}

// SearchAnswer is the reply of the search endpoint.
// Related entities are full records re-attached by slug.
type SearchAnswer struct {
	Answer             string       `json:"answer"`
	RelatedProjects    []Project    `json:"relatedProjects"`
	RelatedExperiences []Experience `json:"relatedExperiences"`
	Type               AnswerType   `json:"type"`
}

// Retrieval is the outcome of one context retrieval.
type Retrieval struct {
	// Context is the text block handed to the language model: the compact
	// context followed by the disambiguation block.
	Context string

	// Targeted is the explicit @mention context, empty without mentions.
	Targeted string

	// Disambiguation is the company-collision block, empty without collisions.
	Disambiguation string

	// Mentioned lists the resolved mention references in input order.
	Mentioned []EntityRef

	// Unmatched lists mention slugs that matched no entity.
	Unmatched []string

	// Projects are the ranked relevant projects kept in the context.
	Projects []Project

	// Experiences are the ranked relevant experiences kept in the context.
	Experiences []Experience

	// Tokens is the estimated token count of Context.
	Tokens int

	// Trimmed is true when ranked sections were dropped to fit the budget.
	Trimmed bool
}
