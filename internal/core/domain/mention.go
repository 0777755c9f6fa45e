package domain

// MentionCandidate is an entity projected for @mention suggestions.
type MentionCandidate struct {
	// Kind is the entity variant.
	Kind EntityKind `json:"type"`

	// Slug is what follows the @ sign.
	Slug string `json:"slug"`

	// Label is the headline (project title or experience role).
	Label string `json:"label"`

	// Secondary is the company, shown next to the label.
	Secondary string `json:"secondary"`
}

// NewMentionCandidate projects an entity into a mention candidate.
func NewMentionCandidate(e Entity) MentionCandidate {
	c := MentionCandidate{Kind: e.Ref().Kind, Slug: e.Ref().Slug, Label: e.Label()}
	switch v := e.(type) {
	case Project:
		c.Secondary = v.Company
	case Experience:
		c.Secondary = v.Company
	}
	return c
}
