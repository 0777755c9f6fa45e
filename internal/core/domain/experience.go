package domain

import "time"

// ConfidentialPlaceholder replaces the missions of a confidential experience
// everywhere they could be surfaced.
const ConfidentialPlaceholder = "Classified: mission details are confidential."

// ExperienceType distinguishes jobs from leadership roles.
type ExperienceType string

// Available experience types.
const (
	ExperienceWork       ExperienceType = "work"
	ExperienceLeadership ExperienceType = "leadership"
)

// IsValid returns true if the experience type is recognised.
func (t ExperienceType) IsValid() bool {
	return t == ExperienceWork || t == ExperienceLeadership
}

// Experience is a position held, with its responsibilities.
type Experience struct {
	Slug           string         `json:"slug" yaml:"slug"`
	Role           string         `json:"role" yaml:"role"`
	Company        string         `json:"company" yaml:"company"`
	Period         string         `json:"period" yaml:"period"`
	Location       string         `json:"location" yaml:"location"`
	Type           ExperienceType `json:"type" yaml:"type"`
	Tagline        string         `json:"tagline" yaml:"tagline"`
	Description    string         `json:"description" yaml:"description"`
	Missions       []string       `json:"missions" yaml:"missions"`
	IsConfidential bool           `json:"isConfidential,omitempty" yaml:"isConfidential,omitempty"`
	Tools          []string       `json:"tools,omitempty" yaml:"tools,omitempty"`
	UpdatedAt      string         `json:"updatedAt" yaml:"updatedAt"`
	Status         Status         `json:"status,omitempty" yaml:"status,omitempty"`
}

var _ Entity = Experience{}

// Ref returns the experience reference.
func (e Experience) Ref() EntityRef {
	return EntityRef{Kind: KindExperience, Slug: e.Slug}
}

// LastUpdated returns the parsed updatedAt date.
func (e Experience) LastUpdated() time.Time {
	return ParseDate(e.UpdatedAt)
}

// Label returns the role.
func (e Experience) Label() string {
	return e.Role
}

func (Experience) isEntity() {}

// VisibleMissions returns the missions that may be shown or indexed.
// A confidential experience only ever exposes the placeholder.
func (e Experience) VisibleMissions() []string {
	if e.IsConfidential {
		return []string{ConfidentialPlaceholder}
	}
	return e.Missions
}

// Redacted returns a copy safe to hand to external callers.
func (e Experience) Redacted() Experience {
	e.Missions = append([]string(nil), e.VisibleMissions()...)
	return e
}

// PublishedExperiences returns the experiences that are not drafts, preserving order.
func PublishedExperiences(experiences []Experience) []Experience {
	out := make([]Experience, 0, len(experiences))
	for i := range experiences {
		if experiences[i].Status.IsPublished() {
			out = append(out, experiences[i])
		}
	}
	return out
}
