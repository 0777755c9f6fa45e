package domain

import (
	"strings"
	"time"
)

// EntityKind identifies which variant of Entity a value is.
type EntityKind string

// Available entity kinds.
const (
	// KindProject is a portfolio project or case study.
	KindProject EntityKind = "project"

	// KindExperience is a work or leadership position.
	KindExperience EntityKind = "experience"
)

// IsValid returns true if the entity kind is recognised.
func (k EntityKind) IsValid() bool {
	switch k {
	case KindProject, KindExperience:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k EntityKind) String() string {
	return string(k)
}

// EntityRef is the cross-reference key of an entity: its kind and slug.
type EntityRef struct {
	Kind EntityKind `json:"type"`
	Slug string     `json:"slug"`
}

// Entity is the closed union of portfolio entities.
// Only Project and Experience implement it; switch on the concrete type
// (or on Ref().Kind) wherever behaviour depends on the variant.
type Entity interface {
	// Ref returns the kind and slug of the entity.
	Ref() EntityRef

	// LastUpdated returns the parsed updatedAt date.
	// Unparseable dates yield the zero time.
	LastUpdated() time.Time

	// Label returns the headline of the entity (title or role).
	Label() string

	isEntity()
}

// Status is the editorial state of an entity.
type Status string

// Available statuses. An empty status is treated as published.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// IsValid returns true if the status is recognised or empty.
func (s Status) IsValid() bool {
	switch s {
	case "", StatusDraft, StatusPublished:
		return true
	default:
		return false
	}
}

// IsPublished returns true unless the status is draft.
func (s Status) IsPublished() bool {
	return s != StatusDraft
}

// dateLayouts are the accepted updatedAt formats, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseDate parses an updatedAt string.
// It returns the zero time when the string matches no known layout.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatDate renders t as a calendar day.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatTimestamp renders t in the canonical updatedAt format.
// Sub-second precision keeps two same-day edits distinguishable.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
