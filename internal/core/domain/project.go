package domain

import "time"

// Category is the fixed classification of a project.
type Category string

// Available project categories.
const (
	CategoryData        Category = "data"
	CategoryStrategy    Category = "strategy"
	CategoryMarketing   Category = "marketing"
	CategoryFinance     Category = "finance"
	CategoryProduct     Category = "product"
	CategoryEngineering Category = "engineering"
	CategoryResearch    Category = "research"
)

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryData, CategoryStrategy, CategoryMarketing, CategoryFinance,
		CategoryProduct, CategoryEngineering, CategoryResearch:
		return true
	default:
		return false
	}
}

// Project is a portfolio case study.
// Slug is unique within the collection and is the only cross-reference key.
// Narrative sections may be empty strings.
type Project struct {
	Slug         string   `json:"slug" yaml:"slug"`
	Title        string   `json:"title" yaml:"title"`
	Company      string   `json:"company" yaml:"company"`
	Tagline      string   `json:"tagline" yaml:"tagline"`
	Tags         []string `json:"tags" yaml:"tags"`
	Category     Category `json:"category" yaml:"category"`
	Context      string   `json:"context" yaml:"context"`
	Problem      string   `json:"problem" yaml:"problem"`
	Data         string   `json:"data" yaml:"data"`
	Method       string   `json:"method" yaml:"method"`
	Result       string   `json:"result" yaml:"result"`
	Impact       string   `json:"impact" yaml:"impact"`
	Year         string   `json:"year" yaml:"year"`
	Duration     string   `json:"duration" yaml:"duration"`
	Badge        string   `json:"badge,omitempty" yaml:"badge,omitempty"`
	Contributors []string `json:"contributors,omitempty" yaml:"contributors,omitempty"`
	IsNDA        bool     `json:"isNDA,omitempty" yaml:"isNDA,omitempty"`
	IsPrivate    bool     `json:"isPrivate,omitempty" yaml:"isPrivate,omitempty"`
	UpdatedAt    string   `json:"updatedAt" yaml:"updatedAt"`
	Status       Status   `json:"status,omitempty" yaml:"status,omitempty"`
}

var _ Entity = Project{}

// Ref returns the project reference.
func (p Project) Ref() EntityRef {
	return EntityRef{Kind: KindProject, Slug: p.Slug}
}

// LastUpdated returns the parsed updatedAt date.
func (p Project) LastUpdated() time.Time {
	return ParseDate(p.UpdatedAt)
}

// Label returns the project title.
func (p Project) Label() string {
	return p.Title
}

func (Project) isEntity() {}

// PublishedProjects returns the projects that are not drafts, preserving order.
func PublishedProjects(projects []Project) []Project {
	out := make([]Project, 0, len(projects))
	for i := range projects {
		if projects[i].Status.IsPublished() {
			out = append(out, projects[i])
		}
	}
	return out
}
