package driving

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// PortfolioService manages the project and experience collections.
type PortfolioService interface {
	// Corpus returns both collections. Drafts are dropped unless includeDrafts is set.
	Corpus(ctx context.Context, includeDrafts bool) (domain.Corpus, error)

	// ListProjects returns the projects in stored order.
	ListProjects(ctx context.Context, includeDrafts bool) ([]domain.Project, error)

	// ListExperiences returns the experiences in stored order.
	ListExperiences(ctx context.Context, includeDrafts bool) ([]domain.Experience, error)

	// GetProject returns the project with the slug or domain.ErrNotFound.
	GetProject(ctx context.Context, slug string) (*domain.Project, error)

	// GetExperience returns the experience with the slug or domain.ErrNotFound.
	GetExperience(ctx context.Context, slug string) (*domain.Experience, error)

	// SaveProject creates or replaces a project by slug and bumps its updatedAt.
	SaveProject(ctx context.Context, project domain.Project) (*domain.Project, error)

	// SaveExperience creates or replaces an experience by slug and bumps its updatedAt.
	SaveExperience(ctx context.Context, experience domain.Experience) (*domain.Experience, error)

	// DeleteProject removes a project or returns domain.ErrNotFound.
	DeleteProject(ctx context.Context, slug string) error

	// DeleteExperience removes an experience or returns domain.ErrNotFound.
	DeleteExperience(ctx context.Context, slug string) error

	// Seed merges entries into the stored collections, keeping stored
	// entries and appending those whose slug is missing.
	// It returns how many projects and experiences were added.
	Seed(ctx context.Context, corpus domain.Corpus) (projects, experiences int, err error)

	// Import upserts entries by slug after validating every entry.
	Import(ctx context.Context, corpus domain.Corpus) error

	// MentionCandidates lists published entities whose slug or label starts
	// with prefix, projects first. An empty prefix lists everything.
	MentionCandidates(ctx context.Context, prefix string) ([]domain.MentionCandidate, error)
}
