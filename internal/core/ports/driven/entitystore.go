package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// EntityStore persists the two ordered entity collections.
// Collections are read and written whole; order is significant.
type EntityStore interface {
	// LoadProjects returns the stored projects in order.
	// Returns domain.ErrNotFound if the collection was never written.
	LoadProjects(ctx context.Context) ([]domain.Project, error)

	// LoadExperiences returns the stored experiences in order.
	// Returns domain.ErrNotFound if the collection was never written.
	LoadExperiences(ctx context.Context) ([]domain.Experience, error)

	// SaveProjects replaces the project collection.
	SaveProjects(ctx context.Context, projects []domain.Project) error

	// SaveExperiences replaces the experience collection.
	SaveExperiences(ctx context.Context, experiences []domain.Experience) error

	// Close releases resources.
	Close() error
}

// WatchableStore is implemented by stores that can report external changes,
// such as a fixtures file edited on disk.
type WatchableStore interface {
	// Watch calls onChange after every detected change until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}
