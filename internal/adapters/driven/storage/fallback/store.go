// Package fallback combines a primary key-value store with a static
// fixtures store that answers reads the primary cannot.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.EntityStore    = (*Store)(nil)
	_ driven.WatchableStore = (*Store)(nil)
)

// Store reads the primary first and falls back to the secondary when the
// primary has never written a collection or fails. Writes go to the
// primary only.
type Store struct {
	primary   driven.EntityStore
	secondary driven.EntityStore
}

// NewStore creates a fallback store. The secondary may be nil.
func NewStore(primary, secondary driven.EntityStore) *Store {
	return &Store{primary: primary, secondary: secondary}
}

// LoadProjects returns the primary projects or the secondary ones.
func (s *Store) LoadProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.primary.LoadProjects(ctx)
	if err == nil || s.secondary == nil {
		return projects, err
	}
	if !fallible(ctx, err) {
		return nil, err
	}
	logFallback("projects", err)
	return s.secondary.LoadProjects(ctx)
}

// LoadExperiences returns the primary experiences or the secondary ones.
func (s *Store) LoadExperiences(ctx context.Context) ([]domain.Experience, error) {
	experiences, err := s.primary.LoadExperiences(ctx)
	if err == nil || s.secondary == nil {
		return experiences, err
	}
	if !fallible(ctx, err) {
		return nil, err
	}
	logFallback("experiences", err)
	return s.secondary.LoadExperiences(ctx)
}

// SaveProjects writes to the primary.
func (s *Store) SaveProjects(ctx context.Context, projects []domain.Project) error {
	return s.primary.SaveProjects(ctx, projects)
}

// SaveExperiences writes to the primary.
func (s *Store) SaveExperiences(ctx context.Context, experiences []domain.Experience) error {
	return s.primary.SaveExperiences(ctx, experiences)
}

// Watch forwards to the secondary when it can be watched.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	if w, ok := s.secondary.(driven.WatchableStore); ok {
		return w.Watch(ctx, onChange)
	}
	<-ctx.Done()
	return nil
}

// Close closes both stores.
func (s *Store) Close() error {
	err := s.primary.Close()
	if s.secondary != nil {
		err = errors.Join(err, s.secondary.Close())
	}
	return err
}

// fallible reports whether a primary error should be answered by the
// secondary. Cancellation is returned to the caller as is.
func fallible(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func logFallback(collection string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No stored %s, serving fixtures", collection)
		return
	}
	logger.Warn("%s", fmt.Sprintf("Primary store failed for %s, serving fixtures: %v", collection, err))
}
