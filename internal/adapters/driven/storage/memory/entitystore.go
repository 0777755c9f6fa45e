package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure EntityStore implements the interface.
var _ driven.EntityStore = (*EntityStore)(nil)

// EntityStore is an in-memory implementation of driven.EntityStore.
// Collections are copied on every read and write.
type EntityStore struct {
	mu          sync.RWMutex
	projects    []domain.Project
	experiences []domain.Experience
}

// NewEntityStore creates an empty in-memory entity store.
// Both collections report domain.ErrNotFound until first saved.
func NewEntityStore() *EntityStore {
	return &EntityStore{}
}

// NewSeededEntityStore creates a store holding the given corpus.
func NewSeededEntityStore(corpus domain.Corpus) *EntityStore {
	return &EntityStore{
		projects:    cloneProjects(corpus.Projects),
		experiences: cloneExperiences(corpus.Experiences),
	}
}

// LoadProjects returns a copy of the stored projects.
func (s *EntityStore) LoadProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.projects == nil {
		return nil, domain.ErrNotFound
	}
	return cloneProjects(s.projects), nil
}

// LoadExperiences returns a copy of the stored experiences.
func (s *EntityStore) LoadExperiences(_ context.Context) ([]domain.Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.experiences == nil {
		return nil, domain.ErrNotFound
	}
	return cloneExperiences(s.experiences), nil
}

// SaveProjects replaces the project collection.
func (s *EntityStore) SaveProjects(_ context.Context, projects []domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = cloneProjects(projects)
	return nil
}

// SaveExperiences replaces the experience collection.
func (s *EntityStore) SaveExperiences(_ context.Context, experiences []domain.Experience) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.experiences = cloneExperiences(experiences)
	return nil
}

// Close is a no-op.
func (s *EntityStore) Close() error {
	return nil
}

// cloneProjects never returns nil so a saved empty collection stays found.
func cloneProjects(in []domain.Project) []domain.Project {
	out := make([]domain.Project, len(in))
	for i, p := range in {
		p.Tags = append([]string(nil), p.Tags...)
		p.Contributors = append([]string(nil), p.Contributors...)
		out[i] = p
	}
	return out
}

func cloneExperiences(in []domain.Experience) []domain.Experience {
	out := make([]domain.Experience, len(in))
	for i, e := range in {
		e.Missions = append([]string(nil), e.Missions...)
		e.Tools = append([]string(nil), e.Tools...)
		out[i] = e
	}
	return out
}
