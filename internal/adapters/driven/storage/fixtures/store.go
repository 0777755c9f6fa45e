// Package fixtures serves entity collections from a static YAML or JSON file.
//
// The file holds one document:
//
//	projects:
//	  - slug: ...
//	experiences:
//	  - slug: ...
//
// The store is read-only. It reloads the file when it changes on disk.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.EntityStore    = (*Store)(nil)
	_ driven.WatchableStore = (*Store)(nil)
)

// document is the on-disk layout. Missing keys leave a collection absent.
type document struct {
	Projects    *[]domain.Project    `yaml:"projects"`
	Experiences *[]domain.Experience `yaml:"experiences"`
}

// Store is a read-only EntityStore over a fixtures file.
type Store struct {
	path string

	mu          sync.RWMutex
	projects    []domain.Project
	experiences []domain.Experience
}

// NewStore loads the fixtures file at path.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Parse decodes a fixtures document. JSON input is accepted as YAML.
func Parse(data []byte) (domain.Corpus, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Corpus{}, fmt.Errorf("%w: parse fixtures: %w", domain.ErrInvalidInput, err)
	}

	var corpus domain.Corpus
	if doc.Projects != nil {
		corpus.Projects = *doc.Projects
	}
	if doc.Experiences != nil {
		corpus.Experiences = *doc.Experiences
	}
	return corpus, nil
}

// ReadFile reads and parses a fixtures file.
func ReadFile(path string) (domain.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Corpus{}, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return Parse(data)
}

// Path returns the fixtures file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the fixtures file.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read fixtures %s: %w", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: parse fixtures %s: %w", domain.ErrInvalidInput, s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects, s.experiences = nil, nil
	if doc.Projects != nil {
		s.projects = append([]domain.Project{}, *doc.Projects...)
	}
	if doc.Experiences != nil {
		s.experiences = append([]domain.Experience{}, *doc.Experiences...)
	}
	logger.Debug("Loaded fixtures %s: %d projects, %d experiences",
		s.path, len(s.projects), len(s.experiences))
	return nil
}

// LoadProjects returns the fixture projects.
func (s *Store) LoadProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.projects == nil {
		return nil, fmt.Errorf("fixtures projects: %w", domain.ErrNotFound)
	}
	return append([]domain.Project{}, s.projects...), nil
}

// LoadExperiences returns the fixture experiences.
func (s *Store) LoadExperiences(_ context.Context) ([]domain.Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.experiences == nil {
		return nil, fmt.Errorf("fixtures experiences: %w", domain.ErrNotFound)
	}
	return append([]domain.Experience{}, s.experiences...), nil
}

// SaveProjects always fails; fixtures are read-only.
func (s *Store) SaveProjects(_ context.Context, _ []domain.Project) error {
	return fmt.Errorf("fixtures %s: %w", s.path, domain.ErrReadOnly)
}

// SaveExperiences always fails; fixtures are read-only.
func (s *Store) SaveExperiences(_ context.Context, _ []domain.Experience) error {
	return fmt.Errorf("fixtures %s: %w", s.path, domain.ErrReadOnly)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Watch reloads the file after each change and calls onChange until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
// A change that fails to parse is logged and the previous content kept.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", s.path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn("Fixtures reload failed: %v", err)
				continue
			}
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("Fixtures watcher overflow, reloading")
				_ = s.Reload()
				continue
			}
			logger.Warn("Fixtures watcher: %v", err)
		}
	}
}

// relevant reports whether event rewrote the fixtures file.
func (s *Store) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(s.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
