package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/core/retrieval"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure PortfolioService implements the interface.
var _ driving.PortfolioService = (*PortfolioService)(nil)

// slugPattern is a kebab-case slug of 2 to 81 characters.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,80}$`)

// PortfolioService manages the entity collections in an EntityStore.
type PortfolioService struct {
	store driven.EntityStore

	// mu serialises read-modify-write cycles on the collections.
	mu  sync.Mutex
	now func() time.Time

	listeners []func()
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(store driven.EntityStore) *PortfolioService {
	return &PortfolioService{
		store: store,
		now:   time.Now,
	}
}

// SetClock replaces the clock used to stamp updatedAt.
func (s *PortfolioService) SetClock(now func() time.Time) {
	s.now = now
}

// OnChange registers fn to run after every successful write.
// Callers register during wiring, before the service is shared.
func (s *PortfolioService) OnChange(fn func()) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

func (s *PortfolioService) changed() {
	for _, fn := range s.listeners {
		fn()
	}
}

// Corpus returns both collections.
func (s *PortfolioService) Corpus(ctx context.Context, includeDrafts bool) (domain.Corpus, error) {
	projects, err := s.loadProjects(ctx)
	if err != nil {
		return domain.Corpus{}, err
	}
	experiences, err := s.loadExperiences(ctx)
	if err != nil {
		return domain.Corpus{}, err
	}

	corpus := domain.Corpus{Projects: projects, Experiences: experiences}
	if !includeDrafts {
		corpus = corpus.Published()
	}
	return corpus, nil
}

// ListProjects returns the projects in stored order.
func (s *PortfolioService) ListProjects(ctx context.Context, includeDrafts bool) ([]domain.Project, error) {
	projects, err := s.loadProjects(ctx)
	if err != nil {
		return nil, err
	}
	if !includeDrafts {
		projects = domain.PublishedProjects(projects)
	}
	return projects, nil
}

// ListExperiences returns the experiences in stored order.
func (s *PortfolioService) ListExperiences(ctx context.Context, includeDrafts bool) ([]domain.Experience, error) {
	experiences, err := s.loadExperiences(ctx)
	if err != nil {
		return nil, err
	}
	if !includeDrafts {
		experiences = domain.PublishedExperiences(experiences)
	}
	return experiences, nil
}

// GetProject returns the project with the given slug.
func (s *PortfolioService) GetProject(ctx context.Context, slug string) (*domain.Project, error) {
	projects, err := s.loadProjects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if strings.EqualFold(projects[i].Slug, slug) {
			return &projects[i], nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", slug, domain.ErrNotFound)
}

// GetExperience returns the experience with the given slug.
func (s *PortfolioService) GetExperience(ctx context.Context, slug string) (*domain.Experience, error) {
	experiences, err := s.loadExperiences(ctx)
	if err != nil {
		return nil, err
	}
	for i := range experiences {
		if strings.EqualFold(experiences[i].Slug, slug) {
			return &experiences[i], nil
		}
	}
	return nil, fmt.Errorf("experience %q: %w", slug, domain.ErrNotFound)
}

// SaveProject creates or replaces a project by slug.
// A new project is appended; an existing one keeps its position.
func (s *PortfolioService) SaveProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects(ctx)
	if err != nil {
		return nil, err
	}

	project.UpdatedAt = domain.FormatTimestamp(s.now())
	projects = upsert(projects, project, func(p domain.Project) string { return p.Slug })

	if err := s.store.SaveProjects(ctx, projects); err != nil {
		return nil, fmt.Errorf("save projects: %w", err)
	}
	s.changed()
	logger.Info("Saved project %s", project.Slug)
	return &project, nil
}

// SaveExperience creates or replaces an experience by slug.
func (s *PortfolioService) SaveExperience(ctx context.Context, experience domain.Experience) (*domain.Experience, error) {
	if err := validateExperience(experience); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	experiences, err := s.loadExperiences(ctx)
	if err != nil {
		return nil, err
	}

	experience.UpdatedAt = domain.FormatTimestamp(s.now())
	experiences = upsert(experiences, experience, func(e domain.Experience) string { return e.Slug })

	if err := s.store.SaveExperiences(ctx, experiences); err != nil {
		return nil, fmt.Errorf("save experiences: %w", err)
	}
	s.changed()
	logger.Info("Saved experience %s", experience.Slug)
	return &experience, nil
}

// DeleteProject removes a project.
func (s *PortfolioService) DeleteProject(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects(ctx)
	if err != nil {
		return err
	}
	kept, removed := remove(projects, slug, func(p domain.Project) string { return p.Slug })
	if !removed {
		return fmt.Errorf("project %q: %w", slug, domain.ErrNotFound)
	}
	if err := s.store.SaveProjects(ctx, kept); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	s.changed()
	logger.Info("Deleted project %s", slug)
	return nil
}

// DeleteExperience removes an experience.
func (s *PortfolioService) DeleteExperience(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	experiences, err := s.loadExperiences(ctx)
	if err != nil {
		return err
	}
	kept, removed := remove(experiences, slug, func(e domain.Experience) string { return e.Slug })
	if !removed {
		return fmt.Errorf("experience %q: %w", slug, domain.ErrNotFound)
	}
	if err := s.store.SaveExperiences(ctx, kept); err != nil {
		return fmt.Errorf("save experiences: %w", err)
	}
	s.changed()
	logger.Info("Deleted experience %s", slug)
	return nil
}

// Seed merges entries into the stored collections. Stored entries win;
// entries whose slug is missing are appended in the given order.
// A collection is only written when something was added.
func (s *PortfolioService) Seed(ctx context.Context, corpus domain.Corpus) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects(ctx)
	if err != nil {
		return 0, 0, err
	}
	experiences, err := s.loadExperiences(ctx)
	if err != nil {
		return 0, 0, err
	}

	projects, addedProjects := mergeMissing(projects, corpus.Projects, func(p domain.Project) string { return p.Slug })
	experiences, addedExperiences := mergeMissing(experiences, corpus.Experiences,
		func(e domain.Experience) string { return e.Slug })

	if addedProjects > 0 {
		if err := s.store.SaveProjects(ctx, projects); err != nil {
			return 0, 0, fmt.Errorf("save projects: %w", err)
		}
		s.changed()
	}
	if addedExperiences > 0 {
		if err := s.store.SaveExperiences(ctx, experiences); err != nil {
			return addedProjects, 0, fmt.Errorf("save experiences: %w", err)
		}
		s.changed()
	}

	logger.Info("Seeded %d projects, %d experiences", addedProjects, addedExperiences)
	return addedProjects, addedExperiences, nil
}

// Import upserts every entry by slug: existing entries are replaced in
// place, new ones appended. Entries are validated first, slugs must be
// unique within the file and entries without updatedAt are stamped.
func (s *PortfolioService) Import(ctx context.Context, corpus domain.Corpus) error {
	if err := checkUnique(corpus.Projects, validateProject, func(p domain.Project) string { return p.Slug }); err != nil {
		return err
	}
	if err := checkUnique(corpus.Experiences, validateExperience,
		func(e domain.Experience) string { return e.Slug }); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects(ctx)
	if err != nil {
		return err
	}
	experiences, err := s.loadExperiences(ctx)
	if err != nil {
		return err
	}

	stamp := domain.FormatTimestamp(s.now())
	for _, p := range corpus.Projects {
		if p.UpdatedAt == "" {
			p.UpdatedAt = stamp
		}
		projects = upsert(projects, p, func(p domain.Project) string { return p.Slug })
	}
	for _, e := range corpus.Experiences {
		if e.UpdatedAt == "" {
			e.UpdatedAt = stamp
		}
		experiences = upsert(experiences, e, func(e domain.Experience) string { return e.Slug })
	}

	if len(corpus.Projects) > 0 {
		if err := s.store.SaveProjects(ctx, projects); err != nil {
			return fmt.Errorf("save projects: %w", err)
		}
		s.changed()
	}
	if len(corpus.Experiences) > 0 {
		if err := s.store.SaveExperiences(ctx, experiences); err != nil {
			return fmt.Errorf("save experiences: %w", err)
		}
		s.changed()
	}
	logger.Info("Imported %d projects, %d experiences", len(corpus.Projects), len(corpus.Experiences))
	return nil
}

// MentionCandidates lists published entities matching prefix.
func (s *PortfolioService) MentionCandidates(ctx context.Context, prefix string) ([]domain.MentionCandidate, error) {
	corpus, err := s.Corpus(ctx, false)
	if err != nil {
		return nil, err
	}

	prefix = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(prefix), "@"))
	all := retrieval.MentionCandidates(corpus)
	if prefix == "" {
		return all, nil
	}

	out := make([]domain.MentionCandidate, 0, len(all))
	for _, c := range all {
		if strings.HasPrefix(strings.ToLower(c.Slug), prefix) || strings.HasPrefix(strings.ToLower(c.Label), prefix) {
			out = append(out, c)
		}
	}
	return out, nil
}

// loadProjects treats a never-written collection as empty.
func (s *PortfolioService) loadProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.store.LoadProjects(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return projects, nil
}

func (s *PortfolioService) loadExperiences(ctx context.Context) ([]domain.Experience, error) {
	experiences, err := s.store.LoadExperiences(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Experience{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load experiences: %w", err)
	}
	return experiences, nil
}

// ValidateSlug checks that slug is kebab-case and 2 to 81 characters long.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) || strings.HasSuffix(slug, "-") || strings.Contains(slug, "--") {
		return fmt.Errorf("%w: slug %q must be kebab-case, 2-81 characters", domain.ErrInvalidInput, slug)
	}
	return nil
}

func validateProject(p domain.Project) error {
	if err := ValidateSlug(p.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: project %q has no title", domain.ErrInvalidInput, p.Slug)
	}
	if p.Category != "" && !p.Category.IsValid() {
		return fmt.Errorf("%w: project %q has unknown category %q", domain.ErrInvalidInput, p.Slug, p.Category)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: project %q has unknown status %q", domain.ErrInvalidInput, p.Slug, p.Status)
	}
	return nil
}

func validateExperience(e domain.Experience) error {
	if err := ValidateSlug(e.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(e.Role) == "" {
		return fmt.Errorf("%w: experience %q has no role", domain.ErrInvalidInput, e.Slug)
	}
	if e.Type != "" && !e.Type.IsValid() {
		return fmt.Errorf("%w: experience %q has unknown type %q", domain.ErrInvalidInput, e.Slug, e.Type)
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%w: experience %q has unknown status %q", domain.ErrInvalidInput, e.Slug, e.Status)
	}
	return nil
}

// checkUnique validates every item and rejects repeated slugs.
func checkUnique[T any](items []T, validate func(T) error, slugOf func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := validate(item); err != nil {
			return err
		}
		key := strings.ToLower(slugOf(item))
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate slug %q", domain.ErrAlreadyExists, slugOf(item))
		}
		seen[key] = struct{}{}
	}
	return nil
}

// upsert replaces the entry with item's slug in place or appends item.
func upsert[T any](list []T, item T, slugOf func(T) string) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	for i := range out {
		if strings.EqualFold(slugOf(out[i]), slugOf(item)) {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

// remove drops the entry with slug, reporting whether one was found.
func remove[T any](list []T, slug string, slugOf func(T) string) ([]T, bool) {
	out := make([]T, 0, len(list))
	removed := false
	for _, item := range list {
		if strings.EqualFold(slugOf(item), slug) {
			removed = true
			continue
		}
		out = append(out, item)
	}
	return out, removed
}

// mergeMissing appends the seed entries whose slug is not already stored.
func mergeMissing[T any](stored, seed []T, slugOf func(T) string) ([]T, int) {
	have := make(map[string]struct{}, len(stored))
	for _, item := range stored {
		have[strings.ToLower(slugOf(item))] = struct{}{}
	}

	out := append([]T(nil), stored...)
	added := 0
	for _, item := range seed {
		key := strings.ToLower(slugOf(item))
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		out = append(out, item)
		added++
	}
	return out, added
}
