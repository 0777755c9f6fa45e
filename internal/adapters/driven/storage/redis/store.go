// Package redis provides a Redis-backed key-value EntityStore.
//
// Each collection is one string key holding a JSON array:
// <prefix>projects and <prefix>experiences.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EntityStore = (*Store)(nil)

// DefaultKeyPrefix namespaces collection keys when none is configured.
const DefaultKeyPrefix = "folio:"

// Config holds Redis connection settings.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Store is a Redis-backed EntityStore.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: redis address is required", domain.ErrInvalidInput)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping %s: %w", domain.ErrStoreUnavailable, cfg.Addr, err)
	}

	return NewStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Key returns the Redis key of a collection.
func (s *Store) Key(collection string) string {
	return s.prefix + collection
}

// LoadProjects returns the stored projects.
func (s *Store) LoadProjects(ctx context.Context) ([]domain.Project, error) {
	projects := []domain.Project{}
	if err := s.load(ctx, "projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// LoadExperiences returns the stored experiences.
func (s *Store) LoadExperiences(ctx context.Context) ([]domain.Experience, error) {
	experiences := []domain.Experience{}
	if err := s.load(ctx, "experiences", &experiences); err != nil {
		return nil, err
	}
	return experiences, nil
}

// SaveProjects replaces the project collection.
func (s *Store) SaveProjects(ctx context.Context, projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	return s.save(ctx, "projects", projects)
}

// SaveExperiences replaces the experience collection.
func (s *Store) SaveExperiences(ctx context.Context, experiences []domain.Experience) error {
	if experiences == nil {
		experiences = []domain.Experience{}
	}
	return s.save(ctx, "experiences", experiences)
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) load(ctx context.Context, collection string, dest any) error {
	key := s.Key(collection)
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("collection %q: %w", collection, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%w: get %s: %w", domain.ErrStoreUnavailable, key, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("unmarshalling %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, collection string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", collection, err)
	}

	key := s.Key(collection)
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", domain.ErrStoreUnavailable, key, err)
	}
	return nil
}
