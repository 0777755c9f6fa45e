package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EntityStore = (*Store)(nil)

// Collection names.
const (
	collectionProjects    = "projects"
	collectionExperiences = "experiences"
)

// Store is a SQLite-backed EntityStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.folio/data/portfolio.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".folio", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "portfolio.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// LoadProjects returns the stored projects.
func (s *Store) LoadProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := s.load(ctx, collectionProjects, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

// LoadExperiences returns the stored experiences.
func (s *Store) LoadExperiences(ctx context.Context) ([]domain.Experience, error) {
	var experiences []domain.Experience
	if err := s.load(ctx, collectionExperiences, &experiences); err != nil {
		return nil, err
	}
	if experiences == nil {
		experiences = []domain.Experience{}
	}
	return experiences, nil
}

// SaveProjects replaces the project collection.
func (s *Store) SaveProjects(ctx context.Context, projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	return s.save(ctx, collectionProjects, projects)
}

// SaveExperiences replaces the experience collection.
func (s *Store) SaveExperiences(ctx context.Context, experiences []domain.Experience) error {
	if experiences == nil {
		experiences = []domain.Experience{}
	}
	return s.save(ctx, collectionExperiences, experiences)
}

// UpdatedAt returns when a collection was last written.
func (s *Store) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT updated_at FROM collections WHERE name = ?", name).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query collection %q: %w", name, err)
	}
	return updatedAt, nil
}

func (s *Store) load(ctx context.Context, name string, dest any) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM collections WHERE name = ?", name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query collection %q: %w", name, err)
	}

	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("unmarshalling collection %q: %w", name, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, name string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshalling collection %q: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collections (name, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, name, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving collection %q: %w", name, err)
	}
	return nil
}

// migrate runs all pending up migrations, recording each applied version.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	steps, err := migrations.Up()
	if err != nil {
		return err
	}
	for _, m := range steps {
		if m.Version <= current {
			continue
		}
		if err := s.apply(m.Version, m.SQL); err != nil {
			return fmt.Errorf("executing migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
