package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/core/domain"
)

// failingStore fails every call with err.
type failingStore struct {
	err    error
	closed bool
}

func (f *failingStore) LoadProjects(_ context.Context) ([]domain.Project, error) { return nil, f.err }
func (f *failingStore) LoadExperiences(_ context.Context) ([]domain.Experience, error) {
	return nil, f.err
}
func (f *failingStore) SaveProjects(_ context.Context, _ []domain.Project) error       { return f.err }
func (f *failingStore) SaveExperiences(_ context.Context, _ []domain.Experience) error { return f.err }
func (f *failingStore) Close() error {
	f.closed = true
	return nil
}

func fixtures() *memory.EntityStore {
	return memory.NewSeededEntityStore(domain.Corpus{
		Projects:    []domain.Project{{Slug: "fixture-project"}},
		Experiences: []domain.Experience{{Slug: "fixture-experience"}},
	})
}

func TestStore_PrimaryWins(t *testing.T) {
	primary := memory.NewSeededEntityStore(domain.Corpus{Projects: []domain.Project{{Slug: "stored"}}})
	store := NewStore(primary, fixtures())

	projects, err := store.LoadProjects(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "stored", projects[0].Slug)
}

func TestStore_NotFoundFallsBack(t *testing.T) {
	store := NewStore(memory.NewEntityStore(), fixtures())
	ctx := context.Background()

	projects, err := store.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fixture-project", projects[0].Slug)

	experiences, err := store.LoadExperiences(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fixture-experience", experiences[0].Slug)
}

func TestStore_FailureFallsBack(t *testing.T) {
	store := NewStore(&failingStore{err: domain.ErrStoreUnavailable}, fixtures())

	experiences, err := store.LoadExperiences(context.Background())

	require.NoError(t, err)
	assert.Len(t, experiences, 1)
}

func TestStore_CancellationNotMasked(t *testing.T) {
	store := NewStore(&failingStore{err: context.Canceled}, fixtures())

	_, err := store.LoadProjects(context.Background())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_NoSecondary(t *testing.T) {
	store := NewStore(memory.NewEntityStore(), nil)

	_, err := store.LoadProjects(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_WritesGoToPrimary(t *testing.T) {
	primary := memory.NewEntityStore()
	secondary := fixtures()
	store := NewStore(primary, secondary)
	ctx := context.Background()

	require.NoError(t, store.SaveProjects(ctx, []domain.Project{{Slug: "new"}}))

	stored, err := primary.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", stored[0].Slug)

	untouched, _ := secondary.LoadProjects(ctx)
	assert.Equal(t, "fixture-project", untouched[0].Slug)
}

func TestStore_SaveErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	store := NewStore(&failingStore{err: boom}, fixtures())

	assert.ErrorIs(t, store.SaveExperiences(context.Background(), nil), boom)
}

func TestStore_CloseBoth(t *testing.T) {
	primary := &failingStore{}
	secondary := &failingStore{}

	require.NoError(t, NewStore(primary, secondary).Close())

	assert.True(t, primary.closed)
	assert.True(t, secondary.closed)
}

func TestStore_WatchWithoutWatchableSecondary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, NewStore(memory.NewEntityStore(), fixtures()).Watch(ctx, nil))
}
