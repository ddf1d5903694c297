package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/straye-as/pipeline-api/internal/domain"
	"github.com/straye-as/pipeline-api/internal/repository"
	"github.com/straye-as/pipeline-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection would otherwise open its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Client{}, &domain.ClientHistory{}, &domain.PipelineState{}))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func storeRoundTrip(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.True(t, errors.Is(err, repository.ErrNoState), "fresh store should report no state, got %v", err)

	want := repository.SeedClients()
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded state differs (-saved +loaded):\n%s", diff)
	}

	// a second save fully replaces the first
	want = want[1:3]
	want[0].History = append([]domain.HistoryEntry{{Date: "11/19/2025", Action: domain.HistoryActionUpdated, User: "Sales Team"}}, want[0].History...)
	require.NoError(t, store.Save(ctx, want))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded state differs after replace (-saved +loaded):\n%s", diff)
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	storeRoundTrip(t, repository.NewMemoryStore())
}

func TestBlobStore_RoundTrip(t *testing.T) {
	ls, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	storeRoundTrip(t, repository.NewBlobStore(ls, ""))
}

func TestGormStore_RoundTrip(t *testing.T) {
	storeRoundTrip(t, repository.NewGormStore(setupTestDB(t)))
}

func TestBlobStore_WritesJSONUnderStateKey(t *testing.T) {
	dir := t.TempDir()
	ls, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	store := repository.NewBlobStore(ls, "")
	require.NoError(t, store.Save(context.Background(), repository.SeedClients()[:1]))

	raw, err := os.ReadFile(filepath.Join(dir, repository.DefaultStateKey))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"Acme Corporation"`)
	assert.Contains(t, string(raw), `"history":[{"date":"11/15/2025"`)
}

func TestBlobStore_MalformedStateFallsBackToSeed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0o644))

	ls, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	store := repository.NewBlobStore(ls, "state.json")

	_, err = store.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrNoState))

	repo := newRepo(t, store)
	assert.Len(t, repo.List(context.Background()), 5)
}

func TestGormStore_RepositoryReload(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := newRepo(t, repository.NewGormStore(db))
	created, err := repo.Create(ctx, sampleFields("Epsilon GmbH"))
	require.NoError(t, err)
	_, err = repo.Update(ctx, created.ID, domain.ClientPatch{Stage: ptr(domain.StageQualified)})
	require.NoError(t, err)

	var rows int64
	require.NoError(t, db.Model(&domain.ClientHistory{}).Where("client_id = ?", created.ID).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)

	reloaded := newRepo(t, repository.NewGormStore(db))
	got, ok := reloaded.Get(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StageQualified, got.Stage)
	require.Len(t, got.History, 2)
	assert.Equal(t, domain.HistoryActionUpdated, got.History[0].Action)
	assert.Equal(t, domain.HistoryActionCreated, got.History[1].Action)
	assert.Equal(t, repo.List(ctx), reloaded.List(ctx))
}

func TestGormStore_EmptiedCollectionIsNotFreshState(t *testing.T) {
	store := repository.NewGormStore(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, repository.SeedClients()))
	require.NoError(t, store.Save(ctx, []domain.Client{}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGormStore_DeletedClientsStayDeletedAfterReload(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := newRepo(t, repository.NewGormStore(db))
	clients := repo.List(ctx)
	require.Len(t, clients, 5)
	for _, c := range clients {
		deleted, err := repo.Delete(ctx, c.ID)
		require.NoError(t, err)
		require.True(t, deleted)
	}
	require.Empty(t, repo.List(ctx))

	reloaded := newRepo(t, repository.NewGormStore(db))
	assert.Empty(t, reloaded.List(ctx))

	var state domain.PipelineState
	require.NoError(t, db.First(&state).Error)
	assert.Equal(t, 0, state.ClientCount)
}
