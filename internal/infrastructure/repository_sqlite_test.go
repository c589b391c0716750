package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fetchbar/internal/domain"
)

func setupTestRepo(t *testing.T) (*SQLiteTransferRepository, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "repo-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewSQLiteTransferRepository(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}
	return repo, cleanup
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	tr := domain.NewTransfer("https://example.com/a.txt", domain.StrategyStream)
	require.NoError(t, repo.Create(tr))

	found, err := repo.FindByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, found.ID)
	assert.Equal(t, domain.StrategyStream, found.Strategy)
	assert.Equal(t, domain.StatusProcessing, found.Status)
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	found, err := repo.FindByID("missing")
	assert.ErrorIs(t, err, ErrTransferNotFound)
	assert.Nil(t, found)
}

func TestRepository_UpdateStoresOutcome(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	tr := domain.NewTransfer("https://example.com/a.txt", domain.StrategyCallback)
	require.NoError(t, repo.Create(tr))

	tr.ApplyOutcome(&domain.Outcome{
		Kind:          domain.OutcomeCompleted,
		StatusCode:    200,
		BytesReceived: 5,
		BytesTotal:    5,
		Preview:       "hello\n...",
	})
	require.NoError(t, repo.Update(tr))

	found, err := repo.FindByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, found.Status)
	assert.Equal(t, domain.OutcomeCompleted, found.Outcome)
	assert.Equal(t, "hello\n...", found.Preview)
	assert.NotNil(t, found.CompletedAt)
}

func TestRepository_FindAllFilters(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	done := domain.NewTransfer("https://example.com/a", domain.StrategyStream)
	done.ApplyOutcome(&domain.Outcome{Kind: domain.OutcomeCompleted})
	failed := domain.NewTransfer("https://example.com/b", domain.StrategyCallback)
	failed.ApplyOutcome(&domain.Outcome{Kind: domain.OutcomeStatusError, StatusCode: 404})
	require.NoError(t, repo.Create(done))
	require.NoError(t, repo.Create(failed))

	all, err := repo.FindAll(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStatus, err := repo.FindAll(map[string]interface{}{"status": domain.StatusFailed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, failed.ID, byStatus[0].ID)

	byStrategy, err := repo.FindAll(map[string]interface{}{"strategy": domain.StrategyStream})
	require.NoError(t, err)
	require.Len(t, byStrategy, 1)
	assert.Equal(t, done.ID, byStrategy[0].ID)

	_, err = repo.FindAll(map[string]interface{}{"preview; DROP TABLE transfers": 1})
	assert.Error(t, err)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	tr := domain.NewTransfer("https://example.com/a", domain.StrategyStream)
	require.NoError(t, repo.Create(tr))

	require.NoError(t, repo.Delete(tr.ID))
	assert.ErrorIs(t, repo.Delete(tr.ID), ErrTransferNotFound)
}

func TestRepository_GetStats(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	outcomes := []domain.OutcomeKind{
		domain.OutcomeCompleted,
		domain.OutcomeCompleted,
		domain.OutcomeMissingLength,
		domain.OutcomeCancelled,
	}
	for _, kind := range outcomes {
		tr := domain.NewTransfer("https://example.com", domain.StrategyStream)
		tr.ApplyOutcome(&domain.Outcome{Kind: kind})
		require.NoError(t, repo.Create(tr))
	}
	require.NoError(t, repo.Create(domain.NewTransfer("https://example.com", domain.StrategyStream)))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Cancelled)
}

func TestRepository_InMemory(t *testing.T) {
	repo, err := NewSQLiteTransferRepository(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	tr := domain.NewTransfer("https://example.com", domain.StrategyCallback)
	require.NoError(t, repo.Create(tr))

	found, err := repo.FindByID(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, found.ID)
}
