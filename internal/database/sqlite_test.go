package database

import (
	"StockSniper/internal/models"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DBRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func TestRecordAndGetAttempts(t *testing.T) {
	repo := openTestDB(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordAttempt(models.PurchaseAttempt{
		ProductURL: "https://shop.test/products/a", ProductName: "A", VariantID: "111",
		Price: 25, Outcome: models.OutcomeFailed, Reason: "checkout unreachable", AttemptedAt: base,
	}))
	require.NoError(t, repo.RecordAttempt(models.PurchaseAttempt{
		ProductURL: "https://shop.test/products/b", ProductName: "B", VariantID: "222",
		Price: 40, Outcome: models.OutcomePurchased, AttemptedAt: base.Add(time.Minute),
	}))

	count, err := repo.CountAttempts()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	attempts, err := repo.GetAttempts(0, 0)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	newest := attempts[0]
	assert.Equal(t, "B", newest.ProductName)
	assert.Equal(t, "222", newest.VariantID)
	assert.Equal(t, models.OutcomePurchased, newest.Outcome)
	assert.Empty(t, newest.Reason)
	assert.True(t, newest.AttemptedAt.Equal(base.Add(time.Minute)))

	assert.Equal(t, "checkout unreachable", attempts[1].Reason)
	assert.InDelta(t, 25.0, attempts[1].Price, 0.001)
}

func TestGetAttemptsPagination(t *testing.T) {
	repo := openTestDB(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.RecordAttempt(models.PurchaseAttempt{
			ProductURL:  "https://shop.test/products/x",
			Outcome:     models.OutcomeFailed,
			AttemptedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	page, err := repo.GetAttempts(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].ID)
	assert.Equal(t, int64(2), page[1].ID)

	page, err = repo.GetAttempts(2, 4)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestRecordAttemptDefaultsTimestamp(t *testing.T) {
	repo := openTestDB(t)
	before := time.Now().Add(-time.Second)

	require.NoError(t, repo.RecordAttempt(models.PurchaseAttempt{ProductURL: "u", Outcome: models.OutcomeFailed}))

	attempts, err := repo.GetAttempts(1, 0)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].AttemptedAt.After(before))
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.RecordAttempt(models.PurchaseAttempt{ProductURL: "u", Outcome: models.OutcomePurchased}))
	repo.Close()

	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()
	count, err := repo.CountAttempts()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
