package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/energycalc/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func record(id string, at time.Time) *models.EstimateRecord {
	return &models.EstimateRecord{
		ID:         id,
		CreatedAt:  at,
		Name:       "Priya",
		City:       "Mumbai",
		Area:       "Bandra West",
		Dwelling:   "Flat",
		Housing:    "2BHK",
		Appliances: []string{"ac", "fridge"},
		Policy:     "differentiated",
		BaseKWh:    3.6,
		DailyKWh:   8.1,
		MonthlyKWh: 243,
	}
}

func TestInsertAndGet(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, db.InsertEstimate(record("a", at)))

	got, err := db.GetEstimate("a")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "a", got.ID)
	assert.True(t, got.CreatedAt.Equal(at))
	assert.Equal(t, []string{"ac", "fridge"}, got.Appliances)
	assert.Equal(t, 8.1, got.DailyKWh)
	assert.False(t, got.Published)
}

func TestGetMissing(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetEstimate("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInsertIgnoresDuplicates(t *testing.T) {
	db := openTestDB(t)
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, db.InsertEstimate(record("a", at)))
	dup := record("a", at)
	dup.DailyKWh = 99
	require.NoError(t, db.InsertEstimate(dup))

	all, err := db.ListEstimates(0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 8.1, all[0].DailyKWh)
}

func TestListOrderingAndLimit(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, db.InsertEstimate(record("first", base)))
	require.NoError(t, db.InsertEstimate(record("second", base.Add(500*time.Millisecond))))
	require.NoError(t, db.InsertEstimate(record("third", base.Add(time.Second))))

	all, err := db.ListEstimates(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := db.ListEstimates(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestPublishedFlag(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, db.InsertEstimate(record("a", base)))
	require.NoError(t, db.InsertEstimate(record("b", base.Add(time.Minute))))
	require.NoError(t, db.MarkPublished("a"))

	pending, err := db.ListUnpublishedEstimates()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].ID)

	a, err := db.GetEstimate("a")
	require.NoError(t, err)
	assert.True(t, a.Published)
}

func TestEmptyAppliances(t *testing.T) {
	db := openTestDB(t)
	rec := record("none", time.Now())
	rec.Appliances = nil
	require.NoError(t, db.InsertEstimate(rec))

	got, err := db.GetEstimate("none")
	require.NoError(t, err)
	assert.Empty(t, got.Appliances)
}
