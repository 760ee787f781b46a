package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/monitoring"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(nil) })

	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigratesSchema(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.GreaterOrEqual(t, version, uint(1))
}

func TestSaveAndGetExercise(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ex := exercise.DefaultCatalog().ByName("Bicep Curl")
	require.NotNil(t, ex)

	id, err := db.SaveExercise(ctx, ex)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := db.GetExercise(ctx, "bicep curl") // case-insensitive
	require.NoError(t, err)
	assert.Equal(t, ex.Name, got.Name)
	assert.Equal(t, exercise.CategoryFlexion, got.Category)
	assert.Equal(t, exercise.LimbArm, got.Limb)
	assert.Equal(t, ex.RepThresholds, got.RepThresholds)
	assert.Equal(t, id, got.ID)
}

func TestGetExercise_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetExercise(context.Background(), "no such exercise")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveExercise_UpsertsByName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ex := exercise.DefaultCatalog().ByName("Squat")
	require.NotNil(t, ex)

	_, err := db.SaveExercise(ctx, ex)
	require.NoError(t, err)

	ex.RepThresholds.LiftingMin = 99
	_, err = db.SaveExercise(ctx, ex)
	require.NoError(t, err)

	got, err := db.GetExercise(ctx, "Squat")
	require.NoError(t, err)
	assert.Equal(t, 99.0, got.RepThresholds.LiftingMin)

	records, err := db.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cat := exercise.DefaultCatalog()

	require.NoError(t, db.SeedCatalog(ctx, cat))
	require.NoError(t, db.SeedCatalog(ctx, cat))

	records, err := db.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, records, len(cat.Exercises))
}

func TestDeleteExercise(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SeedCatalog(ctx, exercise.DefaultCatalog()))
	require.NoError(t, db.DeleteExercise(ctx, "Squat"))

	_, err := db.GetExercise(ctx, "Squat")
	assert.ErrorIs(t, err, ErrNotFound)

	err = db.DeleteExercise(ctx, "Squat")
	assert.ErrorIs(t, err, ErrNotFound)
}
