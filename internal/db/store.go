package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/formsense/formsense/internal/exercise"
	"github.com/formsense/formsense/internal/monitoring"
)

// ErrNotFound is returned when a catalog lookup matches no exercise.
var ErrNotFound = errors.New("exercise not found")

// ExerciseRecord is a catalog row without the full config payload, for
// listings.
type ExerciseRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Limb     string `json:"limb"`
}

// SaveExercise inserts or replaces an exercise config, keyed by name.
// The config must already be finalized. Returns the stored ID.
func (db *DB) SaveExercise(ctx context.Context, ex *exercise.Config) (string, error) {
	payload, err := json.Marshal(ex)
	if err != nil {
		return "", fmt.Errorf("failed to encode exercise %q: %w", ex.Name, err)
	}

	id := ex.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO exercises (id, name, category, limb, config_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			limb = excluded.limb,
			config_json = excluded.config_json,
			updated_at = CURRENT_TIMESTAMP`,
		id, ex.Name, string(ex.Category), string(ex.Limb), string(payload))
	if err != nil {
		return "", fmt.Errorf("failed to save exercise %q: %w", ex.Name, err)
	}
	return id, nil
}

// GetExercise loads a finalized exercise config by name
// (case-insensitive).
func (db *DB) GetExercise(ctx context.Context, name string) (*exercise.Config, error) {
	var id, payload string
	err := db.QueryRowContext(ctx,
		`SELECT id, config_json FROM exercises WHERE name = ? COLLATE NOCASE`, name).
		Scan(&id, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise %q: %w", name, err)
	}

	cfg, err := exercise.ParseConfig([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("stored exercise %q is corrupt: %w", name, err)
	}
	cfg.ID = id
	return cfg, nil
}

// ListExercises returns catalog rows ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]ExerciseRecord, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, category, limb FROM exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var out []ExerciseRecord
	for rows.Next() {
		var rec ExerciseRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.Limb); err != nil {
			return nil, fmt.Errorf("failed to scan exercise row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteExercise removes an exercise by name.
func (db *DB) DeleteExercise(ctx context.Context, name string) error {
	res, err := db.ExecContext(ctx,
		`DELETE FROM exercises WHERE name = ? COLLATE NOCASE`, name)
	if err != nil {
		return fmt.Errorf("failed to delete exercise %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

// SeedCatalog stores every exercise from the catalog that is not already
// present. Existing rows are left alone so local edits survive restarts.
func (db *DB) SeedCatalog(ctx context.Context, cat *exercise.Catalog) error {
	for _, ex := range cat.Exercises {
		var exists int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM exercises WHERE name = ? COLLATE NOCASE`, ex.Name).
			Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check for exercise %q: %w", ex.Name, err)
		}
		if exists > 0 {
			continue
		}
		if _, err := db.SaveExercise(ctx, ex); err != nil {
			return err
		}
		monitoring.Logf("seeded exercise %q (%s, %s)", ex.Name, ex.Category, ex.Limb)
	}
	return nil
}
