package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jengzang/routescore-backend-go/internal/database"
	"github.com/jengzang/routescore-backend-go/internal/models"
)

// ProfileRepository handles database operations for tuning profiles
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, name, description, is_default, params_json, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*models.TuningProfile, error) {
	var p models.TuningProfile
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.IsDefault,
		&p.ParamsJSON,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates a profile, or replaces the parameters of an existing one with the same name.
// Making it the default clears the flag on every other profile.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.TuningProfile) error {
	now := time.Now().UTC()

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if profile.IsDefault {
			if _, err := tx.ExecContext(ctx, "UPDATE tuning_profiles SET is_default = 0 WHERE is_default = 1"); err != nil {
				return fmt.Errorf("failed to clear default profile: %w", err)
			}
		}

		query := `
			INSERT INTO tuning_profiles (name, description, is_default, params_json, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				description = excluded.description,
				is_default = excluded.is_default,
				params_json = excluded.params_json,
				updated_at = excluded.updated_at
		`
		_, err := tx.ExecContext(ctx, query,
			profile.Name,
			profile.Description,
			profile.IsDefault,
			profile.ParamsJSON,
			profile.CreatedBy,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to save tuning profile: %w", err)
		}

		stored, err := scanProfile(tx.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM tuning_profiles WHERE name = ?", profile.Name))
		if err != nil {
			return fmt.Errorf("failed to reload tuning profile: %w", err)
		}
		*profile = *stored
		return nil
	})
}

// GetByName retrieves a profile; nil when it does not exist
func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*models.TuningProfile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM tuning_profiles WHERE name = ?", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tuning profile: %w", err)
	}
	return p, nil
}

// GetDefault retrieves the profile flagged as default; nil when none is
func (r *ProfileRepository) GetDefault(ctx context.Context) (*models.TuningProfile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM tuning_profiles WHERE is_default = 1 LIMIT 1"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default tuning profile: %w", err)
	}
	return p, nil
}

// List retrieves all profiles ordered by name
func (r *ProfileRepository) List(ctx context.Context) ([]models.TuningProfile, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+profileColumns+" FROM tuning_profiles ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query tuning profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.TuningProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tuning profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tuning profiles: %w", err)
	}

	return profiles, nil
}
