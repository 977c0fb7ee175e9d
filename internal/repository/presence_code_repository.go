package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/csmentors/scheduler-api/internal/models"
)

// PresenceCodeRepository stores the configured presence-code set.
type PresenceCodeRepository struct {
	db *sqlx.DB
}

// NewPresenceCodeRepository constructs the repository.
func NewPresenceCodeRepository(db *sqlx.DB) *PresenceCodeRepository {
	return &PresenceCodeRepository{db: db}
}

// List returns the full presence-code set.
func (r *PresenceCodeRepository) List(ctx context.Context) ([]models.PresenceCode, error) {
	const query = `SELECT code, label, color_token FROM presence_codes ORDER BY code`
	var codes []models.PresenceCode
	if err := r.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, fmt.Errorf("list presence codes: %w", err)
	}
	return codes, nil
}

// Seed inserts codes that are not present yet. Existing rows win so a
// deployment can re-run seeding safely.
func (r *PresenceCodeRepository) Seed(ctx context.Context, codes []models.PresenceCode) error {
	const query = `INSERT INTO presence_codes (code, label, color_token) VALUES ($1, $2, $3)
        ON CONFLICT (code) DO NOTHING`
	for _, code := range codes {
		if _, err := r.db.ExecContext(ctx, query, code.Code, code.Label, code.ColorToken); err != nil {
			return fmt.Errorf("seed presence code %q: %w", code.Code, err)
		}
	}
	return nil
}
