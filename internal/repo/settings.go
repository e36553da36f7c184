package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/captainsdeck/backend/internal/domain"
)

// SettingsRepo reads and writes the single global settings row.
// The exchange rate is shared across all trips; concurrent writes are
// last-write-wins, which is the accepted trade-off for this record.
type SettingsRepo interface {
	// Get returns the global settings. A missing row (fresh database before
	// migrations seed it) yields the defaults rather than an error.
	Get(ctx context.Context) (domain.Settings, error)

	// SetRate overwrites the EUR→CZK rate and returns the updated settings.
	SetRate(ctx context.Context, rate float64) (domain.Settings, error)
}

// pgSettingsRepo is the Postgres implementation of SettingsRepo.
type pgSettingsRepo struct {
	db db
}

// NewSettingsRepo constructs a SettingsRepo backed by the provided db connection.
func NewSettingsRepo(db db) SettingsRepo {
	return &pgSettingsRepo{db: db}
}

func (r *pgSettingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	const q = `SELECT eur_czk_rate, updated_at FROM settings WHERE id = 1`

	var s domain.Settings
	err := r.db.QueryRow(ctx, q).Scan(&s.EurCzkRate, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Settings{EurCzkRate: domain.DefaultExchangeRate}, nil
		}
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.Get: %w", err)
	}
	return s, nil
}

func (r *pgSettingsRepo) SetRate(ctx context.Context, rate float64) (domain.Settings, error) {
	const q = `
		INSERT INTO settings (id, eur_czk_rate, updated_at)
		VALUES (1, @rate, now())
		ON CONFLICT (id) DO UPDATE
		SET eur_czk_rate = excluded.eur_czk_rate,
		    updated_at   = now()
		RETURNING eur_czk_rate, updated_at`

	var s domain.Settings
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"rate": rate}).Scan(&s.EurCzkRate, &s.UpdatedAt)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("repo.SettingsRepo.SetRate: %w", err)
	}
	return s, nil
}
