package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/google/uuid"

	"github.com/captainsdeck/backend/internal/domain"
)

// CaptainRepo defines the persistence operations for captain accounts.
type CaptainRepo interface {
	// GetByEmail retrieves a captain by email (case-insensitive).
	// Returns domain.ErrNotFound if no such account exists.
	GetByEmail(ctx context.Context, email string) (domain.Captain, error)

	// Count returns the number of provisioned captain accounts. Zero means
	// captain login is not configured for this deployment.
	Count(ctx context.Context) (int64, error)

	// Create inserts a captain account with an already-hashed password.
	Create(ctx context.Context, email, passwordHash string) (domain.Captain, error)
}

// pgCaptainRepo is the Postgres implementation of CaptainRepo.
type pgCaptainRepo struct {
	db db
}

// NewCaptainRepo constructs a CaptainRepo backed by the provided db connection.
func NewCaptainRepo(db db) CaptainRepo {
	return &pgCaptainRepo{db: db}
}

func (r *pgCaptainRepo) GetByEmail(ctx context.Context, email string) (domain.Captain, error) {
	const q = `
		SELECT id, email, password_hash, created_at
		FROM captains
		WHERE lower(email) = lower(@email)`

	var (
		c  domain.Captain
		id pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": strings.TrimSpace(email)}).
		Scan(&id, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Captain{}, fmt.Errorf("repo.CaptainRepo.GetByEmail: %w", domain.ErrNotFound)
		}
		return domain.Captain{}, fmt.Errorf("repo.CaptainRepo.GetByEmail: %w", err)
	}
	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}

func (r *pgCaptainRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM captains`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.CaptainRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgCaptainRepo) Create(ctx context.Context, email, passwordHash string) (domain.Captain, error) {
	const q = `
		INSERT INTO captains (email, password_hash)
		VALUES (@email, @password_hash)
		RETURNING id, email, password_hash, created_at`

	var (
		c  domain.Captain
		id pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"email":         strings.ToLower(strings.TrimSpace(email)),
		"password_hash": passwordHash,
	}).Scan(&id, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return domain.Captain{}, fmt.Errorf("repo.CaptainRepo.Create: %w", err)
	}
	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
