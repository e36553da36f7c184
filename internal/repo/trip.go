// Package repo contains all database access logic for the Captain's Deck API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/captainsdeck/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const tripColumns = `id, name, start_date, end_date, status, confirmed_guests,
	selected_yacht_id, captain_iban_eur, captain_iban_czk,
	deposit_amount, final_payment_amount, created_at, updated_at`

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id and timestamps populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips ordered by creation time descending.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of trips and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// UpdateSettings overwrites the captain-editable settings fields of a
	// trip and returns the updated record.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	UpdateSettings(ctx context.Context, id uuid.UUID, s domain.TripSettings) (domain.Trip, error)

	// ToggleSelectedYacht atomically toggles the trip's selected yacht:
	// selecting the already-selected yacht clears the selection, selecting a
	// different one replaces it. Implemented as a single UPDATE so concurrent
	// viewers never observe an intermediate state.
	ToggleSelectedYacht(ctx context.Context, id, yachtID uuid.UUID) (domain.Trip, error)

	// Confirm applies the whole confirmation write as one atomic UPDATE:
	// status, deposit, final payment, and the locked guest count together.
	Confirm(ctx context.Context, id uuid.UUID, guests int, deposit, final float64) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	q := `
		INSERT INTO trips (name, start_date, end_date)
		VALUES (@name, @start_date, @end_date)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"name":       trip.Name,
		"start_date": trip.StartDate, // nil becomes NULL
		"end_date":   trip.EndDate,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips, newest first.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

// ListPaged returns one page of trips, newest first, plus the total count.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	q := `SELECT ` + tripColumns + `
		FROM trips
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}
	return trips, total, nil
}

// UpdateSettings overwrites the captain-editable settings fields.
func (r *pgTripRepo) UpdateSettings(ctx context.Context, id uuid.UUID, s domain.TripSettings) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET confirmed_guests     = @confirmed_guests,
		    captain_iban_eur     = @captain_iban_eur,
		    captain_iban_czk     = @captain_iban_czk,
		    deposit_amount       = @deposit_amount,
		    final_payment_amount = @final_payment_amount,
		    updated_at           = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":                   id,
		"confirmed_guests":     s.ConfirmedGuests, // nil clears the lock
		"captain_iban_eur":     s.CaptainIbanEur,
		"captain_iban_czk":     s.CaptainIbanCzk,
		"deposit_amount":       s.DepositAmount,
		"final_payment_amount": s.FinalPaymentAmount,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.UpdateSettings: %w", err)
	}
	return result, nil
}

// ToggleSelectedYacht flips the selection in one statement: same id → NULL,
// different id → replace.
func (r *pgTripRepo) ToggleSelectedYacht(ctx context.Context, id, yachtID uuid.UUID) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET selected_yacht_id = CASE
		        WHEN selected_yacht_id = @yacht_id THEN NULL
		        ELSE @yacht_id
		    END,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "yacht_id": yachtID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.ToggleSelectedYacht: %w", err)
	}
	return result, nil
}

// Confirm applies the confirmation as a single UPDATE so concurrent guest
// viewers can never observe a half-applied state.
func (r *pgTripRepo) Confirm(ctx context.Context, id uuid.UUID, guests int, deposit, final float64) (domain.Trip, error) {
	q := `
		UPDATE trips
		SET status               = 'confirmed',
		    confirmed_guests     = @guests,
		    deposit_amount       = @deposit,
		    final_payment_amount = @final,
		    updated_at           = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{"id": id, "guests": guests, "deposit": deposit, "final": final}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Confirm: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable date/selection conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		guests    pgtype.Int4
		selected  pgtype.UUID
		status    string
	)

	err := s.Scan(&id, &t.Name, &startDate, &endDate, &status, &guests,
		&selected, &t.CaptainIbanEur, &t.CaptainIbanCzk,
		&t.DepositAmount, &t.FinalPaymentAmount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Status = domain.TripStatus(status)
	if startDate.Valid {
		sd := startDate.Time
		t.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}
	if guests.Valid {
		g := int(guests.Int32)
		t.ConfirmedGuests = &g
	}
	if selected.Valid {
		sel := uuid.UUID(selected.Bytes)
		t.SelectedYachtID = &sel
	}

	return t, nil
}

// collectTrips drains rows into a slice.
func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}
