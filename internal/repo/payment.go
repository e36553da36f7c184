package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/captainsdeck/backend/internal/domain"
)

// PaymentRepo defines the persistence operations for payment records.
type PaymentRepo interface {
	// Create inserts a payment with a server-assigned timestamp and returns
	// the persisted record.
	Create(ctx context.Context, p domain.Payment) (domain.Payment, error)

	// ListByTrip returns all payments of a trip, newest-dated first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error)

	// Delete removes a payment. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// pgPaymentRepo is the Postgres implementation of PaymentRepo.
type pgPaymentRepo struct {
	db db
}

// NewPaymentRepo constructs a PaymentRepo backed by the provided db connection.
func NewPaymentRepo(db db) PaymentRepo {
	return &pgPaymentRepo{db: db}
}

func (r *pgPaymentRepo) Create(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	const q = `
		INSERT INTO payments (trip_id, guest_name, amount, currency, type)
		VALUES (@trip_id, @guest_name, @amount, @currency, @type)
		RETURNING id, trip_id, guest_name, amount, currency, type, paid_at`

	args := pgx.NamedArgs{
		"trip_id":    p.TripID,
		"guest_name": p.GuestName,
		"amount":     p.Amount,
		"currency":   string(p.Currency),
		"type":       string(p.Type),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPayment(row)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("repo.PaymentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPaymentRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Payment, error) {
	const q = `
		SELECT id, trip_id, guest_name, amount, currency, type, paid_at
		FROM payments
		WHERE trip_id = @trip_id
		ORDER BY paid_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PaymentRepo.ListByTrip: scan: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PaymentRepo.ListByTrip: rows: %w", err)
	}
	return payments, nil
}

func (r *pgPaymentRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	const q = `DELETE FROM payments WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.PaymentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PaymentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanPayment maps a single database row into a domain.Payment.
func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p        domain.Payment
		id       pgtype.UUID
		tripID   pgtype.UUID
		currency string
		ptype    string
	)

	err := s.Scan(&id, &tripID, &p.GuestName, &p.Amount, &currency, &ptype, &p.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.Currency = domain.Currency(currency)
	p.Type = domain.PaymentType(ptype)
	return p, nil
}
