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

const yachtColumns = `id, trip_id, name, link, details_link, image_url,
	price, charter_pack, extras, marina, max_guests, recommended,
	created_at, updated_at`

// YachtRepo defines the persistence operations for vessel options.
type YachtRepo interface {
	// Create inserts a new yacht under its trip and returns the persisted record.
	Create(ctx context.Context, y domain.Yacht) (domain.Yacht, error)

	// GetByID retrieves one yacht scoped to a trip.
	// Returns domain.ErrNotFound if it does not exist within that trip.
	GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Yacht, error)

	// ListByTrip returns all yachts of a trip, newest-created first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Yacht, error)

	// Update overwrites the mutable fields of a yacht and returns the
	// updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, y domain.Yacht) (domain.Yacht, error)

	// Delete removes a yacht. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, tripID, id uuid.UUID) error
}

// pgYachtRepo is the Postgres implementation of YachtRepo.
type pgYachtRepo struct {
	db db
}

// NewYachtRepo constructs a YachtRepo backed by the provided db connection.
func NewYachtRepo(db db) YachtRepo {
	return &pgYachtRepo{db: db}
}

func (r *pgYachtRepo) Create(ctx context.Context, y domain.Yacht) (domain.Yacht, error) {
	q := `
		INSERT INTO yachts (trip_id, name, link, details_link, image_url,
		                    price, charter_pack, extras, marina, max_guests, recommended)
		VALUES (@trip_id, @name, @link, @details_link, @image_url,
		        @price, @charter_pack, @extras, @marina, @max_guests, @recommended)
		RETURNING ` + yachtColumns

	row := r.db.QueryRow(ctx, q, yachtArgs(y))
	result, err := scanYacht(row)
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("repo.YachtRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgYachtRepo) GetByID(ctx context.Context, tripID, id uuid.UUID) (domain.Yacht, error) {
	q := `SELECT ` + yachtColumns + ` FROM yachts WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	result, err := scanYacht(row)
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("repo.YachtRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByTrip orders newest-created first, matching how viewers see proposals.
func (r *pgYachtRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Yacht, error) {
	q := `SELECT ` + yachtColumns + `
		FROM yachts
		WHERE trip_id = @trip_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.YachtRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var yachts []domain.Yacht
	for rows.Next() {
		y, err := scanYacht(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.YachtRepo.ListByTrip: scan: %w", err)
		}
		yachts = append(yachts, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.YachtRepo.ListByTrip: rows: %w", err)
	}
	return yachts, nil
}

func (r *pgYachtRepo) Update(ctx context.Context, y domain.Yacht) (domain.Yacht, error) {
	q := `
		UPDATE yachts
		SET name         = @name,
		    link         = @link,
		    details_link = @details_link,
		    image_url    = @image_url,
		    price        = @price,
		    charter_pack = @charter_pack,
		    extras       = @extras,
		    marina       = @marina,
		    max_guests   = @max_guests,
		    recommended  = @recommended,
		    updated_at   = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + yachtColumns

	args := yachtArgs(y)
	args["id"] = y.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanYacht(row)
	if err != nil {
		return domain.Yacht{}, fmt.Errorf("repo.YachtRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgYachtRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	q := `DELETE FROM yachts WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.YachtRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.YachtRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func yachtArgs(y domain.Yacht) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":      y.TripID,
		"name":         y.Name,
		"link":         y.Link,
		"details_link": y.DetailsLink,
		"image_url":    y.ImageURL,
		"price":        y.Price,
		"charter_pack": y.CharterPack,
		"extras":       y.Extras,
		"marina":       y.Marina,
		"max_guests":   y.MaxGuests,
		"recommended":  y.Recommended,
	}
}

// scanYacht maps a single database row into a domain.Yacht.
func scanYacht(s scanner) (domain.Yacht, error) {
	var (
		y      domain.Yacht
		id     pgtype.UUID
		tripID pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &y.Name, &y.Link, &y.DetailsLink, &y.ImageURL,
		&y.Price, &y.CharterPack, &y.Extras, &y.Marina, &y.MaxGuests,
		&y.Recommended, &y.CreatedAt, &y.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Yacht{}, domain.ErrNotFound
		}
		return domain.Yacht{}, err
	}

	y.ID = uuid.UUID(id.Bytes)
	y.TripID = uuid.UUID(tripID.Bytes)
	return y, nil
}
