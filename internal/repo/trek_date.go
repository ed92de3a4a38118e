package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// TrekDateRepo defines the persistence operations for TrekDates.
type TrekDateRepo interface {
	// Create inserts a new date and returns the persisted record.
	Create(ctx context.Context, d domain.TrekDate) (domain.TrekDate, error)

	// GetByID retrieves a date. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.TrekDate, error)

	// GetForUpdate is GetByID with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.TrekDate, error)

	// ListByIDs returns the dates whose ids are in ids, in no particular order.
	// Unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.TrekDate, error)

	// Update overwrites the window and references of a date.
	Update(ctx context.Context, d domain.TrekDate) (domain.TrekDate, error)

	// Delete removes a date. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTrekDateRepo struct {
	db db
}

// NewTrekDateRepo constructs a TrekDateRepo backed by the provided db connection.
func NewTrekDateRepo(db db) TrekDateRepo {
	return &pgTrekDateRepo{db: db}
}

const trekDateColumns = `id, start_date, end_date, price_id, timeline_ids, created_at, updated_at`

func (r *pgTrekDateRepo) Create(ctx context.Context, d domain.TrekDate) (domain.TrekDate, error) {
	q := `
		INSERT INTO trek_dates (start_date, end_date, price_id, timeline_ids)
		VALUES (@start_date, @end_date, @price_id, @timeline_ids)
		RETURNING ` + trekDateColumns

	args := pgx.NamedArgs{
		"start_date":   d.StartDate,
		"end_date":     d.EndDate,
		"price_id":     d.PriceID,
		"timeline_ids": uuidArray(d.TimelineIDs),
	}

	result, err := scanTrekDate(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TrekDate{}, fmt.Errorf("repo.TrekDateRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTrekDateRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TrekDate, error) {
	q := `SELECT ` + trekDateColumns + ` FROM trek_dates WHERE id = @id`

	result, err := scanTrekDate(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TrekDate{}, fmt.Errorf("repo.TrekDateRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTrekDateRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.TrekDate, error) {
	q := `SELECT ` + trekDateColumns + ` FROM trek_dates WHERE id = @id FOR UPDATE`

	result, err := scanTrekDate(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TrekDate{}, fmt.Errorf("repo.TrekDateRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

func (r *pgTrekDateRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.TrekDate, error) {
	q := `SELECT ` + trekDateColumns + ` FROM trek_dates WHERE id = ANY(@ids::uuid[])`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": uuidArray(ids)})
	if err != nil {
		return nil, fmt.Errorf("repo.TrekDateRepo.ListByIDs: %w", err)
	}
	dates, err := collect(rows, scanTrekDate)
	if err != nil {
		return nil, fmt.Errorf("repo.TrekDateRepo.ListByIDs: %w", err)
	}
	return dates, nil
}

func (r *pgTrekDateRepo) Update(ctx context.Context, d domain.TrekDate) (domain.TrekDate, error) {
	q := `
		UPDATE trek_dates
		SET start_date   = @start_date,
		    end_date     = @end_date,
		    price_id     = @price_id,
		    timeline_ids = @timeline_ids,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + trekDateColumns

	args := pgx.NamedArgs{
		"id":           d.ID,
		"start_date":   d.StartDate,
		"end_date":     d.EndDate,
		"price_id":     d.PriceID,
		"timeline_ids": uuidArray(d.TimelineIDs),
	}

	result, err := scanTrekDate(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TrekDate{}, fmt.Errorf("repo.TrekDateRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTrekDateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trek_dates WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TrekDateRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrekDateRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanTrekDate(s scanner) (domain.TrekDate, error) {
	var (
		d           domain.TrekDate
		id, priceID pgtype.UUID
		timelineIDs []pgtype.UUID
	)
	err := s.Scan(&id, &d.StartDate, &d.EndDate, &priceID, &timelineIDs, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return domain.TrekDate{}, notFound(err)
	}
	d.ID = uuid.UUID(id.Bytes)
	if priceID.Valid {
		d.PriceID = uuid.UUID(priceID.Bytes)
	}
	d.TimelineIDs = fromUUIDArray(timelineIDs)
	return d, nil
}
