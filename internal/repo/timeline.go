package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// TimelineRepo defines the persistence operations for Timelines.
type TimelineRepo interface {
	Create(ctx context.Context, t domain.Timeline) (domain.Timeline, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Timeline, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Timeline, error)
	Update(ctx context.Context, t domain.Timeline) (domain.Timeline, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTimelineRepo struct {
	db db
}

// NewTimelineRepo constructs a TimelineRepo backed by the provided db connection.
func NewTimelineRepo(db db) TimelineRepo {
	return &pgTimelineRepo{db: db}
}

func (r *pgTimelineRepo) Create(ctx context.Context, t domain.Timeline) (domain.Timeline, error) {
	const q = `
		INSERT INTO timelines (schedule)
		VALUES (@schedule)
		RETURNING id, schedule`

	result, err := scanTimeline(r.db.QueryRow(ctx, q, pgx.NamedArgs{"schedule": nonNil(t.Schedule)}))
	if err != nil {
		return domain.Timeline{}, fmt.Errorf("repo.TimelineRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTimelineRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Timeline, error) {
	const q = `SELECT id, schedule FROM timelines WHERE id = @id`

	result, err := scanTimeline(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Timeline{}, fmt.Errorf("repo.TimelineRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTimelineRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Timeline, error) {
	const q = `SELECT id, schedule FROM timelines WHERE id = ANY(@ids::uuid[])`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": uuidArray(ids)})
	if err != nil {
		return nil, fmt.Errorf("repo.TimelineRepo.ListByIDs: %w", err)
	}
	timelines, err := collect(rows, scanTimeline)
	if err != nil {
		return nil, fmt.Errorf("repo.TimelineRepo.ListByIDs: %w", err)
	}
	return timelines, nil
}

func (r *pgTimelineRepo) Update(ctx context.Context, t domain.Timeline) (domain.Timeline, error) {
	const q = `
		UPDATE timelines
		SET schedule   = @schedule,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, schedule`

	args := pgx.NamedArgs{"id": t.ID, "schedule": nonNil(t.Schedule)}
	result, err := scanTimeline(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Timeline{}, fmt.Errorf("repo.TimelineRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTimelineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM timelines WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TimelineRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TimelineRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanTimeline(s scanner) (domain.Timeline, error) {
	var (
		t  domain.Timeline
		id pgtype.UUID
	)
	if err := s.Scan(&id, &t.Schedule); err != nil {
		return domain.Timeline{}, notFound(err)
	}
	t.ID = uuid.UUID(id.Bytes)
	t.Schedule = nonNil(t.Schedule)
	return t, nil
}
