package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// PriceRepo defines the persistence operations for Prices.
// Both option lists are stored as jsonb arrays.
type PriceRepo interface {
	Create(ctx context.Context, p domain.Price) (domain.Price, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Price, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Price, error)
	Update(ctx context.Context, p domain.Price) (domain.Price, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgPriceRepo struct {
	db db
}

// NewPriceRepo constructs a PriceRepo backed by the provided db connection.
func NewPriceRepo(db db) PriceRepo {
	return &pgPriceRepo{db: db}
}

func (r *pgPriceRepo) Create(ctx context.Context, p domain.Price) (domain.Price, error) {
	const q = `
		INSERT INTO prices (with_travel, without_travel)
		VALUES (@with_travel, @without_travel)
		RETURNING id, with_travel, without_travel`

	args := pgx.NamedArgs{
		"with_travel":    nonNil(p.WithTravel),
		"without_travel": nonNil(p.WithoutTravel),
	}

	result, err := scanPrice(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Price{}, fmt.Errorf("repo.PriceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPriceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Price, error) {
	const q = `SELECT id, with_travel, without_travel FROM prices WHERE id = @id`

	result, err := scanPrice(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Price{}, fmt.Errorf("repo.PriceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPriceRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Price, error) {
	const q = `SELECT id, with_travel, without_travel FROM prices WHERE id = ANY(@ids::uuid[])`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": uuidArray(ids)})
	if err != nil {
		return nil, fmt.Errorf("repo.PriceRepo.ListByIDs: %w", err)
	}
	prices, err := collect(rows, scanPrice)
	if err != nil {
		return nil, fmt.Errorf("repo.PriceRepo.ListByIDs: %w", err)
	}
	return prices, nil
}

func (r *pgPriceRepo) Update(ctx context.Context, p domain.Price) (domain.Price, error) {
	const q = `
		UPDATE prices
		SET with_travel    = @with_travel,
		    without_travel = @without_travel,
		    updated_at     = now()
		WHERE id = @id
		RETURNING id, with_travel, without_travel`

	args := pgx.NamedArgs{
		"id":             p.ID,
		"with_travel":    nonNil(p.WithTravel),
		"without_travel": nonNil(p.WithoutTravel),
	}

	result, err := scanPrice(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Price{}, fmt.Errorf("repo.PriceRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPriceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM prices WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.PriceRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PriceRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanPrice(s scanner) (domain.Price, error) {
	var (
		p  domain.Price
		id pgtype.UUID
	)
	if err := s.Scan(&id, &p.WithTravel, &p.WithoutTravel); err != nil {
		return domain.Price{}, notFound(err)
	}
	p.ID = uuid.UUID(id.Bytes)
	p.WithTravel = nonNil(p.WithTravel)
	p.WithoutTravel = nonNil(p.WithoutTravel)
	return p, nil
}
