package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// TrekTypeRepo defines the persistence operations for TrekTypes.
// Type names are unique case-insensitively; a duplicate yields domain.ErrConflict.
type TrekTypeRepo interface {
	Create(ctx context.Context, t domain.TrekType) (domain.TrekType, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TrekType, error)

	// List returns all types ordered by name.
	List(ctx context.Context) ([]domain.TrekType, error)

	// ListByIDs returns the types whose ids are in ids. Unknown ids are skipped.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.TrekType, error)

	Update(ctx context.Context, t domain.TrekType) (domain.TrekType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTrekTypeRepo struct {
	db db
}

// NewTrekTypeRepo constructs a TrekTypeRepo backed by the provided db connection.
func NewTrekTypeRepo(db db) TrekTypeRepo {
	return &pgTrekTypeRepo{db: db}
}

const trekTypeColumns = `id, name, description, image, created_at, updated_at`

func (r *pgTrekTypeRepo) Create(ctx context.Context, t domain.TrekType) (domain.TrekType, error) {
	q := `
		INSERT INTO trek_types (name, description, image)
		VALUES (@name, @description, @image)
		RETURNING ` + trekTypeColumns

	args := pgx.NamedArgs{"name": t.Name, "description": t.Description, "image": t.Image}
	result, err := scanTrekType(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("repo.TrekTypeRepo.Create: %w", conflict(err))
	}
	return result, nil
}

func (r *pgTrekTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.TrekType, error) {
	q := `SELECT ` + trekTypeColumns + ` FROM trek_types WHERE id = @id`

	result, err := scanTrekType(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("repo.TrekTypeRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTrekTypeRepo) List(ctx context.Context) ([]domain.TrekType, error) {
	q := `SELECT ` + trekTypeColumns + ` FROM trek_types ORDER BY lower(name), id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TrekTypeRepo.List: %w", err)
	}
	types, err := collect(rows, scanTrekType)
	if err != nil {
		return nil, fmt.Errorf("repo.TrekTypeRepo.List: %w", err)
	}
	return types, nil
}

func (r *pgTrekTypeRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.TrekType, error) {
	q := `SELECT ` + trekTypeColumns + ` FROM trek_types WHERE id = ANY(@ids::uuid[])`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": uuidArray(ids)})
	if err != nil {
		return nil, fmt.Errorf("repo.TrekTypeRepo.ListByIDs: %w", err)
	}
	types, err := collect(rows, scanTrekType)
	if err != nil {
		return nil, fmt.Errorf("repo.TrekTypeRepo.ListByIDs: %w", err)
	}
	return types, nil
}

func (r *pgTrekTypeRepo) Update(ctx context.Context, t domain.TrekType) (domain.TrekType, error) {
	q := `
		UPDATE trek_types
		SET name        = @name,
		    description = @description,
		    image       = @image,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + trekTypeColumns

	args := pgx.NamedArgs{"id": t.ID, "name": t.Name, "description": t.Description, "image": t.Image}
	result, err := scanTrekType(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("repo.TrekTypeRepo.Update: %w", conflict(err))
	}
	return result, nil
}

// Delete removes a type. Treks referencing it keep the dangling id.
func (r *pgTrekTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trek_types WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TrekTypeRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrekTypeRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanTrekType(s scanner) (domain.TrekType, error) {
	var (
		t  domain.TrekType
		id pgtype.UUID
	)
	if err := s.Scan(&id, &t.Name, &t.Description, &t.Image, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.TrekType{}, notFound(err)
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
