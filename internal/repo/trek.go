package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// TrekFilter narrows List. Zero values mean "no filter".
type TrekFilter struct {
	IDs        []uuid.UUID
	Difficulty domain.Difficulty
	TrekTypeID *uuid.UUID
}

// TrekRepo defines the persistence operations for Treks.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with an in-memory fake.
type TrekRepo interface {
	// Create inserts a new trek and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, trek domain.Trek) (domain.Trek, error)

	// GetByID retrieves a single trek. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trek, error)

	// GetForUpdate is GetByID with a row lock held until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trek, error)

	// List returns treks matching f ordered by creation time.
	List(ctx context.Context, f TrekFilter) ([]domain.Trek, error)

	// FindByDateID returns the trek whose date list contains dateID.
	// Returns domain.ErrNotFound if no trek owns the date.
	FindByDateID(ctx context.Context, dateID uuid.UUID) (domain.Trek, error)

	// Update overwrites the descriptive fields of a trek. The date list is
	// only changed through AppendDate and RemoveDate.
	Update(ctx context.Context, trek domain.Trek) (domain.Trek, error)

	// AppendDate adds dateID to the end of the trek's date list.
	AppendDate(ctx context.Context, trekID, dateID uuid.UUID) error

	// RemoveDate removes every occurrence of dateID from the trek's date list.
	RemoveDate(ctx context.Context, trekID, dateID uuid.UUID) error

	// Delete removes a trek by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTrekRepo is the Postgres implementation of TrekRepo.
type pgTrekRepo struct {
	db db
}

// NewTrekRepo constructs a TrekRepo backed by the provided db connection.
// In production pass *pgxpool.Pool or a pgx.Tx from a UnitOfWork.
func NewTrekRepo(db db) TrekRepo {
	return &pgTrekRepo{db: db}
}

const trekColumns = `id, name, title, suitable_for_age, altitude, location, description,
	sub_description, info, highlights, inclusions, exclusions, cancellation_policy,
	difficulty, images, date_ids, trek_type_id, created_at, updated_at`

func trekArgs(t domain.Trek) pgx.NamedArgs {
	var difficulty *string
	if t.Difficulty != "" {
		d := string(t.Difficulty)
		difficulty = &d
	}
	return pgx.NamedArgs{
		"id":                  t.ID,
		"name":                t.Name,
		"title":               t.Title,
		"suitable_for_age":    t.SuitableForAge,
		"altitude":            t.Altitude,
		"location":            t.Location,
		"description":         t.Description,
		"sub_description":     nonNil(t.SubDescription),
		"info":                nonNil(t.Info),
		"highlights":          nonNil(t.Highlights),
		"inclusions":          nonNil(t.Inclusions),
		"exclusions":          nonNil(t.Exclusions),
		"cancellation_policy": nonNil(t.CancellationPolicy),
		"difficulty":          difficulty,
		"images":              nonNil(t.Images),
		"date_ids":            uuidArray(t.DateIDs),
		"trek_type_id":        nullableUUID(t.TrekTypeID),
	}
}

// Create inserts a new trek row and returns the full persisted record.
func (r *pgTrekRepo) Create(ctx context.Context, trek domain.Trek) (domain.Trek, error) {
	q := `
		INSERT INTO treks (name, title, suitable_for_age, altitude, location, description,
			sub_description, info, highlights, inclusions, exclusions, cancellation_policy,
			difficulty, images, date_ids, trek_type_id)
		VALUES (@name, @title, @suitable_for_age, @altitude, @location, @description,
			@sub_description, @info, @highlights, @inclusions, @exclusions, @cancellation_policy,
			@difficulty, @images, @date_ids, @trek_type_id)
		RETURNING ` + trekColumns

	result, err := scanTrek(r.db.QueryRow(ctx, q, trekArgs(trek)))
	if err != nil {
		return domain.Trek{}, fmt.Errorf("repo.TrekRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trek by primary key.
func (r *pgTrekRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trek, error) {
	q := `SELECT ` + trekColumns + ` FROM treks WHERE id = @id`

	result, err := scanTrek(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trek{}, fmt.Errorf("repo.TrekRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTrekRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trek, error) {
	q := `SELECT ` + trekColumns + ` FROM treks WHERE id = @id FOR UPDATE`

	result, err := scanTrek(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trek{}, fmt.Errorf("repo.TrekRepo.GetForUpdate: %w", err)
	}
	return result, nil
}

// List returns treks oldest first. Each filter is skipped when its parameter is NULL.
func (r *pgTrekRepo) List(ctx context.Context, f TrekFilter) ([]domain.Trek, error) {
	q := `
		SELECT ` + trekColumns + `
		FROM treks
		WHERE (@ids::uuid[] IS NULL OR id = ANY(@ids::uuid[]))
		  AND (@difficulty::text IS NULL OR difficulty = @difficulty::text)
		  AND (@trek_type_id::uuid IS NULL OR trek_type_id = @trek_type_id::uuid)
		ORDER BY created_at, id`

	var ids []pgtype.UUID
	if f.IDs != nil {
		ids = uuidArray(f.IDs)
	}
	var difficulty *string
	if f.Difficulty != "" {
		d := string(f.Difficulty)
		difficulty = &d
	}
	args := pgx.NamedArgs{
		"ids":          ids,
		"difficulty":   difficulty,
		"trek_type_id": nullableUUID(f.TrekTypeID),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TrekRepo.List: %w", err)
	}
	treks, err := collect(rows, scanTrek)
	if err != nil {
		return nil, fmt.Errorf("repo.TrekRepo.List: %w", err)
	}
	return treks, nil
}

func (r *pgTrekRepo) FindByDateID(ctx context.Context, dateID uuid.UUID) (domain.Trek, error) {
	q := `
		SELECT ` + trekColumns + `
		FROM treks
		WHERE @date_id::uuid = ANY(date_ids)
		ORDER BY created_at, id
		LIMIT 1
		FOR UPDATE`

	result, err := scanTrek(r.db.QueryRow(ctx, q, pgx.NamedArgs{"date_id": dateID}))
	if err != nil {
		return domain.Trek{}, fmt.Errorf("repo.TrekRepo.FindByDateID: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable descriptive fields of a trek.
func (r *pgTrekRepo) Update(ctx context.Context, trek domain.Trek) (domain.Trek, error) {
	q := `
		UPDATE treks
		SET name                = @name,
		    title               = @title,
		    suitable_for_age    = @suitable_for_age,
		    altitude            = @altitude,
		    location            = @location,
		    description         = @description,
		    sub_description     = @sub_description,
		    info                = @info,
		    highlights          = @highlights,
		    inclusions          = @inclusions,
		    exclusions          = @exclusions,
		    cancellation_policy = @cancellation_policy,
		    difficulty          = @difficulty,
		    images              = @images,
		    trek_type_id        = @trek_type_id,
		    updated_at          = now()
		WHERE id = @id
		RETURNING ` + trekColumns

	result, err := scanTrek(r.db.QueryRow(ctx, q, trekArgs(trek)))
	if err != nil {
		return domain.Trek{}, fmt.Errorf("repo.TrekRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTrekRepo) AppendDate(ctx context.Context, trekID, dateID uuid.UUID) error {
	const q = `
		UPDATE treks
		SET date_ids   = array_append(date_ids, @date_id::uuid),
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": trekID, "date_id": dateID})
	if err != nil {
		return fmt.Errorf("repo.TrekRepo.AppendDate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrekRepo.AppendDate: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTrekRepo) RemoveDate(ctx context.Context, trekID, dateID uuid.UUID) error {
	const q = `
		UPDATE treks
		SET date_ids   = array_remove(date_ids, @date_id::uuid),
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": trekID, "date_id": dateID})
	if err != nil {
		return fmt.Errorf("repo.TrekRepo.RemoveDate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrekRepo.RemoveDate: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a trek by primary key.
func (r *pgTrekRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM treks WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TrekRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrekRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrek maps a single database row into a domain.Trek.
// It handles the UUID, nullable difficulty and nullable type conversions.
func scanTrek(s scanner) (domain.Trek, error) {
	var (
		t          domain.Trek
		id         pgtype.UUID
		difficulty *string
		dateIDs    []pgtype.UUID
		typeID     pgtype.UUID
	)

	err := s.Scan(&id, &t.Name, &t.Title, &t.SuitableForAge, &t.Altitude, &t.Location,
		&t.Description, &t.SubDescription, &t.Info, &t.Highlights, &t.Inclusions,
		&t.Exclusions, &t.CancellationPolicy, &difficulty, &t.Images, &dateIDs, &typeID,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trek{}, notFound(err)
	}

	t.ID = uuid.UUID(id.Bytes)
	if difficulty != nil {
		t.Difficulty = domain.Difficulty(*difficulty)
	}
	t.DateIDs = fromUUIDArray(dateIDs)
	if typeID.Valid {
		tid := uuid.UUID(typeID.Bytes)
		t.TrekTypeID = &tid
	}
	return t, nil
}
