package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// TestimonialRepo defines the persistence operations for Testimonials.
type TestimonialRepo interface {
	Create(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Testimonial, error)

	// ListPaged returns one page of testimonials, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Testimonial, int64, error)

	Update(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTestimonialRepo struct {
	db db
}

// NewTestimonialRepo constructs a TestimonialRepo backed by the provided db connection.
func NewTestimonialRepo(db db) TestimonialRepo {
	return &pgTestimonialRepo{db: db}
}

const testimonialColumns = `id, name, trek, rating, work, comment, image, created_at, updated_at`

func (r *pgTestimonialRepo) Create(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	q := `
		INSERT INTO testimonials (name, trek, rating, work, comment, image)
		VALUES (@name, @trek, @rating, @work, @comment, @image)
		RETURNING ` + testimonialColumns

	result, err := scanTestimonial(r.db.QueryRow(ctx, q, testimonialArgs(t)))
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("repo.TestimonialRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTestimonialRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Testimonial, error) {
	q := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = @id`

	result, err := scanTestimonial(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("repo.TestimonialRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTestimonialRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Testimonial, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM testimonials`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TestimonialRepo.ListPaged: count: %w", err)
	}

	q := `
		SELECT ` + testimonialColumns + `
		FROM testimonials
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TestimonialRepo.ListPaged: %w", err)
	}
	items, err := collect(rows, scanTestimonial)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TestimonialRepo.ListPaged: %w", err)
	}
	return items, total, nil
}

func (r *pgTestimonialRepo) Update(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	q := `
		UPDATE testimonials
		SET name       = @name,
		    trek       = @trek,
		    rating     = @rating,
		    work       = @work,
		    comment    = @comment,
		    image      = @image,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + testimonialColumns

	result, err := scanTestimonial(r.db.QueryRow(ctx, q, testimonialArgs(t)))
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("repo.TestimonialRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTestimonialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM testimonials WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TestimonialRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TestimonialRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func testimonialArgs(t domain.Testimonial) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":      t.ID,
		"name":    t.Name,
		"trek":    t.Trek,
		"rating":  t.Rating,
		"work":    t.Work,
		"comment": t.Comment,
		"image":   t.Image,
	}
}

func scanTestimonial(s scanner) (domain.Testimonial, error) {
	var (
		t  domain.Testimonial
		id pgtype.UUID
	)
	err := s.Scan(&id, &t.Name, &t.Trek, &t.Rating, &t.Work, &t.Comment, &t.Image, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Testimonial{}, notFound(err)
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
