package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trek-booking/internal/domain"
)

// GuideRepo defines the persistence operations for Guides.
type GuideRepo interface {
	Create(ctx context.Context, g domain.Guide) (domain.Guide, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Guide, error)

	// ListPaged returns one page of guides, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Guide, int64, error)

	Update(ctx context.Context, g domain.Guide) (domain.Guide, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgGuideRepo struct {
	db db
}

// NewGuideRepo constructs a GuideRepo backed by the provided db connection.
func NewGuideRepo(db db) GuideRepo {
	return &pgGuideRepo{db: db}
}

const guideColumns = `id, name, bio, experience, image, instagram_id, created_at, updated_at`

func (r *pgGuideRepo) Create(ctx context.Context, g domain.Guide) (domain.Guide, error) {
	q := `
		INSERT INTO guides (name, bio, experience, image, instagram_id)
		VALUES (@name, @bio, @experience, @image, @instagram_id)
		RETURNING ` + guideColumns

	result, err := scanGuide(r.db.QueryRow(ctx, q, guideArgs(g)))
	if err != nil {
		return domain.Guide{}, fmt.Errorf("repo.GuideRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgGuideRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Guide, error) {
	q := `SELECT ` + guideColumns + ` FROM guides WHERE id = @id`

	result, err := scanGuide(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Guide{}, fmt.Errorf("repo.GuideRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged uses a window count so the page and the total come back in one query.
func (r *pgGuideRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Guide, int64, error) {
	q := `
		SELECT ` + guideColumns + `, COUNT(*) OVER () AS total
		FROM guides
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.GuideRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	guides := []domain.Guide{}
	var total int64
	for rows.Next() {
		var (
			g  domain.Guide
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &g.Name, &g.Bio, &g.Experience, &g.Image, &g.InstagramID,
			&g.CreatedAt, &g.UpdatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("repo.GuideRepo.ListPaged: scan: %w", err)
		}
		g.ID = uuid.UUID(id.Bytes)
		guides = append(guides, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.GuideRepo.ListPaged: rows: %w", err)
	}
	if len(guides) == 0 && p.Offset() > 0 {
		// Past the last page the window count is unavailable.
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM guides`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.GuideRepo.ListPaged: count: %w", err)
		}
	}
	return guides, total, nil
}

func (r *pgGuideRepo) Update(ctx context.Context, g domain.Guide) (domain.Guide, error) {
	q := `
		UPDATE guides
		SET name         = @name,
		    bio          = @bio,
		    experience   = @experience,
		    image        = @image,
		    instagram_id = @instagram_id,
		    updated_at   = now()
		WHERE id = @id
		RETURNING ` + guideColumns

	result, err := scanGuide(r.db.QueryRow(ctx, q, guideArgs(g)))
	if err != nil {
		return domain.Guide{}, fmt.Errorf("repo.GuideRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgGuideRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM guides WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.GuideRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.GuideRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func guideArgs(g domain.Guide) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":           g.ID,
		"name":         g.Name,
		"bio":          g.Bio,
		"experience":   g.Experience,
		"image":        g.Image,
		"instagram_id": g.InstagramID,
	}
}

func scanGuide(s scanner) (domain.Guide, error) {
	var (
		g  domain.Guide
		id pgtype.UUID
	)
	err := s.Scan(&id, &g.Name, &g.Bio, &g.Experience, &g.Image, &g.InstagramID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return domain.Guide{}, notFound(err)
	}
	g.ID = uuid.UUID(id.Bytes)
	return g, nil
}
