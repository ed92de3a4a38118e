package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/media"
	"github.com/pkordes/trek-booking/internal/repo"
)

// GuideInput is a create or edit request for a guide.
// Experience is a whole number of years; blank fields are left unchanged on edit.
type GuideInput struct {
	Name        string
	Bio         string
	Experience  string
	InstagramID string
	Image       *media.Image
}

// GuideService implements business logic for Guide operations.
type GuideService struct {
	repo     repo.GuideRepo
	uploader media.Uploader
}

// NewGuideService constructs a GuideService.
func NewGuideService(r repo.GuideRepo, uploader media.Uploader) *GuideService {
	return &GuideService{repo: r, uploader: uploader}
}

func (p *problems) experience(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		p.add("experience must be a non-negative whole number")
		return 0, false
	}
	return n, true
}

// Create validates and persists a new guide. The image is optional.
func (s *GuideService) Create(ctx context.Context, in GuideInput) (domain.Guide, error) {
	var p problems
	p.required("name", in.Name)
	exp, _ := p.experience(in.Experience)
	if err := p.result(); err != nil {
		return domain.Guide{}, fmt.Errorf("service.GuideService.Create: %w", err)
	}

	g := domain.Guide{
		Name:        strings.TrimSpace(in.Name),
		Bio:         strings.TrimSpace(in.Bio),
		Experience:  exp,
		InstagramID: strings.TrimSpace(in.InstagramID),
	}
	if in.Image != nil {
		url, err := uploadOne(ctx, s.uploader, in.Image)
		if err != nil {
			return domain.Guide{}, fmt.Errorf("service.GuideService.Create: %w", err)
		}
		g.Image = url
	}

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("service.GuideService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single guide.
func (s *GuideService) GetByID(ctx context.Context, id uuid.UUID) (domain.Guide, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("service.GuideService.GetByID: %w", err)
	}
	return g, nil
}

// List returns one page of guides and the total count.
func (s *GuideService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Guide, int64, error) {
	guides, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.GuideService.List: %w", err)
	}
	return guides, total, nil
}

// Update changes the supplied fields of a guide.
func (s *GuideService) Update(ctx context.Context, id uuid.UUID, in GuideInput) (domain.Guide, error) {
	var p problems
	exp, hasExp := p.experience(in.Experience)
	if err := p.result(); err != nil {
		return domain.Guide{}, fmt.Errorf("service.GuideService.Update: %w", err)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("service.GuideService.Update: %w", err)
	}
	if in.Image != nil {
		url, err := uploadOne(ctx, s.uploader, in.Image)
		if err != nil {
			return domain.Guide{}, fmt.Errorf("service.GuideService.Update: %w", err)
		}
		current.Image = url
	}
	setString(&current.Name, in.Name)
	setString(&current.Bio, in.Bio)
	setString(&current.InstagramID, in.InstagramID)
	if hasExp {
		current.Experience = exp
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.Guide{}, fmt.Errorf("service.GuideService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a guide.
func (s *GuideService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.GuideService.Delete: %w", err)
	}
	return nil
}
