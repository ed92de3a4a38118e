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

// TestimonialInput is a create or edit request for a testimonial.
type TestimonialInput struct {
	Name    string
	Trek    string
	Rating  string
	Work    string
	Comment string
	Image   *media.Image
}

// TestimonialService implements business logic for Testimonial operations.
type TestimonialService struct {
	repo     repo.TestimonialRepo
	uploader media.Uploader
}

// NewTestimonialService constructs a TestimonialService.
func NewTestimonialService(r repo.TestimonialRepo, uploader media.Uploader) *TestimonialService {
	return &TestimonialService{repo: r, uploader: uploader}
}

func (p *problems) rating(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		p.add("rating must be a whole number from 1 to 5")
		return 0, false
	}
	return n, true
}

// Create validates and persists a testimonial. Rating and image are required.
func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (domain.Testimonial, error) {
	var p problems
	p.required("name", in.Name)
	p.required("comment", in.Comment)
	if strings.TrimSpace(in.Rating) == "" {
		p.add("rating is required")
	}
	rating, _ := p.rating(in.Rating)
	if in.Image == nil {
		p.add("image is required")
	}
	if err := p.result(); err != nil {
		return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.Create: %w", err)
	}

	url, err := uploadOne(ctx, s.uploader, in.Image)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Testimonial{
		Name:    strings.TrimSpace(in.Name),
		Trek:    strings.TrimSpace(in.Trek),
		Rating:  rating,
		Work:    strings.TrimSpace(in.Work),
		Comment: strings.TrimSpace(in.Comment),
		Image:   url,
	})
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single testimonial.
func (s *TestimonialService) GetByID(ctx context.Context, id uuid.UUID) (domain.Testimonial, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.GetByID: %w", err)
	}
	return t, nil
}

// List returns one page of testimonials and the total count.
func (s *TestimonialService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Testimonial, int64, error) {
	items, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TestimonialService.List: %w", err)
	}
	return items, total, nil
}

// Update changes the supplied fields; the image is optional.
func (s *TestimonialService) Update(ctx context.Context, id uuid.UUID, in TestimonialInput) (domain.Testimonial, error) {
	var p problems
	rating, hasRating := p.rating(in.Rating)
	if err := p.result(); err != nil {
		return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.Update: %w", err)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.Update: %w", err)
	}
	if in.Image != nil {
		url, err := uploadOne(ctx, s.uploader, in.Image)
		if err != nil {
			return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.Update: %w", err)
		}
		current.Image = url
	}
	setString(&current.Name, in.Name)
	setString(&current.Trek, in.Trek)
	setString(&current.Work, in.Work)
	setString(&current.Comment, in.Comment)
	if hasRating {
		current.Rating = rating
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("service.TestimonialService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a testimonial. A missing id is reported as domain.ErrNotFound.
func (s *TestimonialService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TestimonialService.Delete: %w", err)
	}
	return nil
}
