package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/media"
	"github.com/pkordes/trek-booking/internal/repo"
)

// TrekTypeInput is a create or edit request for a trek type.
// Blank fields are left unchanged on edit.
type TrekTypeInput struct {
	Name        string
	Description string
	Image       *media.Image
}

// TrekTypeService implements business logic for TrekType operations.
type TrekTypeService struct {
	repo     repo.TrekTypeRepo
	uploader media.Uploader
}

// NewTrekTypeService constructs a TrekTypeService.
func NewTrekTypeService(r repo.TrekTypeRepo, uploader media.Uploader) *TrekTypeService {
	return &TrekTypeService{repo: r, uploader: uploader}
}

// Create validates and persists a new trek type. An image is required.
func (s *TrekTypeService) Create(ctx context.Context, in TrekTypeInput) (domain.TrekType, error) {
	var p problems
	p.required("name", in.Name)
	if in.Image == nil {
		p.add("trekTypeImage is required")
	}
	if err := p.result(); err != nil {
		return domain.TrekType{}, fmt.Errorf("service.TrekTypeService.Create: %w", err)
	}

	url, err := uploadOne(ctx, s.uploader, in.Image)
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("service.TrekTypeService.Create: %w", err)
	}

	t, err := s.repo.Create(ctx, domain.TrekType{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Image:       url,
	})
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("service.TrekTypeService.Create: %w", err)
	}
	return t, nil
}

// GetByID returns a single trek type.
func (s *TrekTypeService) GetByID(ctx context.Context, id uuid.UUID) (domain.TrekType, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("service.TrekTypeService.GetByID: %w", err)
	}
	return t, nil
}

// List returns all trek types.
func (s *TrekTypeService) List(ctx context.Context) ([]domain.TrekType, error) {
	types, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TrekTypeService.List: %w", err)
	}
	return types, nil
}

// Update changes the supplied fields; a new image replaces the old URL.
func (s *TrekTypeService) Update(ctx context.Context, id uuid.UUID, in TrekTypeInput) (domain.TrekType, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("service.TrekTypeService.Update: %w", err)
	}

	if in.Image != nil {
		url, err := uploadOne(ctx, s.uploader, in.Image)
		if err != nil {
			return domain.TrekType{}, fmt.Errorf("service.TrekTypeService.Update: %w", err)
		}
		current.Image = url
	}
	setString(&current.Name, in.Name)
	setString(&current.Description, in.Description)

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return domain.TrekType{}, fmt.Errorf("service.TrekTypeService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trek type. Treks that reference it are left alone.
func (s *TrekTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TrekTypeService.Delete: %w", err)
	}
	return nil
}

// uploadOne uploads img and maps any failure to domain.ErrUpload.
func uploadOne(ctx context.Context, up media.Uploader, img *media.Image) (string, error) {
	urls, err := media.UploadAll(ctx, up, []media.Image{*img})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	return urls[0], nil
}
