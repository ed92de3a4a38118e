package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrekType is a category label used to group treks on the client.
// Treks reference it weakly: deleting a type leaves its treks untouched.
type TrekType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Guide is a trek leader shown on the public site.
type Guide struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Experience  int       `json:"experience"` // years
	Image       string    `json:"images"`
	InstagramID string    `json:"instagramId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Testimonial is a customer review. Trek is free text, not a reference.
type Testimonial struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Trek      string    `json:"trek"`
	Rating    int       `json:"rating"` // 1..5
	Work      string    `json:"work"`
	Comment   string    `json:"comment"`
	Image     string    `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
