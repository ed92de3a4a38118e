// Package domain contains the core data types for the trek booking backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty grades how demanding a trek is. Always stored lower-case.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyModerate  Difficulty = "moderate"
	DifficultyDifficult Difficulty = "difficult"
)

// ParseDifficulty normalizes s to lower case and checks it against the
// enumerated values. Returns ErrValidation for anything else.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyDifficult:
		return d, nil
	}
	return "", fmt.Errorf("%w: difficulty must be one of easy, moderate, difficult", ErrValidation)
}

// Trek is the root of the trek aggregate. It owns its TrekDates through the
// ordered DateIDs list and holds a weak reference to a TrekType.
type Trek struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"trekName"`
	Title              string      `json:"trekTitle"`
	SuitableForAge     string      `json:"suitableForAge"`
	Altitude           *float64    `json:"altitude,omitempty"`
	Location           string      `json:"trekLocation"`
	Description        string      `json:"trekDescription"`
	SubDescription     []string    `json:"subDescription"`
	Info               []string    `json:"trekInfo"`
	Highlights         []string    `json:"trekHighlights"`
	Inclusions         []string    `json:"trekInclusions"`
	Exclusions         []string    `json:"trekExclusions"`
	CancellationPolicy []string    `json:"trekCancellationPolicy"`
	Difficulty         Difficulty  `json:"trekDifficulty,omitempty"`
	Images             []string    `json:"images"`
	DateIDs            []uuid.UUID `json:"dates"`
	TrekTypeID         *uuid.UUID  `json:"trekType,omitempty"` // nil when uncategorized
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// HasDate reports whether id is one of the trek's dates.
func (t Trek) HasDate(id uuid.UUID) bool {
	for _, d := range t.DateIDs {
		if d == id {
			return true
		}
	}
	return false
}
