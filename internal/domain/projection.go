package domain

import (
	"time"

	"github.com/google/uuid"
)

// The types in this file are read-only views assembled by the projection
// service. They join Trek, TrekType, TrekDate, Price and Timeline and carry
// only the fields their screen needs.

// DateDetails is one TrekDate with its Price and Timeline inlined.
type DateDetails struct {
	ID             uuid.UUID       `json:"id"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	WithTravel     []PricedOption  `json:"withTravel"`
	WithoutTravel  []PricedOption  `json:"withoutTravel"`
	Schedule       []ScheduleEntry `json:"scheduleTimeline"`
	DateDifference float64         `json:"dateDifference"`
}

// TrekAllDetails is one trek with every joined record nested, no flattening.
type TrekAllDetails struct {
	ID                  uuid.UUID     `json:"id"`
	Name                string        `json:"trekName"`
	Title               string        `json:"trekTitle"`
	SuitableForAge      string        `json:"suitableForAge"`
	Altitude            *float64      `json:"altitude,omitempty"`
	Location            string        `json:"trekLocation"`
	Description         string        `json:"trekDescription"`
	SubDescription      []string      `json:"subDescription"`
	Info                []string      `json:"trekInfo"`
	Highlights          []string      `json:"trekHighlights"`
	Inclusions          []string      `json:"trekInclusions"`
	Exclusions          []string      `json:"trekExclusions"`
	CancellationPolicy  []string      `json:"trekCancellationPolicy"`
	Difficulty          Difficulty    `json:"trekDifficulty,omitempty"`
	Images              []string      `json:"images"`
	TrekType            string        `json:"trekType"`
	TrekTypeDescription string        `json:"trekTypeDescription"`
	Dates               []DateDetails `json:"dates"`
}

// SliderSummary is the flattened list/carousel row: one per TrekDate.
// TrekDateID, StartDate and DateDifference are nil for a trek with no dates.
type SliderSummary struct {
	TrekID         uuid.UUID   `json:"id"`
	Name           string      `json:"trekName"`
	Title          string      `json:"trekTitle"`
	SuitableForAge string      `json:"suitableForAge"`
	Altitude       *float64    `json:"altitude,omitempty"`
	Location       string      `json:"trekLocation"`
	Difficulty     Difficulty  `json:"trekDifficulty,omitempty"`
	Images         []string    `json:"images"`
	DateIDs        []uuid.UUID `json:"dates"`
	TrekType       string      `json:"trekType"`
	TrekDateID     *uuid.UUID  `json:"trekDateId"`
	StartDate      *time.Time  `json:"startDate"`
	DateDifference *float64    `json:"dateDifference"`
	Price          float64     `json:"price"`
}

// SliderSort selects the ordering of a slider projection.
type SliderSort int

const (
	SortNone SliderSort = iota
	SortDateAsc
	SortDateDesc
	SortPriceAsc
	SortPriceDesc
)

// SliderQuery filters and orders a slider projection.
// Zero values mean "no filter".
type SliderQuery struct {
	Sort       SliderSort
	Difficulty Difficulty
	TrekTypeID *uuid.UUID
}

// TypeGroupTrek is one (trek, date, price) row inside a TypeGroup.
type TypeGroupTrek struct {
	TrekID         uuid.UUID      `json:"trekId"`
	Name           string         `json:"trekName"`
	SuitableForAge string         `json:"suitableForAge"`
	Altitude       *float64       `json:"altitude,omitempty"`
	Location       string         `json:"trekLocation"`
	StartDate      time.Time      `json:"startDate"`
	EndDate        time.Time      `json:"endDate"`
	WithTravel     []PricedOption `json:"withTravel"`
	WithoutTravel  []PricedOption `json:"withoutTravel"`
	TrekTypeName   string         `json:"trekTypeName"`
	Difficulty     Difficulty     `json:"trekDifficulty,omitempty"`
}

// TypeGroup collects the dated treks of one TrekType.
type TypeGroup struct {
	TrekTypeID   uuid.UUID       `json:"trekTypeId"`
	TrekTypeName string          `json:"trekTypeName"`
	Treks        []TypeGroupTrek `json:"treks"`
}

// DatePriceSummary is a date window with its price lists, used on the trek page.
type DatePriceSummary struct {
	DateID        uuid.UUID      `json:"dateid"`
	StartDate     time.Time      `json:"date"`
	EndDate       time.Time      `json:"endDate"`
	WithTravel    []PricedOption `json:"withTravel"`
	WithoutTravel []PricedOption `json:"withoutTravel"`
}

// TrekDetail backs the public trek page.
type TrekDetail struct {
	ID                  uuid.UUID          `json:"id"`
	Name                string             `json:"trekName"`
	Title               string             `json:"trekTitle"`
	SuitableForAge      string             `json:"suitableForAge"`
	Altitude            *float64           `json:"altitude,omitempty"`
	Location            string             `json:"trekLocation"`
	Description         string             `json:"trekDescription"`
	SubDescription      []string           `json:"subDescription"`
	Info                []string           `json:"trekInfo"`
	Highlights          []string           `json:"trekHighlights"`
	Inclusions          []string           `json:"trekInclusions"`
	Exclusions          []string           `json:"trekExclusions"`
	CancellationPolicy  []string           `json:"trekCancellationPolicy"`
	Difficulty          Difficulty         `json:"trekDifficulty,omitempty"`
	Images              []string           `json:"images"`
	TrekType            string             `json:"trekType"`
	TrekTypeDescription string             `json:"trekTypeDescription"`
	Dates               []DatePriceSummary `json:"allStartDate"`
}

// DateWindow is the bare start/end of a TrekDate.
type DateWindow struct {
	ID        uuid.UUID `json:"id"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// TrekListing is one admin table row: the trek without its dates expanded.
type TrekListing struct {
	Trek
	TrekTypeName string `json:"trekTypeName"`
}

// TrekName is the minimal trek reference used by navigation menus.
type TrekName struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"trekName"`
	DateIDs []uuid.UUID `json:"dates"`
}
