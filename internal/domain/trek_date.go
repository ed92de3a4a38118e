package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrekDate is one bookable window of a trek. It exclusively owns one Price
// and one Timeline; TimelineIDs is a list for storage compatibility but the
// aggregate service always writes exactly one entry.
type TrekDate struct {
	ID          uuid.UUID   `json:"id"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
	PriceID     uuid.UUID   `json:"price"`
	TimelineIDs []uuid.UUID `json:"trekTimeline"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// DayCount returns the length of the window in days, fractional when the
// window is not a whole number of days.
func (d TrekDate) DayCount() float64 {
	return DayDifference(d.StartDate, d.EndDate)
}

// DayDifference returns (end - start) expressed in days.
func DayDifference(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// PricedOption is one priced itinerary leg, e.g. "Pune to Pune, 4500".
type PricedOption struct {
	Description string  `json:"description"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Price       float64 `json:"price"`
}

// Price holds the priced options for one TrekDate.
// Both lists are always non-nil once loaded from the store.
type Price struct {
	ID            uuid.UUID      `json:"id"`
	WithTravel    []PricedOption `json:"withTravel"`
	WithoutTravel []PricedOption `json:"withoutTravel"`
}

// Headline is the single price shown on list views: the first with-travel
// price when positive, otherwise the first without-travel price, otherwise 0.
func (p Price) Headline() float64 {
	if len(p.WithTravel) > 0 && p.WithTravel[0].Price > 0 {
		return p.WithTravel[0].Price
	}
	if len(p.WithoutTravel) > 0 {
		return p.WithoutTravel[0].Price
	}
	return 0
}

// ScheduleEntry is one row of a trek's itinerary.
type ScheduleEntry struct {
	Day  string `json:"day"`
	Time string `json:"time"`
	Work string `json:"work"`
}

// Timeline is the day-by-day schedule for one TrekDate.
type Timeline struct {
	ID       uuid.UUID       `json:"id"`
	Schedule []ScheduleEntry `json:"scheduleTimeline"`
}
