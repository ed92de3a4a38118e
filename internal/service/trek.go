// Package service contains the business logic for the trek booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/flexlist"
	"github.com/pkordes/trek-booking/internal/media"
	"github.com/pkordes/trek-booking/internal/repo"
)

// TrekFields are the descriptive fields of a trek as received from a client.
// Scalars are raw strings; list fields may be native or serialized lists.
type TrekFields struct {
	Name               string
	Title              string
	SuitableForAge     string
	Altitude           string
	Location           string
	Description        string
	Difficulty         string
	TrekTypeID         string
	SubDescription     flexlist.Value
	Info               flexlist.Value
	Highlights         flexlist.Value
	Inclusions         flexlist.Value
	Exclusions         flexlist.Value
	CancellationPolicy flexlist.Value
}

// DateInput is one date window with its price lists and schedule.
// Dates are RFC 3339 or "2006-01-02".
type DateInput struct {
	StartDate     string
	EndDate       string
	WithTravel    flexlist.Value
	WithoutTravel flexlist.Value
	Schedule      flexlist.Value
}

// CreateTrekInput carries everything needed to create a trek with its first date.
type CreateTrekInput struct {
	TrekFields
	Date   DateInput
	Images []media.Image
}

// PatchTrekInput changes only the fields that are non-blank. Images, when
// present, replace the whole image list.
type PatchTrekInput struct {
	TrekFields
	Images []media.Image
}

// TrekService maintains the trek aggregate: a Trek, its TrekDates, and the
// Price and Timeline each date owns. Every write that touches more than one
// record runs inside a single unit of work.
type TrekService struct {
	uow      repo.UnitOfWork
	uploader media.Uploader
}

// NewTrekService constructs a TrekService.
func NewTrekService(uow repo.UnitOfWork, uploader media.Uploader) *TrekService {
	return &TrekService{uow: uow, uploader: uploader}
}

// parsedDate is a validated DateInput.
type parsedDate struct {
	start, end    time.Time
	withTravel    []domain.PricedOption
	withoutTravel []domain.PricedOption
	schedule      []domain.ScheduleEntry
}

type parsedLists struct {
	subDescription, info, highlights, inclusions, exclusions, cancellation []string
}

func decodeTrekLists(p *problems, f TrekFields) parsedLists {
	return parsedLists{
		subDescription: decodeList[string](p, "subDescription", f.SubDescription),
		info:           decodeList[string](p, "trekInfo", f.Info),
		highlights:     decodeList[string](p, "trekHighlights", f.Highlights),
		inclusions:     decodeList[string](p, "trekInclusions", f.Inclusions),
		exclusions:     decodeList[string](p, "trekExclusions", f.Exclusions),
		cancellation:   decodeList[string](p, "trekCancellationPolicy", f.CancellationPolicy),
	}
}

func decodePrices(p *problems, withTravel, withoutTravel flexlist.Value) ([]domain.PricedOption, []domain.PricedOption) {
	return decodeList[domain.PricedOption](p, "withTravel", withTravel),
		decodeList[domain.PricedOption](p, "withoutTravel", withoutTravel)
}

// Create validates in, uploads its images, then persists
// Price → Timeline → TrekDate → Trek in one unit of work.
func (s *TrekService) Create(ctx context.Context, in CreateTrekInput) (_ domain.Trek, err error) {
	ctx, span := tracer.Start(ctx, "TrekService.Create")
	defer func() { finish(span, err) }()

	var p problems
	p.required("trekName", in.Name)
	p.required("trekDescription", in.Description)
	p.required("trekLocation", in.Location)
	var difficulty domain.Difficulty
	if strings.TrimSpace(in.Difficulty) == "" {
		p.add("trekDifficulty is required")
	} else {
		difficulty = p.difficulty(in.Difficulty)
	}
	altitude := p.altitude(in.Altitude)
	typeID := p.id("trekType", in.TrekTypeID)
	lists := decodeTrekLists(&p, in.TrekFields)

	var d parsedDate
	d.start, d.end = p.window(in.Date.StartDate, in.Date.EndDate)
	d.withTravel, d.withoutTravel = decodePrices(&p, in.Date.WithTravel, in.Date.WithoutTravel)
	d.schedule = decodeList[domain.ScheduleEntry](&p, "scheduleTimeline", in.Date.Schedule)
	p.schedule(d.schedule)

	if len(in.Images) == 0 {
		p.add("at least one image is required")
	}
	if err := p.result(); err != nil {
		return domain.Trek{}, fmt.Errorf("service.TrekService.Create: %w", err)
	}

	urls, err := media.UploadAll(ctx, s.uploader, in.Images)
	if err != nil {
		return domain.Trek{}, fmt.Errorf("service.TrekService.Create: %w: %v", domain.ErrUpload, err)
	}

	trek := domain.Trek{
		Name:               strings.TrimSpace(in.Name),
		Title:              strings.TrimSpace(in.Title),
		SuitableForAge:     strings.TrimSpace(in.SuitableForAge),
		Altitude:           altitude,
		Location:           strings.TrimSpace(in.Location),
		Description:        strings.TrimSpace(in.Description),
		SubDescription:     lists.subDescription,
		Info:               lists.info,
		Highlights:         lists.highlights,
		Inclusions:         lists.inclusions,
		Exclusions:         lists.exclusions,
		CancellationPolicy: lists.cancellation,
		Difficulty:         difficulty,
		Images:             urls,
		TrekTypeID:         typeID,
	}

	var created domain.Trek
	err = s.uow.Do(ctx, func(st repo.Stores) error {
		date, err := createDate(ctx, st, d)
		if err != nil {
			return err
		}
		trek.DateIDs = []uuid.UUID{date.ID}
		created, err = st.Treks.Create(ctx, trek)
		return err
	})
	if err != nil {
		return domain.Trek{}, fmt.Errorf("service.TrekService.Create: %w", err)
	}
	span.SetAttributes(attribute.String("trek.id", created.ID.String()))
	return created, nil
}

// createDate persists Price → Timeline → TrekDate and returns the date.
func createDate(ctx context.Context, st repo.Stores, d parsedDate) (domain.TrekDate, error) {
	price, err := st.Prices.Create(ctx, domain.Price{WithTravel: d.withTravel, WithoutTravel: d.withoutTravel})
	if err != nil {
		return domain.TrekDate{}, err
	}
	timeline, err := st.Timelines.Create(ctx, domain.Timeline{Schedule: d.schedule})
	if err != nil {
		return domain.TrekDate{}, err
	}
	return st.Dates.Create(ctx, domain.TrekDate{
		StartDate:   d.start,
		EndDate:     d.end,
		PriceID:     price.ID,
		TimelineIDs: []uuid.UUID{timeline.ID},
	})
}

// AddDate appends a new date window to an existing trek. Validation reports
// every problem at once; an unknown trek rolls the whole operation back.
func (s *TrekService) AddDate(ctx context.Context, trekID uuid.UUID, in DateInput) (_ domain.TrekDate, err error) {
	ctx, span := tracer.Start(ctx, "TrekService.AddDate", trace.WithAttributes(attribute.String("trek.id", trekID.String())))
	defer func() { finish(span, err) }()

	var p problems
	var d parsedDate
	d.start, d.end = p.window(in.StartDate, in.EndDate)
	d.withTravel, d.withoutTravel = decodePrices(&p, in.WithTravel, in.WithoutTravel)
	schedule := flexlist.Decode[domain.ScheduleEntry]("scheduleTimeline", in.Schedule)
	switch {
	case !schedule.OK():
		p.addErr(schedule.Err)
	case len(schedule.Items) == 0:
		p.add("schedule timeline is empty")
	default:
		p.schedule(schedule.Items)
		d.schedule = schedule.Items
	}
	if err := p.result(); err != nil {
		return domain.TrekDate{}, fmt.Errorf("service.TrekService.AddDate: %w", err)
	}

	var created domain.TrekDate
	err = s.uow.Do(ctx, func(st repo.Stores) error {
		date, err := createDate(ctx, st, d)
		if err != nil {
			return err
		}
		if err := st.Treks.AppendDate(ctx, trekID, date.ID); err != nil {
			return err
		}
		created = date
		return nil
	})
	if err != nil {
		return domain.TrekDate{}, fmt.Errorf("service.TrekService.AddDate: %w", err)
	}
	return created, nil
}

// Update applies a partial change to a trek. The row is locked for the
// duration so concurrent patches serialize; a patch racing a delete fails
// with domain.ErrNotFound.
func (s *TrekService) Update(ctx context.Context, trekID uuid.UUID, in PatchTrekInput) (_ domain.Trek, err error) {
	ctx, span := tracer.Start(ctx, "TrekService.Update", trace.WithAttributes(attribute.String("trek.id", trekID.String())))
	defer func() { finish(span, err) }()

	var p problems
	var difficulty domain.Difficulty
	if strings.TrimSpace(in.Difficulty) != "" {
		difficulty = p.difficulty(in.Difficulty)
	}
	altitude := p.altitude(in.Altitude)
	typeID := p.id("trekType", in.TrekTypeID)
	lists := decodeTrekLists(&p, in.TrekFields)
	if err := p.result(); err != nil {
		return domain.Trek{}, fmt.Errorf("service.TrekService.Update: %w", err)
	}

	var urls []string
	if len(in.Images) > 0 {
		urls, err = media.UploadAll(ctx, s.uploader, in.Images)
		if err != nil {
			return domain.Trek{}, fmt.Errorf("service.TrekService.Update: %w: %v", domain.ErrUpload, err)
		}
	}

	var updated domain.Trek
	err = s.uow.Do(ctx, func(st repo.Stores) error {
		trek, err := st.Treks.GetForUpdate(ctx, trekID)
		if err != nil {
			return err
		}

		setString(&trek.Name, in.Name)
		setString(&trek.Title, in.Title)
		setString(&trek.SuitableForAge, in.SuitableForAge)
		setString(&trek.Location, in.Location)
		setString(&trek.Description, in.Description)
		setList(&trek.SubDescription, in.SubDescription, lists.subDescription)
		setList(&trek.Info, in.Info, lists.info)
		setList(&trek.Highlights, in.Highlights, lists.highlights)
		setList(&trek.Inclusions, in.Inclusions, lists.inclusions)
		setList(&trek.Exclusions, in.Exclusions, lists.exclusions)
		setList(&trek.CancellationPolicy, in.CancellationPolicy, lists.cancellation)
		if difficulty != "" {
			trek.Difficulty = difficulty
		}
		if altitude != nil {
			trek.Altitude = altitude
		}
		if typeID != nil {
			trek.TrekTypeID = typeID
		}
		if urls != nil {
			trek.Images = urls
		}

		updated, err = st.Treks.Update(ctx, trek)
		return err
	})
	if err != nil {
		return domain.Trek{}, fmt.Errorf("service.TrekService.Update: %w", err)
	}
	return updated, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setList[T any](dst *[]T, v flexlist.Value, decoded []T) {
	if !v.Blank() {
		*dst = decoded
	}
}

// UpdateDate patches a date window together with its Price and Timeline.
// Price lists are replaced only by non-empty input; the merged window must
// still start before it ends.
func (s *TrekService) UpdateDate(ctx context.Context, dateID uuid.UUID, in DateInput) (_ domain.TrekDate, err error) {
	ctx, span := tracer.Start(ctx, "TrekService.UpdateDate", trace.WithAttributes(attribute.String("date.id", dateID.String())))
	defer func() { finish(span, err) }()

	var p problems
	start, hasStart := p.optionalDate("start date", in.StartDate)
	end, hasEnd := p.optionalDate("end date", in.EndDate)
	withTravel, withoutTravel := decodePrices(&p, in.WithTravel, in.WithoutTravel)
	schedule := decodeList[domain.ScheduleEntry](&p, "scheduleTimeline", in.Schedule)
	p.schedule(schedule)
	if err := p.result(); err != nil {
		return domain.TrekDate{}, fmt.Errorf("service.TrekService.UpdateDate: %w", err)
	}

	var updated domain.TrekDate
	err = s.uow.Do(ctx, func(st repo.Stores) error {
		date, err := st.Dates.GetForUpdate(ctx, dateID)
		if err != nil {
			return err
		}
		price, err := st.Prices.GetByID(ctx, date.PriceID)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		if len(date.TimelineIDs) == 0 {
			return fmt.Errorf("timeline: %w", domain.ErrNotFound)
		}
		timeline, err := st.Timelines.GetByID(ctx, date.TimelineIDs[0])
		if err != nil {
			return fmt.Errorf("timeline: %w", err)
		}

		if hasStart {
			date.StartDate = start
		}
		if hasEnd {
			date.EndDate = end
		}
		if !date.StartDate.Before(date.EndDate) {
			return domain.NewValidationError([]string{"start date must be before end date"})
		}
		if len(withTravel) > 0 {
			price.WithTravel = withTravel
		}
		if len(withoutTravel) > 0 {
			price.WithoutTravel = withoutTravel
		}
		if len(schedule) > 0 {
			timeline.Schedule = schedule
		}

		if _, err := st.Prices.Update(ctx, price); err != nil {
			return err
		}
		if _, err := st.Timelines.Update(ctx, timeline); err != nil {
			return err
		}
		updated, err = st.Dates.Update(ctx, date)
		return err
	})
	if err != nil {
		return domain.TrekDate{}, fmt.Errorf("service.TrekService.UpdateDate: %w", err)
	}
	return updated, nil
}

// cascadeStep deletes one kind of record owned by a TrekDate.
type cascadeStep struct {
	name string
	run  func(ctx context.Context, st repo.Stores, d domain.TrekDate) error
}

// dateCascade is what a TrekDate owns, in deletion order. The date itself is
// deleted after every step has run. An owned id that no longer resolves is
// skipped; any other failure aborts the unit of work.
var dateCascade = []cascadeStep{
	{name: "price", run: func(ctx context.Context, st repo.Stores, d domain.TrekDate) error {
		return ignoreNotFound(st.Prices.Delete(ctx, d.PriceID))
	}},
	{name: "timelines", run: func(ctx context.Context, st repo.Stores, d domain.TrekDate) error {
		for _, id := range d.TimelineIDs {
			if err := ignoreNotFound(st.Timelines.Delete(ctx, id)); err != nil {
				return err
			}
		}
		return nil
	}},
}

func cascadeDate(ctx context.Context, st repo.Stores, d domain.TrekDate) error {
	for _, step := range dateCascade {
		if err := step.run(ctx, st, d); err != nil {
			return fmt.Errorf("cascade %s of date %s: %w", step.name, d.ID, err)
		}
	}
	return st.Dates.Delete(ctx, d.ID)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Delete removes a trek and everything its dates own.
func (s *TrekService) Delete(ctx context.Context, trekID uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "TrekService.Delete", trace.WithAttributes(attribute.String("trek.id", trekID.String())))
	defer func() { finish(span, err) }()

	err = s.uow.Do(ctx, func(st repo.Stores) error {
		trek, err := st.Treks.GetForUpdate(ctx, trekID)
		if err != nil {
			return err
		}
		for _, dateID := range trek.DateIDs {
			date, err := st.Dates.GetForUpdate(ctx, dateID)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := cascadeDate(ctx, st, date); err != nil {
				return err
			}
		}
		return st.Treks.Delete(ctx, trekID)
	})
	if err != nil {
		return fmt.Errorf("service.TrekService.Delete: %w", err)
	}
	return nil
}

// DeleteDate removes one date from its trek along with its Price and Timeline.
func (s *TrekService) DeleteDate(ctx context.Context, dateID uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "TrekService.DeleteDate", trace.WithAttributes(attribute.String("date.id", dateID.String())))
	defer func() { finish(span, err) }()

	err = s.uow.Do(ctx, func(st repo.Stores) error {
		date, err := st.Dates.GetForUpdate(ctx, dateID)
		if err != nil {
			return err
		}
		owner, err := st.Treks.FindByDateID(ctx, dateID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Orphaned date: nothing to unlink.
		case err != nil:
			return err
		default:
			if err := st.Treks.RemoveDate(ctx, owner.ID, dateID); err != nil {
				return err
			}
		}
		return cascadeDate(ctx, st, date)
	})
	if err != nil {
		return fmt.Errorf("service.TrekService.DeleteDate: %w", err)
	}
	return nil
}
