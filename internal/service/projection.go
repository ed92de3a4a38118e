package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/repo"
)

// ProjectionService builds the read-only client views of the trek aggregate.
// It never writes. Joins are done in memory over at most one query per store,
// and every query of one view runs in the same snapshot.
type ProjectionService struct {
	views repo.Snapshot
}

// NewProjectionService constructs a ProjectionService reading through views.
func NewProjectionService(views repo.Snapshot) *ProjectionService {
	return &ProjectionService{views: views}
}

// graph is every record reachable from a set of treks, keyed by id.
// Ids that do not resolve are simply absent.
type graph struct {
	types     map[uuid.UUID]domain.TrekType
	dates     map[uuid.UUID]domain.TrekDate
	prices    map[uuid.UUID]domain.Price
	timelines map[uuid.UUID]domain.Timeline
}

func loadGraph(ctx context.Context, st repo.Stores, treks []domain.Trek) (graph, error) {
	g := graph{
		types:     map[uuid.UUID]domain.TrekType{},
		dates:     map[uuid.UUID]domain.TrekDate{},
		prices:    map[uuid.UUID]domain.Price{},
		timelines: map[uuid.UUID]domain.Timeline{},
	}

	var typeIDs, dateIDs []uuid.UUID
	for _, t := range treks {
		if t.TrekTypeID != nil {
			typeIDs = append(typeIDs, *t.TrekTypeID)
		}
		dateIDs = append(dateIDs, t.DateIDs...)
	}

	if len(typeIDs) > 0 {
		types, err := st.Types.ListByIDs(ctx, typeIDs)
		if err != nil {
			return graph{}, err
		}
		for _, t := range types {
			g.types[t.ID] = t
		}
	}
	if len(dateIDs) == 0 {
		return g, nil
	}

	dates, err := st.Dates.ListByIDs(ctx, dateIDs)
	if err != nil {
		return graph{}, err
	}
	var priceIDs, timelineIDs []uuid.UUID
	for _, d := range dates {
		g.dates[d.ID] = d
		priceIDs = append(priceIDs, d.PriceID)
		timelineIDs = append(timelineIDs, d.TimelineIDs...)
	}

	if len(priceIDs) > 0 {
		prices, err := st.Prices.ListByIDs(ctx, priceIDs)
		if err != nil {
			return graph{}, err
		}
		for _, p := range prices {
			g.prices[p.ID] = p
		}
	}
	if len(timelineIDs) > 0 {
		timelines, err := st.Timelines.ListByIDs(ctx, timelineIDs)
		if err != nil {
			return graph{}, err
		}
		for _, tl := range timelines {
			g.timelines[tl.ID] = tl
		}
	}
	return g, nil
}

// datesOf returns the resolved dates of t in trek order.
func (g graph) datesOf(t domain.Trek) []domain.TrekDate {
	out := make([]domain.TrekDate, 0, len(t.DateIDs))
	for _, id := range t.DateIDs {
		if d, ok := g.dates[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

func (g graph) typeOf(t domain.Trek) (domain.TrekType, bool) {
	if t.TrekTypeID == nil {
		return domain.TrekType{}, false
	}
	tt, ok := g.types[*t.TrekTypeID]
	return tt, ok
}

// priceOf returns the date's price, or an empty one with non-nil lists.
func (g graph) priceOf(d domain.TrekDate) (domain.Price, bool) {
	p, ok := g.prices[d.PriceID]
	if !ok {
		return domain.Price{WithTravel: []domain.PricedOption{}, WithoutTravel: []domain.PricedOption{}}, false
	}
	return p, true
}

// scheduleOf concatenates the schedules of every resolved timeline of d.
func (g graph) scheduleOf(d domain.TrekDate) []domain.ScheduleEntry {
	out := []domain.ScheduleEntry{}
	for _, id := range d.TimelineIDs {
		if tl, ok := g.timelines[id]; ok {
			out = append(out, tl.Schedule...)
		}
	}
	return out
}

func (g graph) dateDetails(d domain.TrekDate) domain.DateDetails {
	price, _ := g.priceOf(d)
	return domain.DateDetails{
		ID:             d.ID,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		WithTravel:     price.WithTravel,
		WithoutTravel:  price.WithoutTravel,
		Schedule:       g.scheduleOf(d),
		DateDifference: d.DayCount(),
	}
}

func (g graph) allDetails(t domain.Trek) domain.TrekAllDetails {
	tt, _ := g.typeOf(t)
	out := domain.TrekAllDetails{
		ID:                  t.ID,
		Name:                t.Name,
		Title:               t.Title,
		SuitableForAge:      t.SuitableForAge,
		Altitude:            t.Altitude,
		Location:            t.Location,
		Description:         t.Description,
		SubDescription:      t.SubDescription,
		Info:                t.Info,
		Highlights:          t.Highlights,
		Inclusions:          t.Inclusions,
		Exclusions:          t.Exclusions,
		CancellationPolicy:  t.CancellationPolicy,
		Difficulty:          t.Difficulty,
		Images:              t.Images,
		TrekType:            tt.Name,
		TrekTypeDescription: tt.Description,
		Dates:               []domain.DateDetails{},
	}
	for _, d := range g.datesOf(t) {
		out.Dates = append(out.Dates, g.dateDetails(d))
	}
	return out
}

func (s *ProjectionService) treks(ctx context.Context, f repo.TrekFilter) ([]domain.Trek, graph, error) {
	var (
		treks []domain.Trek
		g     graph
	)
	err := s.views.View(ctx, func(st repo.Stores) error {
		var err error
		if treks, err = st.Treks.List(ctx, f); err != nil {
			return err
		}
		g, err = loadGraph(ctx, st, treks)
		return err
	})
	if err != nil {
		return nil, graph{}, err
	}
	return treks, g, nil
}

func (s *ProjectionService) trek(ctx context.Context, id uuid.UUID) (domain.Trek, graph, error) {
	var (
		trek domain.Trek
		g    graph
	)
	err := s.views.View(ctx, func(st repo.Stores) error {
		var err error
		if trek, err = st.Treks.GetByID(ctx, id); err != nil {
			return err
		}
		g, err = loadGraph(ctx, st, []domain.Trek{trek})
		return err
	})
	if err != nil {
		return domain.Trek{}, graph{}, err
	}
	return trek, g, nil
}

// AllDetails returns one row per trek with every date nested.
func (s *ProjectionService) AllDetails(ctx context.Context) ([]domain.TrekAllDetails, error) {
	treks, g, err := s.treks(ctx, repo.TrekFilter{})
	if err != nil {
		return nil, fmt.Errorf("service.ProjectionService.AllDetails: %w", err)
	}
	out := make([]domain.TrekAllDetails, 0, len(treks))
	for _, t := range treks {
		out = append(out, g.allDetails(t))
	}
	return out, nil
}

// TrekAllDetails is AllDetails for a single trek.
func (s *ProjectionService) TrekAllDetails(ctx context.Context, id uuid.UUID) (domain.TrekAllDetails, error) {
	trek, g, err := s.trek(ctx, id)
	if err != nil {
		return domain.TrekAllDetails{}, fmt.Errorf("service.ProjectionService.TrekAllDetails: %w", err)
	}
	return g.allDetails(trek), nil
}

// Slider returns one summary row per trek date, filtered and sorted by q.
// A trek without dates yields a single row with nil date fields, unless q
// filters by type, in which case it is dropped.
func (s *ProjectionService) Slider(ctx context.Context, q domain.SliderQuery) ([]domain.SliderSummary, error) {
	treks, g, err := s.treks(ctx, repo.TrekFilter{Difficulty: q.Difficulty, TrekTypeID: q.TrekTypeID})
	if err != nil {
		return nil, fmt.Errorf("service.ProjectionService.Slider: %w", err)
	}

	rows := []domain.SliderSummary{}
	for _, t := range treks {
		tt, _ := g.typeOf(t)
		base := domain.SliderSummary{
			TrekID:         t.ID,
			Name:           t.Name,
			Title:          t.Title,
			SuitableForAge: t.SuitableForAge,
			Altitude:       t.Altitude,
			Location:       t.Location,
			Difficulty:     t.Difficulty,
			Images:         t.Images,
			DateIDs:        t.DateIDs,
			TrekType:       tt.Name,
		}

		dates := g.datesOf(t)
		if len(dates) == 0 {
			if q.TrekTypeID == nil {
				rows = append(rows, base)
			}
			continue
		}
		for _, d := range dates {
			row := base
			id, start, days := d.ID, d.StartDate, d.DayCount()
			row.TrekDateID = &id
			row.StartDate = &start
			row.DateDifference = &days
			price, _ := g.priceOf(d)
			row.Price = price.Headline()
			rows = append(rows, row)
		}
	}

	sortSlider(rows, q.Sort)
	return rows, nil
}

// sortSlider orders rows stably. Rows without a date sort first ascending
// and last descending.
func sortSlider(rows []domain.SliderSummary, by domain.SliderSort) {
	switch by {
	case domain.SortDateAsc:
		slices.SortStableFunc(rows, compareStart)
	case domain.SortDateDesc:
		slices.SortStableFunc(rows, func(a, b domain.SliderSummary) int { return compareStart(b, a) })
	case domain.SortPriceAsc:
		slices.SortStableFunc(rows, func(a, b domain.SliderSummary) int { return cmp.Compare(a.Price, b.Price) })
	case domain.SortPriceDesc:
		slices.SortStableFunc(rows, func(a, b domain.SliderSummary) int { return cmp.Compare(b.Price, a.Price) })
	}
}

func compareStart(a, b domain.SliderSummary) int {
	switch {
	case a.StartDate == nil && b.StartDate == nil:
		return 0
	case a.StartDate == nil:
		return -1
	case b.StartDate == nil:
		return 1
	}
	return a.StartDate.Compare(*b.StartDate)
}

// GroupByType groups (trek, date, price) rows by trek type. Only treks whose
// type, date and price all resolve are included. Groups appear in the order
// their first trek was created.
func (s *ProjectionService) GroupByType(ctx context.Context) ([]domain.TypeGroup, error) {
	treks, g, err := s.treks(ctx, repo.TrekFilter{})
	if err != nil {
		return nil, fmt.Errorf("service.ProjectionService.GroupByType: %w", err)
	}

	groups := []domain.TypeGroup{}
	index := map[uuid.UUID]int{}
	for _, t := range treks {
		tt, ok := g.typeOf(t)
		if !ok {
			continue
		}
		for _, d := range g.datesOf(t) {
			price, ok := g.priceOf(d)
			if !ok {
				continue
			}
			i, seen := index[tt.ID]
			if !seen {
				i = len(groups)
				index[tt.ID] = i
				groups = append(groups, domain.TypeGroup{TrekTypeID: tt.ID, TrekTypeName: tt.Name, Treks: []domain.TypeGroupTrek{}})
			}
			groups[i].Treks = append(groups[i].Treks, domain.TypeGroupTrek{
				TrekID:         t.ID,
				Name:           t.Name,
				SuitableForAge: t.SuitableForAge,
				Altitude:       t.Altitude,
				Location:       t.Location,
				StartDate:      d.StartDate,
				EndDate:        d.EndDate,
				WithTravel:     price.WithTravel,
				WithoutTravel:  price.WithoutTravel,
				TrekTypeName:   tt.Name,
				Difficulty:     t.Difficulty,
			})
		}
	}
	return groups, nil
}

// TrekDetail backs the public trek page.
func (s *ProjectionService) TrekDetail(ctx context.Context, id uuid.UUID) (domain.TrekDetail, error) {
	t, g, err := s.trek(ctx, id)
	if err != nil {
		return domain.TrekDetail{}, fmt.Errorf("service.ProjectionService.TrekDetail: %w", err)
	}
	tt, _ := g.typeOf(t)
	out := domain.TrekDetail{
		ID:                  t.ID,
		Name:                t.Name,
		Title:               t.Title,
		SuitableForAge:      t.SuitableForAge,
		Altitude:            t.Altitude,
		Location:            t.Location,
		Description:         t.Description,
		SubDescription:      t.SubDescription,
		Info:                t.Info,
		Highlights:          t.Highlights,
		Inclusions:          t.Inclusions,
		Exclusions:          t.Exclusions,
		CancellationPolicy:  t.CancellationPolicy,
		Difficulty:          t.Difficulty,
		Images:              t.Images,
		TrekType:            tt.Name,
		TrekTypeDescription: tt.Description,
		Dates:               []domain.DatePriceSummary{},
	}
	for _, d := range g.datesOf(t) {
		price, _ := g.priceOf(d)
		out.Dates = append(out.Dates, domain.DatePriceSummary{
			DateID:        d.ID,
			StartDate:     d.StartDate,
			EndDate:       d.EndDate,
			WithTravel:    price.WithTravel,
			WithoutTravel: price.WithoutTravel,
		})
	}
	return out, nil
}

// DateDetail returns one date with its price lists and schedule inlined.
func (s *ProjectionService) DateDetail(ctx context.Context, dateID uuid.UUID) (domain.DateDetails, error) {
	var (
		d domain.TrekDate
		g graph
	)
	err := s.views.View(ctx, func(st repo.Stores) error {
		var err error
		if d, err = st.Dates.GetByID(ctx, dateID); err != nil {
			return err
		}
		// A stand-in trek lets the date reuse the same graph loading as every other view.
		g, err = loadGraph(ctx, st, []domain.Trek{{DateIDs: []uuid.UUID{d.ID}}})
		return err
	})
	if err != nil {
		return domain.DateDetails{}, fmt.Errorf("service.ProjectionService.DateDetail: %w", err)
	}
	return g.dateDetails(d), nil
}

// TrekDates lists the windows of a trek in trek order.
func (s *ProjectionService) TrekDates(ctx context.Context, trekID uuid.UUID) ([]domain.DateWindow, error) {
	t, g, err := s.trek(ctx, trekID)
	if err != nil {
		return nil, fmt.Errorf("service.ProjectionService.TrekDates: %w", err)
	}
	out := []domain.DateWindow{}
	for _, d := range g.datesOf(t) {
		out = append(out, domain.DateWindow{ID: d.ID, StartDate: d.StartDate, EndDate: d.EndDate})
	}
	return out, nil
}

// Listing is the admin table of treks with their type names.
func (s *ProjectionService) Listing(ctx context.Context) ([]domain.TrekListing, error) {
	treks, g, err := s.treks(ctx, repo.TrekFilter{})
	if err != nil {
		return nil, fmt.Errorf("service.ProjectionService.Listing: %w", err)
	}
	out := make([]domain.TrekListing, 0, len(treks))
	for _, t := range treks {
		tt, _ := g.typeOf(t)
		out = append(out, domain.TrekListing{Trek: t, TrekTypeName: tt.Name})
	}
	return out, nil
}

// Names returns the minimal trek references used by navigation menus.
func (s *ProjectionService) Names(ctx context.Context) ([]domain.TrekName, error) {
	var treks []domain.Trek
	err := s.views.View(ctx, func(st repo.Stores) error {
		var err error
		treks, err = st.Treks.List(ctx, repo.TrekFilter{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.ProjectionService.Names: %w", err)
	}
	out := make([]domain.TrekName, 0, len(treks))
	for _, t := range treks {
		out = append(out, domain.TrekName{ID: t.ID, Name: t.Name, DateIDs: t.DateIDs})
	}
	return out, nil
}
