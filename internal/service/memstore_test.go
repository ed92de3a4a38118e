package service_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/repo"
)

// memState is the whole in-memory database. It is copied on every unit of
// work and restored when the work fails, which mirrors a rolled-back transaction.
type memState struct {
	treks     map[uuid.UUID]domain.Trek
	trekOrder []uuid.UUID
	dates     map[uuid.UUID]domain.TrekDate
	prices    map[uuid.UUID]domain.Price
	timelines map[uuid.UUID]domain.Timeline
	types     map[uuid.UUID]domain.TrekType
}

func (s *memState) clone() *memState {
	c := &memState{
		treks:     make(map[uuid.UUID]domain.Trek, len(s.treks)),
		trekOrder: slices.Clone(s.trekOrder),
		dates:     maps.Clone(s.dates),
		prices:    maps.Clone(s.prices),
		timelines: maps.Clone(s.timelines),
		types:     maps.Clone(s.types),
	}
	for id, t := range s.treks {
		t.DateIDs = slices.Clone(t.DateIDs)
		c.treks[id] = t
	}
	return c
}

// memDB is a transactional fake of the trek aggregate stores. It satisfies
// repo.UnitOfWork; Stores() gives the non-transactional view used for reads.
// Set fail[op] (e.g. "Treks.Create") to make that operation return an error.
type memDB struct {
	mu   sync.Mutex
	st   *memState
	fail map[string]error
}

var _ repo.UnitOfWork = (*memDB)(nil)

func newMemDB() *memDB {
	return &memDB{
		st: &memState{
			treks:     map[uuid.UUID]domain.Trek{},
			dates:     map[uuid.UUID]domain.TrekDate{},
			prices:    map[uuid.UUID]domain.Price{},
			timelines: map[uuid.UUID]domain.Timeline{},
			types:     map[uuid.UUID]domain.TrekType{},
		},
		fail: map[string]error{},
	}
}

func (m *memDB) Do(_ context.Context, fn func(s repo.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.st.clone()
	if err := fn(m.Stores()); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// View runs fn under the lock so it sees no concurrent writes.
func (m *memDB) View(_ context.Context, fn func(s repo.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.Stores())
}

func (m *memDB) Stores() repo.Stores {
	return repo.Stores{
		Treks:     memTreks{m},
		Dates:     memDates{m},
		Prices:    memPrices{m},
		Timelines: memTimelines{m},
		Types:     memTypes{m},
	}
}

func (m *memDB) failure(op string) error { return m.fail[op] }

// counts returns the number of treks, dates, prices and timelines stored.
func (m *memDB) counts() (treks, dates, prices, timelines int) {
	return len(m.st.treks), len(m.st.dates), len(m.st.prices), len(m.st.timelines)
}

// ---- treks -----------------------------------------------------------------

type memTreks struct{ m *memDB }

var _ repo.TrekRepo = memTreks{}

func (r memTreks) Create(_ context.Context, t domain.Trek) (domain.Trek, error) {
	if err := r.m.failure("Treks.Create"); err != nil {
		return domain.Trek{}, err
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	t.DateIDs = slices.Clone(t.DateIDs)
	r.m.st.treks[t.ID] = t
	r.m.st.trekOrder = append(r.m.st.trekOrder, t.ID)
	return t, nil
}

func (r memTreks) GetByID(_ context.Context, id uuid.UUID) (domain.Trek, error) {
	t, ok := r.m.st.treks[id]
	if !ok {
		return domain.Trek{}, domain.ErrNotFound
	}
	return t, nil
}

func (r memTreks) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Trek, error) {
	return r.GetByID(ctx, id)
}

func (r memTreks) List(_ context.Context, f repo.TrekFilter) ([]domain.Trek, error) {
	if err := r.m.failure("Treks.List"); err != nil {
		return nil, err
	}
	out := []domain.Trek{}
	for _, id := range r.m.st.trekOrder {
		t, ok := r.m.st.treks[id]
		if !ok {
			continue
		}
		if f.IDs != nil && !slices.Contains(f.IDs, id) {
			continue
		}
		if f.Difficulty != "" && t.Difficulty != f.Difficulty {
			continue
		}
		if f.TrekTypeID != nil && (t.TrekTypeID == nil || *t.TrekTypeID != *f.TrekTypeID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r memTreks) FindByDateID(_ context.Context, dateID uuid.UUID) (domain.Trek, error) {
	for _, id := range r.m.st.trekOrder {
		if t, ok := r.m.st.treks[id]; ok && t.HasDate(dateID) {
			return t, nil
		}
	}
	return domain.Trek{}, domain.ErrNotFound
}

func (r memTreks) Update(_ context.Context, t domain.Trek) (domain.Trek, error) {
	if err := r.m.failure("Treks.Update"); err != nil {
		return domain.Trek{}, err
	}
	cur, ok := r.m.st.treks[t.ID]
	if !ok {
		return domain.Trek{}, domain.ErrNotFound
	}
	t.DateIDs = cur.DateIDs
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now()
	r.m.st.treks[t.ID] = t
	return t, nil
}

func (r memTreks) AppendDate(_ context.Context, trekID, dateID uuid.UUID) error {
	t, ok := r.m.st.treks[trekID]
	if !ok {
		return domain.ErrNotFound
	}
	t.DateIDs = slices.Concat(t.DateIDs, []uuid.UUID{dateID})
	r.m.st.treks[trekID] = t
	return nil
}

func (r memTreks) RemoveDate(_ context.Context, trekID, dateID uuid.UUID) error {
	t, ok := r.m.st.treks[trekID]
	if !ok {
		return domain.ErrNotFound
	}
	t.DateIDs = slices.DeleteFunc(slices.Clone(t.DateIDs), func(id uuid.UUID) bool { return id == dateID })
	r.m.st.treks[trekID] = t
	return nil
}

func (r memTreks) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.m.failure("Treks.Delete"); err != nil {
		return err
	}
	if _, ok := r.m.st.treks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.st.treks, id)
	r.m.st.trekOrder = slices.DeleteFunc(r.m.st.trekOrder, func(x uuid.UUID) bool { return x == id })
	return nil
}

// ---- dates -----------------------------------------------------------------

type memDates struct{ m *memDB }

var _ repo.TrekDateRepo = memDates{}

func (r memDates) Create(_ context.Context, d domain.TrekDate) (domain.TrekDate, error) {
	if err := r.m.failure("Dates.Create"); err != nil {
		return domain.TrekDate{}, err
	}
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	r.m.st.dates[d.ID] = d
	return d, nil
}

func (r memDates) GetByID(_ context.Context, id uuid.UUID) (domain.TrekDate, error) {
	d, ok := r.m.st.dates[id]
	if !ok {
		return domain.TrekDate{}, domain.ErrNotFound
	}
	return d, nil
}

func (r memDates) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.TrekDate, error) {
	return r.GetByID(ctx, id)
}

func (r memDates) ListByIDs(_ context.Context, ids []uuid.UUID) ([]domain.TrekDate, error) {
	out := []domain.TrekDate{}
	for _, id := range ids {
		if d, ok := r.m.st.dates[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r memDates) Update(_ context.Context, d domain.TrekDate) (domain.TrekDate, error) {
	if _, ok := r.m.st.dates[d.ID]; !ok {
		return domain.TrekDate{}, domain.ErrNotFound
	}
	d.UpdatedAt = time.Now()
	r.m.st.dates[d.ID] = d
	return d, nil
}

func (r memDates) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.m.failure("Dates.Delete"); err != nil {
		return err
	}
	if _, ok := r.m.st.dates[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.st.dates, id)
	return nil
}

// ---- prices ----------------------------------------------------------------

type memPrices struct{ m *memDB }

var _ repo.PriceRepo = memPrices{}

func (r memPrices) Create(_ context.Context, p domain.Price) (domain.Price, error) {
	if err := r.m.failure("Prices.Create"); err != nil {
		return domain.Price{}, err
	}
	p.ID = uuid.New()
	p.WithTravel = nonNil(p.WithTravel)
	p.WithoutTravel = nonNil(p.WithoutTravel)
	r.m.st.prices[p.ID] = p
	return p, nil
}

func (r memPrices) GetByID(_ context.Context, id uuid.UUID) (domain.Price, error) {
	p, ok := r.m.st.prices[id]
	if !ok {
		return domain.Price{}, domain.ErrNotFound
	}
	return p, nil
}

func (r memPrices) ListByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Price, error) {
	out := []domain.Price{}
	for _, id := range ids {
		if p, ok := r.m.st.prices[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPrices) Update(_ context.Context, p domain.Price) (domain.Price, error) {
	if err := r.m.failure("Prices.Update"); err != nil {
		return domain.Price{}, err
	}
	if _, ok := r.m.st.prices[p.ID]; !ok {
		return domain.Price{}, domain.ErrNotFound
	}
	r.m.st.prices[p.ID] = p
	return p, nil
}

func (r memPrices) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.st.prices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.st.prices, id)
	return nil
}

// ---- timelines -------------------------------------------------------------

type memTimelines struct{ m *memDB }

var _ repo.TimelineRepo = memTimelines{}

func (r memTimelines) Create(_ context.Context, t domain.Timeline) (domain.Timeline, error) {
	if err := r.m.failure("Timelines.Create"); err != nil {
		return domain.Timeline{}, err
	}
	t.ID = uuid.New()
	t.Schedule = nonNil(t.Schedule)
	r.m.st.timelines[t.ID] = t
	return t, nil
}

func (r memTimelines) GetByID(_ context.Context, id uuid.UUID) (domain.Timeline, error) {
	t, ok := r.m.st.timelines[id]
	if !ok {
		return domain.Timeline{}, domain.ErrNotFound
	}
	return t, nil
}

func (r memTimelines) ListByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Timeline, error) {
	out := []domain.Timeline{}
	for _, id := range ids {
		if t, ok := r.m.st.timelines[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTimelines) Update(_ context.Context, t domain.Timeline) (domain.Timeline, error) {
	if _, ok := r.m.st.timelines[t.ID]; !ok {
		return domain.Timeline{}, domain.ErrNotFound
	}
	r.m.st.timelines[t.ID] = t
	return t, nil
}

func (r memTimelines) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.m.failure("Timelines.Delete"); err != nil {
		return err
	}
	if _, ok := r.m.st.timelines[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.st.timelines, id)
	return nil
}

// ---- types -----------------------------------------------------------------

type memTypes struct{ m *memDB }

var _ repo.TrekTypeRepo = memTypes{}

func (r memTypes) Create(_ context.Context, t domain.TrekType) (domain.TrekType, error) {
	t.ID = uuid.New()
	r.m.st.types[t.ID] = t
	return t, nil
}

func (r memTypes) GetByID(_ context.Context, id uuid.UUID) (domain.TrekType, error) {
	t, ok := r.m.st.types[id]
	if !ok {
		return domain.TrekType{}, domain.ErrNotFound
	}
	return t, nil
}

func (r memTypes) List(_ context.Context) ([]domain.TrekType, error) {
	return slices.Collect(maps.Values(r.m.st.types)), nil
}

func (r memTypes) ListByIDs(_ context.Context, ids []uuid.UUID) ([]domain.TrekType, error) {
	out := []domain.TrekType{}
	for _, id := range ids {
		if t, ok := r.m.st.types[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTypes) Update(_ context.Context, t domain.TrekType) (domain.TrekType, error) {
	if _, ok := r.m.st.types[t.ID]; !ok {
		return domain.TrekType{}, domain.ErrNotFound
	}
	r.m.st.types[t.ID] = t
	return t, nil
}

func (r memTypes) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.st.types[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.st.types, id)
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
