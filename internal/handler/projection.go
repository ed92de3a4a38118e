package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/domain"
)

// sliderPresets are the fixed slider routes the home page calls.
var sliderPresets = map[string]domain.SliderQuery{
	"/slider-all-treks-sortbydate":      {Sort: domain.SortDateAsc},
	"/slider-all-treks-sortbydatedesc":  {Sort: domain.SortDateDesc},
	"/slider-all-treks-sortbypriceasc":  {Sort: domain.SortPriceAsc},
	"/slider-all-treks-sortbypricedesc": {Sort: domain.SortPriceDesc},
	"/slider-treks-with-easy":           {Difficulty: domain.DifficultyEasy},
	"/slider-treks-with-modrate":        {Difficulty: domain.DifficultyModerate},
	"/slider-treks-with-difficult":      {Difficulty: domain.DifficultyDifficult},
}

var sortNames = map[string]domain.SliderSort{
	"":           domain.SortNone,
	"date_asc":   domain.SortDateAsc,
	"date_desc":  domain.SortDateDesc,
	"price_asc":  domain.SortPriceAsc,
	"price_desc": domain.SortPriceDesc,
}

// AllTrekDetails handles GET /api/v1/trek/treks-all-details.
func (s *Server) AllTrekDetails(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Projections.AllDetails(r.Context())
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, rows, "treks successfully fetched")
}

// TrekAllDetails handles GET /api/v1/trek/allTreksForAdmin/{id}.
func (s *Server) TrekAllDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	row, err := s.svc.Projections.TrekAllDetails(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, row, "trek details fetched")
}

// Slider handles GET /api/v1/trek/slider-all-treks.
// Optional query: sort=date_asc|date_desc|price_asc|price_desc,
// difficulty=easy|moderate|difficult, trekType=<id>.
func (s *Server) Slider(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query domain.SliderQuery

	sort, known := sortNames[strings.ToLower(q.Get("sort"))]
	if !known {
		badRequest(w, "sort must be one of date_asc, date_desc, price_asc, price_desc")
		return
	}
	query.Sort = sort
	if d := q.Get("difficulty"); d != "" {
		diff, err := domain.ParseDifficulty(d)
		if err != nil {
			badRequest(w, "difficulty must be one of easy, moderate, difficult")
			return
		}
		query.Difficulty = diff
	}
	if t := q.Get("trekType"); t != "" {
		id, err := uuid.Parse(t)
		if err != nil {
			badRequest(w, "invalid id format")
			return
		}
		query.TrekTypeID = &id
	}
	s.writeSlider(w, r, query)
}

func (s *Server) sliderPreset(q domain.SliderQuery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { s.writeSlider(w, r, q) }
}

// SliderByType handles GET /api/v1/trek/getTrekTypeTreksForClient/{id}.
func (s *Server) SliderByType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.writeSlider(w, r, domain.SliderQuery{TrekTypeID: &id})
}

func (s *Server) writeSlider(w http.ResponseWriter, r *http.Request, q domain.SliderQuery) {
	rows, err := s.svc.Projections.Slider(r.Context(), q)
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, rows, "treks successfully fetched")
}

// TreksByType handles GET /api/v1/trek/treks-by-type.
func (s *Server) TreksByType(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Projections.GroupByType(r.Context())
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, groups, "treks grouped by type")
}

// TrekDetail handles GET /api/v1/trek/getTrekInfoDataForClientTrekMainPage/{id}.
func (s *Server) TrekDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := s.svc.Projections.TrekDetail(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, detail, "trek successfully fetched")
}

// DateDetail handles GET /api/v1/trek/getDateDetails/{id}.
func (s *Server) DateDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := s.svc.Projections.DateDetail(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "trek date")
		return
	}
	respondOK(w, detail, "date details fetched")
}

// TrekDates handles GET /api/v1/trek/getTrekDates/{id}.
func (s *Server) TrekDates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dates, err := s.svc.Projections.TrekDates(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, dates, "trek dates fetched")
}

// TrekListing handles GET /api/v1/trek/allTreksForAdmin.
func (s *Server) TrekListing(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Projections.Listing(r.Context())
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, rows, "treks fetched")
}

// TrekNames handles GET /api/v1/trek/get-treks-name.
func (s *Server) TrekNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.Projections.Names(r.Context())
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, names, "trek names fetched")
}
