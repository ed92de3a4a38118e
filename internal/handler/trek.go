package handler

import (
	"net/http"

	"github.com/pkordes/trek-booking/internal/service"
)

func trekFields(f *form) service.TrekFields {
	return service.TrekFields{
		Name:               f.str("trekName"),
		Title:              f.str("trekTitle"),
		SuitableForAge:     f.str("suitableForAge"),
		Altitude:           f.str("altitude"),
		Location:           f.str("trekLocation"),
		Description:        f.str("trekDescription"),
		Difficulty:         f.str("trekDifficulty"),
		TrekTypeID:         f.str("trekType"),
		SubDescription:     f.list("subDescription"),
		Info:               f.list("trekInfo"),
		Highlights:         f.list("trekHighlights"),
		Inclusions:         f.list("trekInclusions"),
		Exclusions:         f.list("trekExclusions"),
		CancellationPolicy: f.list("trekCancellationPolicy"),
	}
}

func dateInput(f *form) service.DateInput {
	return service.DateInput{
		StartDate:     f.str("startDate"),
		EndDate:       f.str("endDate"),
		WithTravel:    f.list("withTravel"),
		WithoutTravel: f.list("withoutTravel"),
		Schedule:      f.list("scheduleTimeline"),
	}
}

// CreateTrek handles POST /api/v1/trek/create-trek.
func (s *Server) CreateTrek(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	images, err := f.images("trekImage", maxTrekImages)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	trek, err := s.svc.Treks.Create(r.Context(), service.CreateTrekInput{
		TrekFields: trekFields(f),
		Date:       dateInput(f),
		Images:     images,
	})
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondCreated(w, trek, "trek created successfully")
}

// AddTrekDate handles POST /api/v1/trek/add-new-date/{id}.
func (s *Server) AddTrekDate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	date, err := s.svc.Treks.AddDate(r.Context(), id, dateInput(f))
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondCreated(w, date, "date added successfully")
}

// UpdateTrek handles PATCH /api/v1/trek/edit-trek/{id}.
func (s *Server) UpdateTrek(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	images, err := f.images("trekImage", maxTrekImages)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	trek, err := s.svc.Treks.Update(r.Context(), id, service.PatchTrekInput{TrekFields: trekFields(f), Images: images})
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, trek, "trek updated successfully")
}

// UpdateTrekDate handles PATCH /api/v1/trek/edit-date-details/{id}.
func (s *Server) UpdateTrekDate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	date, err := s.svc.Treks.UpdateDate(r.Context(), id, dateInput(f))
	if err != nil {
		s.fail(w, r, err, "trek date")
		return
	}
	respondOK(w, date, "date updated successfully")
}

// DeleteTrek handles DELETE /api/v1/trek/delete-trek/{id}.
func (s *Server) DeleteTrek(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Treks.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, "trek")
		return
	}
	respondOK(w, map[string]string{"id": id.String()}, "trek and related data deleted successfully")
}

// DeleteTrekDate handles DELETE /api/v1/trek/delete-date/{id}.
func (s *Server) DeleteTrekDate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Treks.DeleteDate(r.Context(), id); err != nil {
		s.fail(w, r, err, "trek date")
		return
	}
	respondOK(w, map[string]string{"id": id.String()}, "date deleted successfully")
}
