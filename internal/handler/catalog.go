package handler

import (
	"net/http"

	"github.com/pkordes/trek-booking/internal/service"
)

// ---- trek types ------------------------------------------------------------

func trekTypeInput(w http.ResponseWriter, f *form) (service.TrekTypeInput, bool) {
	img, err := f.image("trekTypeImage")
	if err != nil {
		badRequest(w, err.Error())
		return service.TrekTypeInput{}, false
	}
	return service.TrekTypeInput{Name: f.str("name"), Description: f.str("description"), Image: img}, true
}

// CreateTrekType handles POST /api/v1/trektype/add-trek-type.
func (s *Server) CreateTrekType(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()
	in, ok := trekTypeInput(w, f)
	if !ok {
		return
	}

	tt, err := s.svc.TrekTypes.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err, "trek type")
		return
	}
	respondCreated(w, tt, "trek type created successfully")
}

// UpdateTrekType handles PATCH /api/v1/trektype/edit-trektype/{id}.
func (s *Server) UpdateTrekType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()
	in, ok := trekTypeInput(w, f)
	if !ok {
		return
	}

	tt, err := s.svc.TrekTypes.Update(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err, "trek type")
		return
	}
	respondOK(w, tt, "trek type updated successfully")
}

// DeleteTrekType handles DELETE /api/v1/trektype/remove-trektype/{id}.
func (s *Server) DeleteTrekType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.TrekTypes.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, "trek type")
		return
	}
	respondOK(w, map[string]string{"id": id.String()}, "trek type deleted successfully")
}

// GetTrekType handles GET /api/v1/trektype/gettrektype/{id}.
func (s *Server) GetTrekType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tt, err := s.svc.TrekTypes.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "trek type")
		return
	}
	respondOK(w, tt, "trek type fetched")
}

// ListTrekTypes handles GET /api/v1/trektype/getalltrektypes.
func (s *Server) ListTrekTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.svc.TrekTypes.List(r.Context())
	if err != nil {
		s.fail(w, r, err, "trek type")
		return
	}
	respondOK(w, types, "trek types fetched")
}

// ---- guides ----------------------------------------------------------------

func guideInput(w http.ResponseWriter, f *form) (service.GuideInput, bool) {
	img, err := f.image("guideAvatar")
	if err != nil {
		badRequest(w, err.Error())
		return service.GuideInput{}, false
	}
	return service.GuideInput{
		Name:        f.str("name"),
		Bio:         f.str("bio"),
		Experience:  f.str("experience"),
		InstagramID: f.str("instagramId"),
		Image:       img,
	}, true
}

// CreateGuide handles POST /api/v1/trekguide/add-guide.
func (s *Server) CreateGuide(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()
	in, ok := guideInput(w, f)
	if !ok {
		return
	}

	g, err := s.svc.Guides.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err, "guide")
		return
	}
	respondCreated(w, g, "guide added successfully")
}

// UpdateGuide handles PATCH /api/v1/trekguide/edit-guide/{id}.
func (s *Server) UpdateGuide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()
	in, ok := guideInput(w, f)
	if !ok {
		return
	}

	g, err := s.svc.Guides.Update(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err, "guide")
		return
	}
	respondOK(w, g, "guide updated successfully")
}

// DeleteGuide handles DELETE /api/v1/trekguide/remove-guide/{id}.
func (s *Server) DeleteGuide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Guides.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, "guide")
		return
	}
	respondOK(w, map[string]string{"id": id.String()}, "guide removed successfully")
}

// GetGuide handles GET /api/v1/trekguide/trekGuides/{id}.
func (s *Server) GetGuide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := s.svc.Guides.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "guide")
		return
	}
	respondOK(w, g, "guide fetched")
}

// ListGuides handles GET /api/v1/trekguide/trekGuides.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListGuides(w http.ResponseWriter, r *http.Request) {
	p, ok := pagination(w, r)
	if !ok {
		return
	}
	guides, total, err := s.svc.Guides.List(r.Context(), p)
	if err != nil {
		s.fail(w, r, err, "guide")
		return
	}
	respondOK(w, paged(guides, p, total), "guides fetched")
}

// ---- testimonials ----------------------------------------------------------

func testimonialInput(w http.ResponseWriter, f *form) (service.TestimonialInput, bool) {
	img, err := f.image("testimonialAvatar")
	if err != nil {
		badRequest(w, err.Error())
		return service.TestimonialInput{}, false
	}
	return service.TestimonialInput{
		Name:    f.str("name"),
		Trek:    f.str("trek"),
		Rating:  f.str("rating"),
		Work:    f.str("work"),
		Comment: f.str("comment"),
		Image:   img,
	}, true
}

// CreateTestimonial handles POST /api/v1/testimonial/create-testimonial.
func (s *Server) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()
	in, ok := testimonialInput(w, f)
	if !ok {
		return
	}

	t, err := s.svc.Testimonials.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err, "testimonial")
		return
	}
	respondCreated(w, t, "testimonial created successfully")
}

// UpdateTestimonial handles PATCH /api/v1/testimonial/edit-testimonial/{id}.
func (s *Server) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()
	in, ok := testimonialInput(w, f)
	if !ok {
		return
	}

	t, err := s.svc.Testimonials.Update(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err, "testimonial")
		return
	}
	respondOK(w, t, "testimonial updated successfully")
}

// DeleteTestimonial handles DELETE /api/v1/testimonial/this_testimonial/{id}.
func (s *Server) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Testimonials.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, "testimonial")
		return
	}
	respondOK(w, map[string]string{"id": id.String()}, "testimonial deleted successfully")
}

// GetTestimonial handles GET /api/v1/testimonial/getAllTestimonial/{id}.
func (s *Server) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.svc.Testimonials.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "testimonial")
		return
	}
	respondOK(w, t, "testimonial fetched")
}

// ListTestimonials handles GET /api/v1/testimonial/getAllTestimonials.
func (s *Server) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	p, ok := pagination(w, r)
	if !ok {
		return
	}
	items, total, err := s.svc.Testimonials.List(r.Context(), p)
	if err != nil {
		s.fail(w, r, err, "testimonial")
		return
	}
	respondOK(w, paged(items, p, total), "testimonials fetched")
}
