package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trek-booking/internal/middleware"
	"github.com/pkordes/trek-booking/spec"
)

// Routes builds the API router. Paths under /api/v1 match the ones the web
// clients already call. Every route that writes goes through RequireAuth.
func (s *Server) Routes(tokens middleware.AccessTokenParser) http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusMethodNotAllowed, nil, "method not allowed", nil)
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveSpec)
	if s.opts.UploadDir != "" {
		r.Handle("/public/uploads/*", http.StripPrefix("/public/uploads/", http.FileServer(http.Dir(s.opts.UploadDir))))
	}

	authed := middleware.RequireAuth(tokens, s.denied)

	r.Route("/api/v1", func(r chi.Router) {
		if s.svc.Treks != nil || s.svc.Projections != nil || s.svc.Export != nil {
			r.Route("/trek", func(r chi.Router) {
				s.trekRoutes(r, authed)
			})
		}
		if s.svc.TrekTypes != nil {
			r.Route("/trektype", func(r chi.Router) {
				r.Get("/getalltrektypes", s.ListTrekTypes)
				r.Get("/gettrektype/{id}", s.GetTrekType)
				r.With(authed).Post("/add-trek-type", s.CreateTrekType)
				r.With(authed).Patch("/edit-trektype/{id}", s.UpdateTrekType)
				r.With(authed).Delete("/remove-trektype/{id}", s.DeleteTrekType)
			})
		}
		if s.svc.Guides != nil {
			r.Route("/trekguide", func(r chi.Router) {
				r.Get("/trekGuides", s.ListGuides)
				r.Get("/trekGuides/{id}", s.GetGuide)
				r.With(authed).Post("/add-guide", s.CreateGuide)
				r.With(authed).Patch("/edit-guide/{id}", s.UpdateGuide)
				r.With(authed).Delete("/remove-guide/{id}", s.DeleteGuide)
			})
		}
		if s.svc.Testimonials != nil {
			r.Route("/testimonial", func(r chi.Router) {
				r.Get("/getAllTestimonials", s.ListTestimonials)
				r.Get("/getAllTestimonial/{id}", s.GetTestimonial)
				r.With(authed).Post("/create-testimonial", s.CreateTestimonial)
				r.With(authed).Patch("/edit-testimonial/{id}", s.UpdateTestimonial)
				r.With(authed).Delete("/this_testimonial/{id}", s.DeleteTestimonial)
			})
		}
		if s.svc.Users != nil {
			r.Route("/users", func(r chi.Router) {
				r.Post("/register", s.Register)
				r.Post("/login", s.Login)
				r.Post("/refresh-token", s.RefreshToken)
				r.Group(func(r chi.Router) {
					r.Use(authed)
					r.Get("/currentuser", s.CurrentUser)
					r.Post("/logout", s.Logout)
					r.Patch("/edit-user", s.UpdateAccount)
					r.Patch("/change-password", s.ChangePassword)
					r.Delete("/delete-user", s.DeleteAccount)
				})
			})
		}
	})
	return r
}

func (s *Server) trekRoutes(r chi.Router, authed func(http.Handler) http.Handler) {
	if s.svc.Treks != nil {
		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/create-trek", s.CreateTrek)
			r.Post("/add-new-date/{id}", s.AddTrekDate)
			r.Patch("/edit-trek/{id}", s.UpdateTrek)
			r.Patch("/edit-date-details/{id}", s.UpdateTrekDate)
			r.Delete("/delete-trek/{id}", s.DeleteTrek)
			r.Delete("/delete-date/{id}", s.DeleteTrekDate)
		})
	}
	if s.svc.Export != nil {
		r.With(authed).Get("/export", s.GetExport)
	}
	if s.svc.Projections == nil {
		return
	}

	r.Get("/treks-all-details", s.AllTrekDetails)
	r.Get("/treks-by-type", s.TreksByType)
	r.Get("/get-treks-name", s.TrekNames)
	r.Get("/allTreksForAdmin", s.TrekListing)
	r.Get("/allTreksForAdmin/{id}", s.TrekAllDetails)
	r.Get("/getDateDetailsForClient/{id}", s.TrekAllDetails)
	r.Get("/getTrekDates/{id}", s.TrekDates)
	r.Get("/getDateDetails/{id}", s.DateDetail)
	r.Get("/getTrekDateInfoDataForClientTrekMainPage/{id}", s.DateDetail)
	r.Get("/getTrekInfoDataForClientTrekMainPage/{id}", s.TrekDetail)
	r.Get("/getTrekTypeTreksForClient/{id}", s.SliderByType)

	r.Get("/slider-all-treks", s.Slider)
	for path, q := range sliderPresets {
		r.Get(path, s.sliderPreset(q))
	}
}

func serveSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
