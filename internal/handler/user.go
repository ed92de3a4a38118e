package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/auth"
	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/middleware"
	"github.com/pkordes/trek-booking/internal/service"
)

const refreshCookie = "refreshToken"

// userView is a User without its secrets.
type userView struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func viewUser(u domain.User) userView {
	return userView{ID: u.ID, FullName: u.FullName, Username: u.Username, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type session struct {
	User         *userView `json:"user,omitempty"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

func (s *Server) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}
	if s.opts.CookieSecure {
		// Admin and public clients are served from other origins.
		c.SameSite = http.SameSiteNoneMode
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}

func (s *Server) setSession(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, s.cookie(middleware.AccessCookie, pair.AccessToken, s.opts.AccessTTL))
	http.SetCookie(w, s.cookie(refreshCookie, pair.RefreshToken, s.opts.RefreshTTL))
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(middleware.AccessCookie, "", 0))
	http.SetCookie(w, s.cookie(refreshCookie, "", 0))
}

// currentUserID reads the id RequireAuth stored. Routes using it are always
// behind RequireAuth, so a miss is a wiring bug.
func (s *Server) currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		s.denied(w, r, domain.ErrUnauthorized)
	}
	return id, ok
}

// Register handles POST /api/v1/users/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	u, err := s.svc.Users.Register(r.Context(), service.RegisterInput{
		FullName: f.str("fullName"),
		Username: f.str("username"),
		Password: f.str("password"),
	})
	if err != nil {
		s.fail(w, r, err, "username")
		return
	}
	respondCreated(w, viewUser(u), "user registered successfully")
}

// Login handles POST /api/v1/users/login. Tokens are set as cookies and
// also returned in the body for clients that cannot use cookies.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	u, pair, err := s.svc.Users.Login(r.Context(), f.str("username"), f.str("password"))
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.setSession(w, pair)
	view := viewUser(u)
	respondOK(w, session{User: &view, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, "user logged in successfully")
}

// RefreshToken handles POST /api/v1/users/refresh-token. The refresh token
// comes from the refreshToken cookie or the request body.
func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		f, ok := s.readForm(w, r)
		if !ok {
			return
		}
		defer f.cleanup()
		token = f.str("refreshToken")
	}
	if token == "" {
		writeEnvelope(w, http.StatusUnauthorized, nil, "refresh token is required", nil)
		return
	}

	pair, err := s.svc.Users.Refresh(r.Context(), token)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.setSession(w, pair)
	respondOK(w, session{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, "access token refreshed")
}

// Logout handles POST /api/v1/users/logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := s.currentUserID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Users.Logout(r.Context(), id); err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.clearSession(w)
	respondOK(w, nil, "user logged out")
}

// CurrentUser handles GET /api/v1/users/currentuser.
func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.currentUserID(w, r)
	if !ok {
		return
	}
	u, err := s.svc.Users.Current(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "user")
		return
	}
	respondOK(w, viewUser(u), "current user fetched")
}

// UpdateAccount handles PATCH /api/v1/users/edit-user.
func (s *Server) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.currentUserID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	u, err := s.svc.Users.UpdateAccount(r.Context(), id, f.str("fullName"), f.str("username"))
	if err != nil {
		s.fail(w, r, err, "username")
		return
	}
	respondOK(w, viewUser(u), "account details updated")
}

// ChangePassword handles PATCH /api/v1/users/change-password.
func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := s.currentUserID(w, r)
	if !ok {
		return
	}
	f, ok := s.readForm(w, r)
	if !ok {
		return
	}
	defer f.cleanup()

	if err := s.svc.Users.ChangePassword(r.Context(), id, f.str("oldPassword"), f.str("newPassword")); err != nil {
		s.fail(w, r, err, "user")
		return
	}
	respondOK(w, nil, "password changed successfully")
}

// DeleteAccount handles DELETE /api/v1/users/delete-user.
func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.currentUserID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Users.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err, "user")
		return
	}
	s.clearSession(w)
	respondOK(w, nil, "account deleted")
}
