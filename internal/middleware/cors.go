// Package middleware provides reusable HTTP middleware for the trek booking API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler lets the public site and the admin panel call the API from
// their own origins. Each entry in allowedOrigins is a full origin (scheme +
// host, no trailing slash). Credentials are allowed so the session cookies
// travel, and Content-Disposition is exposed for the CSV export download.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}
