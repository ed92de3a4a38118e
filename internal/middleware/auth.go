package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/auth"
)

// AccessCookie is the cookie carrying the access token.
const AccessCookie = "accessToken"

// AccessTokenParser verifies an access token and returns its subject.
// *auth.Tokens satisfies it.
type AccessTokenParser interface {
	ParseAccess(token string) (uuid.UUID, error)
}

// RequireAuth rejects requests without a valid access token, taken from the
// accessToken cookie or an "Authorization: Bearer" header. The user id is
// stored in the request context for auth.UserID. deny writes the rejection.
func RequireAuth(tokens AccessTokenParser, deny func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := tokens.ParseAccess(bearer(r))
			if err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), id)))
		})
	}
}

func bearer(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
