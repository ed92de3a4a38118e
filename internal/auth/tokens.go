// Package auth issues and verifies the JWTs used for cookie-based sessions
// and hashes user passwords. It knows nothing about HTTP or storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/domain"
)

const issuer = "trek-booking"

// Token kinds, carried in the "typ" claim so an access token can never be
// replayed as a refresh token and vice versa.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

type claims struct {
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

// Tokens signs access and refresh tokens with separate HMAC secrets.
type Tokens struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokens constructs a Tokens. Both secrets must be non-empty.
func NewTokens(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Tokens, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("auth.NewTokens: secrets must not be empty")
	}
	return &Tokens{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// AccessTTL is the lifetime of issued access tokens, used for cookie MaxAge.
func (t *Tokens) AccessTTL() time.Duration { return t.accessTTL }

// RefreshTTL is the lifetime of issued refresh tokens.
func (t *Tokens) RefreshTTL() time.Duration { return t.refreshTTL }

// Issue returns a fresh access/refresh pair for userID.
func (t *Tokens) Issue(userID uuid.UUID) (domain.TokenPair, error) {
	access, err := t.sign(userID, kindAccess, t.accessTTL, t.accessSecret)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("auth.Tokens.Issue: access: %w", err)
	}
	refresh, err := t.sign(userID, kindRefresh, t.refreshTTL, t.refreshSecret)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("auth.Tokens.Issue: refresh: %w", err)
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess verifies an access token and returns its subject.
// Any failure is reported as domain.ErrUnauthorized.
func (t *Tokens) ParseAccess(token string) (uuid.UUID, error) {
	return t.parse(token, kindAccess, t.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its subject.
func (t *Tokens) ParseRefresh(token string) (uuid.UUID, error) {
	return t.parse(token, kindRefresh, t.refreshSecret)
}

func (t *Tokens) sign(userID uuid.UUID, kind string, ttl time.Duration, secret []byte) (string, error) {
	now := t.now()
	c := claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// A unique ID keeps two pairs issued within the same second distinct,
			// which refresh rotation relies on.
			ID: uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
}

func (t *Tokens) parse(token, kind string, secret []byte) (uuid.UUID, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if c.Kind != kind {
		return uuid.Nil, fmt.Errorf("%w: wrong token type", domain.ErrUnauthorized)
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	return id, nil
}

type ctxKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user's id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID returns the authenticated user's id placed by WithUserID.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
