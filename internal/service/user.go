package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trek-booking/internal/auth"
	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/repo"
)

const minPasswordLen = 8

// TokenIssuer issues and verifies session tokens. *auth.Tokens satisfies it.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (domain.TokenPair, error)
	ParseRefresh(token string) (uuid.UUID, error)
}

// RegisterInput is a new admin account.
type RegisterInput struct {
	FullName string
	Username string
	Password string
}

// UserService implements account management and session issuance.
type UserService struct {
	repo   repo.UserRepo
	tokens TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(r repo.UserRepo, tokens TokenIssuer) *UserService {
	return &UserService{repo: r, tokens: tokens}
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register creates an account. Usernames are stored lower-case and must be unique.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	var p problems
	p.required("fullName", in.FullName)
	p.required("username", in.Username)
	if len(in.Password) < minPasswordLen {
		p.add("password must be at least %d characters", minPasswordLen)
	}
	if err := p.result(); err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	username := normalizeUsername(in.Username)
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w: username taken", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	u, err := s.repo.Create(ctx, domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Register: %w", err)
	}
	return u, nil
}

// Login verifies credentials and starts a session. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, domain.TokenPair, error) {
	u, err := s.repo.GetByUsername(ctx, normalizeUsername(username))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("service.UserService.Login: %w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("service.UserService.Login: %w: invalid credentials", domain.ErrUnauthorized)
	}

	pair, err := s.startSession(ctx, u.ID)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("service.UserService.Login: %w", err)
	}
	return u, pair, nil
}

func (s *UserService) startSession(ctx context.Context, id uuid.UUID) (domain.TokenPair, error) {
	pair, err := s.tokens.Issue(id)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.repo.SetRefreshToken(ctx, id, pair.RefreshToken); err != nil {
		return domain.TokenPair{}, err
	}
	return pair, nil
}

// Logout revokes the stored refresh token.
func (s *UserService) Logout(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetRefreshToken(ctx, id, ""); err != nil {
		return fmt.Errorf("service.UserService.Logout: %w", err)
	}
	return nil
}

// Refresh exchanges a valid refresh token for a new pair. The presented token
// must be the one currently stored; the stored token is rotated.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	id, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w", err)
	}
	u, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w: unknown user", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w", err)
	}
	if u.RefreshToken == "" || u.RefreshToken != refreshToken {
		return domain.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w: refresh token revoked or reused", domain.ErrUnauthorized)
	}

	pair, err := s.startSession(ctx, u.ID)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("service.UserService.Refresh: %w", err)
	}
	return pair, nil
}

// Current returns the signed-in user.
func (s *UserService) Current(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Current: %w", err)
	}
	return u, nil
}

// UpdateAccount changes full name and/or username; blank values are ignored.
func (s *UserService) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, username string) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.UpdateAccount: %w", err)
	}
	setString(&u.FullName, fullName)
	if n := normalizeUsername(username); n != "" {
		u.Username = n
	}

	updated, err := s.repo.Update(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.UpdateAccount: %w", err)
	}
	return updated, nil
}

// ChangePassword replaces the password after checking the old one.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.UserService.ChangePassword: %w", err)
	}

	var p problems
	if !auth.CheckPassword(u.PasswordHash, oldPassword) {
		p.add("old password is incorrect")
	}
	if len(newPassword) < minPasswordLen {
		p.add("password must be at least %d characters", minPasswordLen)
	}
	if err := p.result(); err != nil {
		return fmt.Errorf("service.UserService.ChangePassword: %w", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("service.UserService.ChangePassword: %w", err)
	}
	u.PasswordHash = hash
	if _, err := s.repo.Update(ctx, u); err != nil {
		return fmt.Errorf("service.UserService.ChangePassword: %w", err)
	}
	return nil
}

// Delete removes the account.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	return nil
}
