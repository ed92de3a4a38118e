package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/handler"
	"github.com/pkordes/trek-booking/internal/service"
)

// ---- mock UserServicer -----------------------------------------------------

type mockUserServicer struct {
	register       func(ctx context.Context, in service.RegisterInput) (domain.User, error)
	login          func(ctx context.Context, username, password string) (domain.User, domain.TokenPair, error)
	logout         func(ctx context.Context, id uuid.UUID) error
	refresh        func(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	current        func(ctx context.Context, id uuid.UUID) (domain.User, error)
	updateAccount  func(ctx context.Context, id uuid.UUID, fullName, username string) (domain.User, error)
	changePassword func(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
	delete         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserServicer) Register(ctx context.Context, in service.RegisterInput) (domain.User, error) {
	return m.register(ctx, in)
}

func (m *mockUserServicer) Login(ctx context.Context, username, password string) (domain.User, domain.TokenPair, error) {
	return m.login(ctx, username, password)
}

func (m *mockUserServicer) Logout(ctx context.Context, id uuid.UUID) error {
	return m.logout(ctx, id)
}

func (m *mockUserServicer) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	return m.refresh(ctx, refreshToken)
}

func (m *mockUserServicer) Current(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.current(ctx, id)
}

func (m *mockUserServicer) UpdateAccount(ctx context.Context, id uuid.UUID, fullName, username string) (domain.User, error) {
	return m.updateAccount(ctx, id, fullName, username)
}

func (m *mockUserServicer) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	return m.changePassword(ctx, id, oldPassword, newPassword)
}

func (m *mockUserServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

func userRouter(svc handler.UserServicer, secure bool) http.Handler {
	opts := handler.Options{CookieSecure: secure, AccessTTL: 15 * time.Minute, RefreshTTL: 240 * time.Hour}
	return handler.NewServer(handler.Services{Users: svc}, opts).Routes(stubTokens{})
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ---- register / login ------------------------------------------------------

func TestRegister_hidesSecrets(t *testing.T) {
	svc := &mockUserServicer{register: func(_ context.Context, in service.RegisterInput) (domain.User, error) {
		return domain.User{ID: uuid.New(), FullName: in.FullName, Username: in.Username, PasswordHash: "$2a$hash", RefreshToken: "rt"}, nil
	}}
	req := jsonRequest(http.MethodPost, "/api/v1/users/register", `{"fullName":"Admin","username":"admin","password":"long-enough"}`)
	rec := serve(userRouter(svc, false), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	raw := rec.Body.String()
	assert.NotContains(t, raw, "$2a$hash")
	assert.NotContains(t, raw, `"rt"`)
	assert.Contains(t, raw, `"username":"admin"`)
}

func TestRegister_conflict(t *testing.T) {
	svc := &mockUserServicer{register: func(context.Context, service.RegisterInput) (domain.User, error) {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", domain.ErrConflict)
	}}
	rec := serve(userRouter(svc, false), jsonRequest(http.MethodPost, "/api/v1/users/register", `{"username":"admin"}`))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already exists", decode(t, rec).Message)
}

func TestLogin_setsCookies(t *testing.T) {
	svc := &mockUserServicer{login: func(_ context.Context, username, password string) (domain.User, domain.TokenPair, error) {
		require.Equal(t, "admin", username)
		require.Equal(t, "secret-pass", password)
		return domain.User{ID: adminID, Username: "admin"}, domain.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil
	}}
	rec := serve(userRouter(svc, false), jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"admin","password":"secret-pass"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	access := cookieNamed(rec, "accessToken")
	require.NotNil(t, access)
	assert.Equal(t, "at", access.Value)
	assert.True(t, access.HttpOnly)
	assert.False(t, access.Secure)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, 900, access.MaxAge)

	refresh := cookieNamed(rec, "refreshToken")
	require.NotNil(t, refresh)
	assert.Equal(t, "rt", refresh.Value)
	assert.Equal(t, 240*3600, refresh.MaxAge)

	var data struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	decodeData(t, decode(t, rec), &data)
	assert.Equal(t, adminID, data.User.ID)
	assert.Equal(t, "at", data.AccessToken)
}

func TestLogin_secureCookies(t *testing.T) {
	svc := &mockUserServicer{login: func(context.Context, string, string) (domain.User, domain.TokenPair, error) {
		return domain.User{}, domain.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil
	}}
	rec := serve(userRouter(svc, true), jsonRequest(http.MethodPost, "/api/v1/users/login", `{}`))

	access := cookieNamed(rec, "accessToken")
	require.NotNil(t, access)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteNoneMode, access.SameSite)
}

func TestLogin_badCredentials(t *testing.T) {
	svc := &mockUserServicer{login: func(context.Context, string, string) (domain.User, domain.TokenPair, error) {
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("service.UserService.Login: %w", domain.ErrUnauthorized)
	}}
	rec := serve(userRouter(svc, false), jsonRequest(http.MethodPost, "/api/v1/users/login", `{"username":"x","password":"y"}`))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, cookieNamed(rec, "accessToken"))
}

// ---- refresh ---------------------------------------------------------------

func TestRefresh_fromCookie(t *testing.T) {
	var got string
	svc := &mockUserServicer{refresh: func(_ context.Context, token string) (domain.TokenPair, error) {
		got = token
		return domain.TokenPair{AccessToken: "at2", RefreshToken: "rt2"}, nil
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "rt1"})
	rec := serve(userRouter(svc, false), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rt1", got)
	require.NotNil(t, cookieNamed(rec, "refreshToken"))
	assert.Equal(t, "rt2", cookieNamed(rec, "refreshToken").Value)
}

func TestRefresh_fromBody(t *testing.T) {
	var got string
	svc := &mockUserServicer{refresh: func(_ context.Context, token string) (domain.TokenPair, error) {
		got = token
		return domain.TokenPair{AccessToken: "at2", RefreshToken: "rt2"}, nil
	}}
	rec := serve(userRouter(svc, false), jsonRequest(http.MethodPost, "/api/v1/users/refresh-token", `{"refreshToken":"rt1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rt1", got)
}

func TestRefresh_missingToken(t *testing.T) {
	rec := serve(userRouter(&mockUserServicer{}, false), httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "refresh token is required", decode(t, rec).Message)
}

// ---- authenticated account routes ------------------------------------------

func TestCurrentUser_usesTokenSubject(t *testing.T) {
	var got uuid.UUID
	svc := &mockUserServicer{current: func(_ context.Context, id uuid.UUID) (domain.User, error) {
		got = id
		return domain.User{ID: id, Username: "admin"}, nil
	}}
	rec := serve(userRouter(svc, false), authed(httptest.NewRequest(http.MethodGet, "/api/v1/users/currentuser", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminID, got)
}

func TestCurrentUser_unauthenticated(t *testing.T) {
	rec := serve(userRouter(&mockUserServicer{}, false), httptest.NewRequest(http.MethodGet, "/api/v1/users/currentuser", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestLogout_clearsCookies(t *testing.T) {
	var got uuid.UUID
	svc := &mockUserServicer{logout: func(_ context.Context, id uuid.UUID) error {
		got = id
		return nil
	}}
	rec := serve(userRouter(svc, false), authed(httptest.NewRequest(http.MethodPost, "/api/v1/users/logout", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminID, got)
	for _, name := range []string{"accessToken", "refreshToken"} {
		c := cookieNamed(rec, name)
		require.NotNil(t, c, name)
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestChangePassword_fields(t *testing.T) {
	var oldPw, newPw string
	svc := &mockUserServicer{changePassword: func(_ context.Context, _ uuid.UUID, o, n string) error {
		oldPw, newPw = o, n
		return nil
	}}
	req := jsonRequest(http.MethodPatch, "/api/v1/users/change-password", `{"oldPassword":"a","newPassword":"b"}`)
	rec := serve(userRouter(svc, false), authed(req))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a", oldPw)
	assert.Equal(t, "b", newPw)
}

func TestUpdateAccount_conflict(t *testing.T) {
	svc := &mockUserServicer{updateAccount: func(context.Context, uuid.UUID, string, string) (domain.User, error) {
		return domain.User{}, domain.ErrConflict
	}}
	req := jsonRequest(http.MethodPatch, "/api/v1/users/edit-user", `{"username":"taken"}`)
	rec := serve(userRouter(svc, false), authed(req))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteAccount_clearsSession(t *testing.T) {
	svc := &mockUserServicer{delete: func(context.Context, uuid.UUID) error { return nil }}
	rec := serve(userRouter(svc, false), authed(httptest.NewRequest(http.MethodDelete, "/api/v1/users/delete-user", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	c := cookieNamed(rec, "accessToken")
	require.NotNil(t, c)
	assert.Negative(t, c.MaxAge)
}
