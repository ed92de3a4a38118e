package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trek-booking/internal/handler"
)

// validToken is the only access token stubTokens accepts.
const validToken = "good-token"

var adminID = uuid.MustParse("5d1c3bcb-8d0e-4f36-9a43-3f8f5d7b8a10")

type stubTokens struct{}

func (stubTokens) ParseAccess(token string) (uuid.UUID, error) {
	if token != validToken {
		return uuid.Nil, errors.New("bad token")
	}
	return adminID, nil
}

// response mirrors the envelope every handler writes.
type response struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func newRouter(svc handler.Services) http.Handler {
	return handler.NewServer(svc, handler.Options{}).Routes(stubTokens{})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// authed marks req as coming from a logged-in admin.
func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+validToken)
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var body response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, rec.Code, body.StatusCode)
	require.NotNil(t, body.Errors)
	return body
}

func decodeData(t *testing.T, body response, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Data, into))
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
