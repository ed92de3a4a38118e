package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/flexlist"
	"github.com/pkordes/trek-booking/internal/handler"
	"github.com/pkordes/trek-booking/internal/service"
)

// ---- mock TrekServicer -----------------------------------------------------

type mockTrekServicer struct {
	create     func(ctx context.Context, in service.CreateTrekInput) (domain.Trek, error)
	addDate    func(ctx context.Context, trekID uuid.UUID, in service.DateInput) (domain.TrekDate, error)
	update     func(ctx context.Context, trekID uuid.UUID, in service.PatchTrekInput) (domain.Trek, error)
	updateDate func(ctx context.Context, dateID uuid.UUID, in service.DateInput) (domain.TrekDate, error)
	delete     func(ctx context.Context, trekID uuid.UUID) error
	deleteDate func(ctx context.Context, dateID uuid.UUID) error
}

func (m *mockTrekServicer) Create(ctx context.Context, in service.CreateTrekInput) (domain.Trek, error) {
	return m.create(ctx, in)
}

func (m *mockTrekServicer) AddDate(ctx context.Context, trekID uuid.UUID, in service.DateInput) (domain.TrekDate, error) {
	return m.addDate(ctx, trekID, in)
}

func (m *mockTrekServicer) Update(ctx context.Context, trekID uuid.UUID, in service.PatchTrekInput) (domain.Trek, error) {
	return m.update(ctx, trekID, in)
}

func (m *mockTrekServicer) UpdateDate(ctx context.Context, dateID uuid.UUID, in service.DateInput) (domain.TrekDate, error) {
	return m.updateDate(ctx, dateID, in)
}

func (m *mockTrekServicer) Delete(ctx context.Context, trekID uuid.UUID) error {
	return m.delete(ctx, trekID)
}

func (m *mockTrekServicer) DeleteDate(ctx context.Context, dateID uuid.UUID) error {
	return m.deleteDate(ctx, dateID)
}

var _ handler.TrekServicer = (*mockTrekServicer)(nil)

// ---- multipart helper ------------------------------------------------------

type upload struct {
	field, name, contentType string
	data                     []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string][]string, files ...upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n0000")

func trekRouter(svc handler.TrekServicer) http.Handler {
	return newRouter(handler.Services{Treks: svc})
}

func decodeStrings(t *testing.T, field string, v flexlist.Value) []string {
	t.Helper()
	res := flexlist.Decode[string](field, v)
	require.NoError(t, res.Err)
	return res.Items
}

// ---- create ----------------------------------------------------------------

func TestCreateTrek_multipart(t *testing.T) {
	var got service.CreateTrekInput
	svc := &mockTrekServicer{create: func(_ context.Context, in service.CreateTrekInput) (domain.Trek, error) {
		got = in
		return domain.Trek{ID: uuid.New(), Name: in.Name, Images: []string{"https://cdn.test/a.png"}}, nil
	}}

	req := multipartRequest(t, http.MethodPost, "/api/v1/trek/create-trek", map[string][]string{
		"trekName":       {"Hampta Pass"},
		"trekDifficulty": {"Moderate"},
		"altitude":       {"4270"},
		"trekInfo":       {"a", "b"},
		"trekHighlights": {`["lake","pass"]`},
		"startDate":      {"2025-06-01"},
		"endDate":        {"2025-06-05"},
		"withTravel":     {`[{"description":"from Delhi","price":15000}]`},
	},
		upload{field: "trekImage", name: "a.png", data: pngBytes},
		upload{field: "trekImage", name: "b.jpg", contentType: "image/jpeg", data: []byte("jpeg")},
	)
	rec := serve(trekRouter(svc), authed(req))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "trek created successfully", body.Message)

	assert.Equal(t, "Hampta Pass", got.Name)
	assert.Equal(t, "Moderate", got.Difficulty)
	assert.Equal(t, "4270", got.Altitude)
	assert.Equal(t, "2025-06-01", got.Date.StartDate)
	assert.Equal(t, []string{"a", "b"}, decodeStrings(t, "trekInfo", got.Info))
	assert.Equal(t, []string{"lake", "pass"}, decodeStrings(t, "trekHighlights", got.Highlights))
	assert.True(t, got.Date.WithTravel.IsSet())
	assert.False(t, got.Date.Schedule.IsSet())

	require.Len(t, got.Images, 2)
	assert.Equal(t, "a.png", got.Images[0].Filename)
	assert.Equal(t, "image/png", got.Images[0].ContentType)
	assert.Equal(t, "image/jpeg", got.Images[1].ContentType)
}

func TestCreateTrek_json(t *testing.T) {
	var got service.CreateTrekInput
	svc := &mockTrekServicer{create: func(_ context.Context, in service.CreateTrekInput) (domain.Trek, error) {
		got = in
		return domain.Trek{ID: uuid.New()}, nil
	}}

	req := jsonRequest(http.MethodPost, "/api/v1/trek/create-trek",
		`{"trekName":"Kedarkantha","altitude":3800,"trekInfo":["x"],"scheduleTimeline":"[{\"day\":\"1\",\"time\":\"6am\",\"work\":\"climb\"}]"}`)
	rec := serve(trekRouter(svc), authed(req))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Kedarkantha", got.Name)
	assert.Equal(t, "3800", got.Altitude)
	assert.Equal(t, []string{"x"}, decodeStrings(t, "trekInfo", got.Info))
	assert.True(t, got.Date.Schedule.IsSet())
	assert.Empty(t, got.Images)
}

func TestCreateTrek_tooManyImages(t *testing.T) {
	svc := &mockTrekServicer{create: func(context.Context, service.CreateTrekInput) (domain.Trek, error) {
		t.Fatal("service must not be called")
		return domain.Trek{}, nil
	}}
	files := make([]upload, 7)
	for i := range files {
		files[i] = upload{field: "trekImage", name: fmt.Sprintf("%d.png", i), data: pngBytes}
	}
	req := multipartRequest(t, http.MethodPost, "/api/v1/trek/create-trek", nil, files...)
	rec := serve(trekRouter(svc), authed(req))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "at most 6")
}

func TestCreateTrek_validationProblems(t *testing.T) {
	svc := &mockTrekServicer{create: func(context.Context, service.CreateTrekInput) (domain.Trek, error) {
		return domain.Trek{}, fmt.Errorf("service.TrekService.Create: %w",
			domain.NewValidationError([]string{"trekName is required", "startDate is required"}))
	}}
	rec := serve(trekRouter(svc), authed(jsonRequest(http.MethodPost, "/api/v1/trek/create-trek", `{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "validation failed", body.Message)
	assert.Equal(t, []string{"trekName is required", "startDate is required"}, body.Errors)
}

func TestCreateTrek_uploadFailure(t *testing.T) {
	svc := &mockTrekServicer{create: func(context.Context, service.CreateTrekInput) (domain.Trek, error) {
		return domain.Trek{}, fmt.Errorf("service.TrekService.Create: %w: a.png: timeout", domain.ErrUpload)
	}}
	rec := serve(trekRouter(svc), authed(jsonRequest(http.MethodPost, "/api/v1/trek/create-trek", `{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "image upload failed", body.Message)
	assert.Equal(t, []string{"a.png: timeout"}, body.Errors)
}

func TestCreateTrek_malformedJSON(t *testing.T) {
	rec := serve(trekRouter(&mockTrekServicer{}), authed(jsonRequest(http.MethodPost, "/api/v1/trek/create-trek", `[1,2`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body must be a JSON object", decode(t, rec).Message)
}

func TestTrekWrites_requireAuth(t *testing.T) {
	id := uuid.New().String()
	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/trek/create-trek"},
		{http.MethodPost, "/api/v1/trek/add-new-date/" + id},
		{http.MethodPatch, "/api/v1/trek/edit-trek/" + id},
		{http.MethodPatch, "/api/v1/trek/edit-date-details/" + id},
		{http.MethodDelete, "/api/v1/trek/delete-trek/" + id},
		{http.MethodDelete, "/api/v1/trek/delete-date/" + id},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := jsonRequest(tc.method, tc.path, `{}`)
			req.AddCookie(&http.Cookie{Name: "accessToken", Value: "forged"})
			rec := serve(trekRouter(&mockTrekServicer{}), req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCreateTrek_cookieAuth(t *testing.T) {
	svc := &mockTrekServicer{create: func(context.Context, service.CreateTrekInput) (domain.Trek, error) {
		return domain.Trek{ID: uuid.New()}, nil
	}}
	req := jsonRequest(http.MethodPost, "/api/v1/trek/create-trek", `{}`)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: validToken})

	assert.Equal(t, http.StatusCreated, serve(trekRouter(svc), req).Code)
}

// ---- dates -----------------------------------------------------------------

func TestAddTrekDate_passesTrekID(t *testing.T) {
	trekID := uuid.New()
	var gotID uuid.UUID
	var got service.DateInput
	svc := &mockTrekServicer{addDate: func(_ context.Context, id uuid.UUID, in service.DateInput) (domain.TrekDate, error) {
		gotID, got = id, in
		return domain.TrekDate{ID: uuid.New(), StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}, nil
	}}

	req := jsonRequest(http.MethodPost, "/api/v1/trek/add-new-date/"+trekID.String(),
		`{"startDate":"2025-06-01","endDate":"2025-06-04","withoutTravel":[{"price":9000}]}`)
	rec := serve(trekRouter(svc), authed(req))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, trekID, gotID)
	assert.Equal(t, "2025-06-04", got.EndDate)
	assert.True(t, got.WithoutTravel.IsSet())
	assert.False(t, got.WithTravel.IsSet())
}

func TestAddTrekDate_unknownTrek(t *testing.T) {
	svc := &mockTrekServicer{addDate: func(context.Context, uuid.UUID, service.DateInput) (domain.TrekDate, error) {
		return domain.TrekDate{}, fmt.Errorf("service.TrekService.AddDate: %w", domain.ErrNotFound)
	}}
	rec := serve(trekRouter(svc), authed(jsonRequest(http.MethodPost, "/api/v1/trek/add-new-date/"+uuid.NewString(), `{}`)))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trek not found", decode(t, rec).Message)
}

func TestAddTrekDate_invalidID(t *testing.T) {
	rec := serve(trekRouter(&mockTrekServicer{}), authed(jsonRequest(http.MethodPost, "/api/v1/trek/add-new-date/not-a-uuid", `{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id format", decode(t, rec).Message)
}

func TestUpdateTrekDate_notFound(t *testing.T) {
	svc := &mockTrekServicer{updateDate: func(context.Context, uuid.UUID, service.DateInput) (domain.TrekDate, error) {
		return domain.TrekDate{}, domain.ErrNotFound
	}}
	rec := serve(trekRouter(svc), authed(jsonRequest(http.MethodPatch, "/api/v1/trek/edit-date-details/"+uuid.NewString(), `{"endDate":"2025-07-01"}`)))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trek date not found", decode(t, rec).Message)
}

func TestUpdateTrekDate_singleValidationMessage(t *testing.T) {
	svc := &mockTrekServicer{updateDate: func(context.Context, uuid.UUID, service.DateInput) (domain.TrekDate, error) {
		return domain.TrekDate{}, fmt.Errorf("service.TrekService.UpdateDate: %w: endDate must not be before startDate", domain.ErrValidation)
	}}
	rec := serve(trekRouter(svc), authed(jsonRequest(http.MethodPatch, "/api/v1/trek/edit-date-details/"+uuid.NewString(), `{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "endDate must not be before startDate", body.Message)
	assert.Equal(t, []string{"endDate must not be before startDate"}, body.Errors)
}

// ---- update / delete -------------------------------------------------------

func TestUpdateTrek_urlencoded(t *testing.T) {
	var got service.PatchTrekInput
	svc := &mockTrekServicer{update: func(_ context.Context, _ uuid.UUID, in service.PatchTrekInput) (domain.Trek, error) {
		got = in
		return domain.Trek{Title: in.Title}, nil
	}}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/trek/edit-trek/"+uuid.NewString(),
		strings.NewReader("trekTitle=New+title&trekInclusions[]=meals&trekInclusions[]=tents"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(trekRouter(svc), authed(req))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New title", got.Title)
	assert.Empty(t, got.Name)
	assert.Equal(t, []string{"meals", "tents"}, decodeStrings(t, "trekInclusions", got.Inclusions))
	assert.Empty(t, got.Images)
}

func TestUpdateTrek_singleBracketedValue(t *testing.T) {
	var got service.PatchTrekInput
	svc := &mockTrekServicer{update: func(_ context.Context, _ uuid.UUID, in service.PatchTrekInput) (domain.Trek, error) {
		got = in
		return domain.Trek{}, nil
	}}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/trek/edit-trek/"+uuid.NewString(),
		strings.NewReader("trekInfo[]=only+one&trekInclusions=%5B%22meals%22%5D"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(trekRouter(svc), authed(req))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"only one"}, decodeStrings(t, "trekInfo", got.Info))
	assert.Equal(t, []string{"meals"}, decodeStrings(t, "trekInclusions", got.Inclusions))
}

func TestDeleteTrek_returnsID(t *testing.T) {
	id := uuid.New()
	var gotID uuid.UUID
	svc := &mockTrekServicer{delete: func(_ context.Context, trekID uuid.UUID) error {
		gotID = trekID
		return nil
	}}
	rec := serve(trekRouter(svc), authed(httptest.NewRequest(http.MethodDelete, "/api/v1/trek/delete-trek/"+id.String(), nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, gotID)
	var data map[string]string
	decodeData(t, decode(t, rec), &data)
	assert.Equal(t, id.String(), data["id"])
}

func TestDeleteTrek_notFound(t *testing.T) {
	svc := &mockTrekServicer{delete: func(context.Context, uuid.UUID) error {
		return fmt.Errorf("service.TrekService.Delete: %w", domain.ErrNotFound)
	}}
	rec := serve(trekRouter(svc), authed(httptest.NewRequest(http.MethodDelete, "/api/v1/trek/delete-trek/"+uuid.NewString(), nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTrekDate_storeFailure(t *testing.T) {
	svc := &mockTrekServicer{deleteDate: func(context.Context, uuid.UUID) error {
		return fmt.Errorf("connection reset")
	}}
	rec := serve(trekRouter(svc), authed(httptest.NewRequest(http.MethodDelete, "/api/v1/trek/delete-date/"+uuid.NewString(), nil)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTrekRoutes_absentWithoutService(t *testing.T) {
	rec := serve(newRouter(handler.Services{}), authed(jsonRequest(http.MethodPost, "/api/v1/trek/create-trek", `{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
