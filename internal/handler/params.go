package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trek-booking/internal/domain"
)

// pathID binds the {id} path parameter. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		badRequest(w, "invalid id format")
		return uuid.Nil, false
	}
	return id, true
}

// pagination binds the optional ?page= and ?limit= query parameters.
func pagination(w http.ResponseWriter, r *http.Request) (domain.PaginationParams, bool) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		badRequest(w, "page must be a whole number")
		return domain.PaginationParams{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		badRequest(w, "limit must be a whole number")
		return domain.PaginationParams{}, false
	}
	return domain.NewPaginationParams(page, limit), true
}

// pageInfo mirrors the pagination block of list responses.
type pageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// pagedList is the data of a paginated response.
type pagedList[T any] struct {
	Items      []T      `json:"items"`
	Pagination pageInfo `json:"pagination"`
}

func paged[T any](items []T, p domain.PaginationParams, total int64) pagedList[T] {
	if items == nil {
		items = []T{}
	}
	return pagedList[T]{Items: items, Pagination: pageInfo{Page: p.Page, Limit: p.Limit, Total: total, Pages: p.Pages(total)}}
}
