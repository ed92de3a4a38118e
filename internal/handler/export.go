package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/trek-booking/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trek_id", "trek_name", "location", "difficulty", "trek_type",
	"date_id", "start_date", "end_date", "days", "price", "images",
}

// GetExport handles GET /api/v1/trek/export.
// It returns one row per trek date. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "" && format != "csv" && format != "json" {
		badRequest(w, "format must be csv or json")
		return
	}

	rows, err := s.svc.Export.Export(r.Context())
	if err != nil {
		s.fail(w, r, err, "trek")
		return
	}

	if format == "csv" {
		body := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="treks.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = body.WriteTo(w)
		return
	}
	respondOK(w, rows, "export generated")
}

// buildCSV encodes rows as CSV. Image URLs within a row are pipe-separated
// ("|") to keep each date on a single CSV line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(r))
	}
	cw.Flush()
	return &buf
}

// rowToCSVRecord flattens one ExportRow. A nil day count is written as "".
func rowToCSVRecord(r domain.ExportRow) []string {
	days := ""
	if r.Days != nil {
		days = strconv.FormatFloat(*r.Days, 'f', -1, 64)
	}
	return []string{
		r.TrekID,
		r.TrekName,
		r.Location,
		r.Difficulty,
		r.TrekType,
		r.DateID,
		r.StartDate,
		r.EndDate,
		days,
		strconv.FormatFloat(r.Price, 'f', -1, 64),
		strings.Join(r.Images, "|"),
	}
}
