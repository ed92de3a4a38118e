package service

import (
	"context"
	"fmt"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/repo"
)

const exportDateLayout = "2006-01-02"

// ExportService assembles a flat export of every trek and date for admin spreadsheets.
type ExportService struct {
	views repo.Snapshot
}

// NewExportService constructs an ExportService reading through views.
func NewExportService(views repo.Snapshot) *ExportService {
	return &ExportService{views: views}
}

// Export returns one ExportRow per trek date, treks in creation order and
// dates in trek order. Treks with no dates contribute one row with empty date fields.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	var (
		treks []domain.Trek
		g     graph
	)
	err := s.views.View(ctx, func(st repo.Stores) error {
		var err error
		if treks, err = st.Treks.List(ctx, repo.TrekFilter{}); err != nil {
			return err
		}
		g, err = loadGraph(ctx, st, treks)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ExportRow{}
	for _, t := range treks {
		tt, _ := g.typeOf(t)
		base := domain.ExportRow{
			TrekID:     t.ID.String(),
			TrekName:   t.Name,
			Location:   t.Location,
			Difficulty: string(t.Difficulty),
			TrekType:   tt.Name,
			Images:     t.Images,
		}
		dates := g.datesOf(t)
		if len(dates) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, d := range dates {
			row := base
			days := d.DayCount()
			price, _ := g.priceOf(d)
			row.DateID = d.ID.String()
			row.StartDate = d.StartDate.UTC().Format(exportDateLayout)
			row.EndDate = d.EndDate.UTC().Format(exportDateLayout)
			row.Days = &days
			row.Price = price.Headline()
			rows = append(rows, row)
		}
	}
	return rows, nil
}
