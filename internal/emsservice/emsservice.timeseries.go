// FilePath: internal/emsservice/emsservice.timeseries.go
package emsservice

import (
	"context"
	"sort"

	"github.com/srcfl/ems-dashboard/internal/models"
	"github.com/srcfl/ems-dashboard/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// ExtractSeries converts raw query rows into chart points: one point per
// row, sorted ascending by timestamp, stable with respect to input order
// on ties. Deduplication and gap filling are the store's concern.
func ExtractSeries(rows []models.RawRow) []models.TimeSeriesPoint {
	points := make([]models.TimeSeriesPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.TimeSeriesPoint{
			Timestamp:    row.Timestamp,
			Value:        row.Value,
			Type:         row.Type,
			DeviceSerial: row.DeviceSerial,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	return points
}

// WithQueryDefaults fills unset query parts with the configured defaults.
func (s *EMSService) WithQueryDefaults(q models.TimeSeriesQuery) models.TimeSeriesQuery {
	if q.Field == "" {
		q.Field = s.query.DefaultField
	}
	if q.Start == "" {
		q.Start = s.query.DefaultStart
	}
	if q.Window == "" {
		q.Window = s.query.DefaultWindow
	}
	return q
}

// GetTimeSeries fetches windowed samples for a site and extracts the
// ordered series. Unset query parts get the configured defaults. Zero
// matching rows yield an empty series, not an error.
func (s *EMSService) GetTimeSeries(ctx context.Context, q models.TimeSeriesQuery) ([]models.TimeSeriesPoint, error) {
	if q.SiteID == "" {
		return nil, repository.ErrInvalidInput
	}
	q = s.WithQueryDefaults(q)

	rows, err := s.DERData.GetTimeSeries(ctx, q)
	if err != nil {
		return nil, err
	}

	points := ExtractSeries(rows)
	nuts.L.Debugf("[EMSService] Site %s timeseries %s: %d points", q.SiteID, q.Field, len(points))
	s.events.Emit("site.timeseries.served", q.SiteID)
	return points, nil
}
