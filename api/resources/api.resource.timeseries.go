// FilePath: api/resources/api.resource.timeseries.go
package resources

import (
	stderrors "errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/srcfl/ems-dashboard/internal/emsservice"
	"github.com/srcfl/ems-dashboard/internal/errors"
	"github.com/srcfl/ems-dashboard/internal/models"
	"github.com/srcfl/ems-dashboard/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// TimeSeriesHandlers encapsulates the chart-data HTTP handlers
type TimeSeriesHandlers struct {
	emsservice *emsservice.EMSService
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// TimeSeriesResponse echoes the effective query alongside the data so the
// UI can label the chart without re-deriving defaults.
type TimeSeriesResponse struct {
	SiteID    string                   `json:"site_id"`
	DERType   string                   `json:"der_type,omitempty"`
	Field     string                   `json:"field"`
	Start     string                   `json:"start"`
	Aggregate string                   `json:"aggregate"`
	Data      []models.TimeSeriesPoint `json:"data"`
	Count     int                      `json:"count"`
}

// @Summary Get site time series
// @Description Get windowed time series data for a site, optionally filtered by DER type
// @Tags sites
// @Produce json
// @Param id path string true "Site ID"
// @Param der_type query string false "Filter by DER type (pv, battery, meter, ...)"
// @Param field query string false "Field to query (W, SoC_nom_fract, V, A, ...)"
// @Param start query string false "Start time (-1h, -24h, -7d)"
// @Param aggregate query string false "Aggregation window (1m, 5m, 1h)"
// @Success 200 {object} TimeSeriesResponse
// @Failure 400 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /sites/{id}/timeseries [get]
func (h *TimeSeriesHandlers) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	var query models.TimeSeriesQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}
	query.SiteID = vars["id"]
	query = h.emsservice.WithQueryDefaults(query)

	points, err := h.emsservice.GetTimeSeries(r.Context(), query)
	if err != nil {
		if stderrors.Is(err, repository.ErrInvalidInput) {
			respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewUpstreamError("failed to get time series", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, TimeSeriesResponse{
		SiteID:    query.SiteID,
		DERType:   query.DERType,
		Field:     query.Field,
		Start:     query.Start,
		Aggregate: query.Window,
		Data:      points,
		Count:     len(points),
	})
}
