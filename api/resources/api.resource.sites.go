// FilePath: api/resources/api.resource.sites.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/srcfl/ems-dashboard/internal/emsservice"
	"github.com/srcfl/ems-dashboard/internal/errors"
	"github.com/srcfl/ems-dashboard/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SiteHandlers encapsulates the site-related HTTP handlers
type SiteHandlers struct {
	emsservice *emsservice.EMSService
}

// SiteListResponse is the envelope for the site list endpoint
type SiteListResponse struct {
	Sites []string `json:"sites"`
	Count int      `json:"count"`
}

// SiteDERsResponse is the envelope for the per-site DER endpoint
type SiteDERsResponse struct {
	SiteID string                `json:"site_id"`
	DERs   []*models.DERSnapshot `json:"ders"`
	Count  int                   `json:"count"`
}

// @Summary List sites
// @Description List all site IDs known to the telemetry store
// @Tags sites
// @Produce json
// @Success 200 {object} SiteListResponse
// @Failure 502 {object} errors.APIError
// @Router /sites [get]
func (h *SiteHandlers) ListSites(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	sites, err := h.emsservice.ListSites(r.Context())
	if err != nil {
		respondWithError(w, errors.NewUpstreamError("failed to list sites", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, SiteListResponse{Sites: sites, Count: len(sites)})
}

// @Summary Get site overview
// @Description Get a site's aggregated power/energy overview with all DERs
// @Tags sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} models.SiteOverview
// @Failure 404 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /sites/{id} [get]
func (h *SiteHandlers) GetSiteOverview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	overview, err := h.emsservice.GetSiteOverview(r.Context(), id)
	if err != nil {
		respondWithError(w, errors.NewUpstreamError("failed to get site overview", err).WithRequestID(requestID))
		return
	}
	// no DERs within the lookback window means the site is unknown
	if len(overview.DERs) == 0 {
		respondWithError(w, errors.NewNotFoundError("site not found or has no data", nil).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}

// @Summary Get site DERs
// @Description Get all DERs for a site with their latest metrics
// @Tags sites
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} SiteDERsResponse
// @Failure 404 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /sites/{id}/ders [get]
func (h *SiteHandlers) GetSiteDERs(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	ders, err := h.emsservice.GetSiteDERs(r.Context(), id)
	if err != nil {
		respondWithError(w, errors.NewUpstreamError("failed to get site DERs", err).WithRequestID(requestID))
		return
	}
	if len(ders) == 0 {
		respondWithError(w, errors.NewNotFoundError("site not found or has no DERs", nil).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, SiteDERsResponse{SiteID: id, DERs: ders, Count: len(ders)})
}

// Helper functions

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
