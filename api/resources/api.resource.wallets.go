// FilePath: api/resources/api.resource.wallets.go
package resources

import (
	stderrors "errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/srcfl/ems-dashboard/internal/emsservice"
	"github.com/srcfl/ems-dashboard/internal/errors"
	"github.com/srcfl/ems-dashboard/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// WalletHandlers encapsulates the ownership-lookup HTTP handlers
type WalletHandlers struct {
	emsservice *emsservice.EMSService
}

// WalletSitesResponse is the envelope for the wallet site list endpoint
type WalletSitesResponse struct {
	Wallet string   `json:"wallet"`
	Sites  []string `json:"sites"`
	Count  int      `json:"count"`
}

// SiteWalletResponse is the envelope for the site wallet lookup endpoint
type SiteWalletResponse struct {
	SiteID string `json:"site_id"`
	Wallet string `json:"wallet"`
}

// @Summary List wallet sites
// @Description Get all sites owned by a specific wallet address
// @Tags wallets
// @Produce json
// @Param walletId path string true "Wallet address"
// @Success 200 {object} WalletSitesResponse
// @Failure 502 {object} errors.APIError
// @Router /wallets/{walletId}/sites [get]
func (h *WalletHandlers) ListWalletSites(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	walletID := vars["walletId"]
	requestID := nuts.NID("req", 12)

	sites, err := h.emsservice.SitesForWallet(r.Context(), walletID)
	if err != nil {
		respondWithError(w, errors.NewUpstreamError("failed to list wallet sites", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, WalletSitesResponse{Wallet: walletID, Sites: sites, Count: len(sites)})
}

// @Summary Get site wallet
// @Description Get the wallet that owns a specific site
// @Tags wallets
// @Produce json
// @Param id path string true "Site ID"
// @Success 200 {object} SiteWalletResponse
// @Failure 404 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /sites/{id}/wallet [get]
func (h *WalletHandlers) GetSiteWallet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	requestID := nuts.NID("req", 12)

	wallet, err := h.emsservice.WalletForSite(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			respondWithError(w, errors.NewNotFoundError("site not found", err).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewUpstreamError("failed to get site wallet", err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, SiteWalletResponse{SiteID: id, Wallet: wallet})
}
