// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/srcfl/ems-dashboard/internal/emsservice"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Sites       *SiteHandlers
	Wallets     *WalletHandlers
	TimeSeries  *TimeSeriesHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance
func NewResources(svc *emsservice.EMSService) *Resources {
	return &Resources{
		Sites:      &SiteHandlers{emsservice: svc},
		Wallets:    &WalletHandlers{emsservice: svc},
		TimeSeries: &TimeSeriesHandlers{emsservice: svc},
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}
