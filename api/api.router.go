package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/srcfl/ems-dashboard/api/resources"
	"github.com/srcfl/ems-dashboard/internal/emsservice"
)

type Router struct {
	router    *mux.Router
	cors      func(http.Handler) http.Handler
	resources *resources.Resources
}

// NewRouter builds the dashboard API surface. allowedOrigins feeds the
// CORS layer the browser frontend depends on.
func NewRouter(svc *emsservice.EMSService, allowedOrigins []string) *Router {
	r := &Router{
		router: mux.NewRouter(),
		cors: handlers.CORS(
			handlers.AllowedOrigins(allowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
			handlers.AllowCredentials(),
		),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health
	api.HandleFunc("/health", r.handleHealth).Methods(http.MethodGet)

	// Sites
	sites := api.PathPrefix("/sites").Subrouter()
	sites.HandleFunc("", r.resources.Sites.ListSites).Methods(http.MethodGet)
	sites.HandleFunc("/{id}", r.resources.Sites.GetSiteOverview).Methods(http.MethodGet)
	sites.HandleFunc("/{id}/ders", r.resources.Sites.GetSiteDERs).Methods(http.MethodGet)
	sites.HandleFunc("/{id}/timeseries", r.resources.TimeSeries.GetTimeSeries).Methods(http.MethodGet)
	sites.HandleFunc("/{id}/wallet", r.resources.Wallets.GetSiteWallet).Methods(http.MethodGet)

	// Wallets
	wallets := api.PathPrefix("/wallets").Subrouter()
	wallets.HandleFunc("/{walletId}/sites", r.resources.Wallets.ListWalletSites).Methods(http.MethodGet)
}

// SetHealthCheck overrides the default health handler.
func (r *Router) SetHealthCheck(h http.HandlerFunc) {
	r.resources.SetHealthCheck(h)
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if r.resources.HealthCheck != nil {
		r.resources.HealthCheck(w, req)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.cors(r.router).ServeHTTP(w, req)
}
