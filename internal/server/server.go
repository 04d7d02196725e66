// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srcfl/ems-dashboard/api"
	"github.com/srcfl/ems-dashboard/internal/config"
	"github.com/srcfl/ems-dashboard/internal/database"
	"github.com/srcfl/ems-dashboard/internal/emsservice"
	"github.com/srcfl/ems-dashboard/internal/monitoring"
	"github.com/srcfl/ems-dashboard/internal/repository/influx"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	db         database.DB
	emsservice *emsservice.EMSService
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config: cfg,
		srv:    srv,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.emsservice = s.initializeEMSService()
	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Monitoring.LogLevel,
	})

	// Set up request event handlers
	s.setupEventHandlers()

	// Setup routes
	router := api.NewRouter(s.emsservice, s.config.CORS.AllowedOrigins)
	router.SetHealthCheck(s.handleHealth())
	s.srv.Handler = router

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// handleHealth returns a health check handler that verifies the store is
// reachable.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			nuts.L.Warnf("[Server] Health check failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","version":"` + nuts.GetVersion() + `"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
	}
}

func (s *Server) setupEventHandlers() {
	// Record served dashboard requests per site
	s.emsservice.OnServed("site.overview.served", func(id string) {
		s.monitoring.RecordEvent("site_overview", map[string]string{
			"site_id": id,
		})
	})

	s.emsservice.OnServed("site.ders.served", func(id string) {
		s.monitoring.RecordEvent("site_ders", map[string]string{
			"site_id": id,
		})
	})

	s.emsservice.OnServed("site.timeseries.served", func(id string) {
		s.monitoring.RecordEvent("site_timeseries", map[string]string{
			"site_id": id,
		})
	})

	s.emsservice.OnServed("wallet.sites.served", func(id string) {
		s.monitoring.RecordEvent("wallet_sites", map[string]string{
			"wallet_id": id,
		})
	})
}

// initializeEMSService creates and configures the dashboard service
func (s *Server) initializeEMSService() *emsservice.EMSService {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewInfluxDB(ctx, s.config.InfluxDB)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to InfluxDB: %v", err)
	}
	s.db = db

	derData := influx.NewDERRepository(db, s.config.InfluxDB.Measurement)

	svc := emsservice.New(derData, s.config.Query)
	if err := svc.Validate(); err != nil {
		nuts.L.Fatalf("[Server] Invalid service configuration: %v", err)
	}
	return svc
}
