// FilePath: internal/emsservice/emsservice.go
package emsservice

import (
	"github.com/srcfl/ems-dashboard/internal/config"
	"github.com/srcfl/ems-dashboard/internal/errors"
	"github.com/srcfl/ems-dashboard/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// EMSService orchestrates the dashboard read path: it fetches raw telemetry
// through the repository and runs the pure normalization, aggregation and
// extraction transforms over it. The service holds no mutable request
// state, so one instance serves concurrent requests.
type EMSService struct {
	DERData repository.DERRepository
	query   config.QueryConfig
	events  *nuts.EventEmitter
}

// New creates a new EMSService instance
func New(derData repository.DERRepository, query config.QueryConfig) *EMSService {
	return &EMSService{
		DERData: derData,
		query:   query,
		events:  nuts.NewEventEmitter(),
	}
}

// Validate checks if all required dependencies are initialized
func (s *EMSService) Validate() error {
	if s.DERData == nil {
		return ErrMissingRepository("derData")
	}
	if s.query.Lookback <= 0 {
		return errors.NewInternalError("query lookback not configured", nil)
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// OnServed registers a callback invoked after a request was served, with
// the site or wallet ID the request addressed.
func (s *EMSService) OnServed(event string, handler func(id string)) {
	s.events.On(event, "served_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
