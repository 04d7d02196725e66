// FilePath: internal/repository/influx/influx.baserepo.go
package influx

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/srcfl/ems-dashboard/internal/database"
	"github.com/srcfl/ems-dashboard/internal/errors"
	"github.com/srcfl/ems-dashboard/internal/repository"
)

type InfluxBaseRepo struct {
	db database.DB
}

// query executes a Flux script and hands back the streaming table result.
// Store failures surface as upstream errors, unmodified and unretried.
func (r *InfluxBaseRepo) query(ctx context.Context, flux string) (*api.QueryTableResult, error) {
	result, err := r.db.QueryAPI().Query(ctx, flux)
	if err != nil {
		return nil, errors.NewUpstreamError("failed to execute flux query", err)
	}
	return result, nil
}

// wrapResultErr converts a mid-stream result error into an upstream error.
func wrapResultErr(msg string, err error) error {
	return errors.NewUpstreamError(msg, err)
}

func (r *InfluxBaseRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewUnavailableError("failed to ping InfluxDB", err)
	}
	return nil
}

var (
	// identPattern covers tag values and field names (site IDs, wallet
	// addresses, metric names such as SoC_nom_fract).
	identPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)
	// durationPattern covers Flux relative durations (-1h, -24h, 1m, 1h30m).
	durationPattern = regexp.MustCompile(`^-?(?:[0-9]+(?:ms|s|m|h|d|w))+$`)
)

// fluxString quotes a value for interpolation into a Flux string literal.
func fluxString(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

// validIdent rejects tag/field values that cannot be safely interpolated.
func validIdent(name, v string) error {
	if v == "" || !identPattern.MatchString(v) {
		return fmt.Errorf("%w: invalid %s %q", repository.ErrInvalidInput, name, v)
	}
	return nil
}

// validDuration rejects range/window arguments outside the Flux duration
// literal syntax.
func validDuration(name, v string) error {
	if !durationPattern.MatchString(v) {
		return fmt.Errorf("%w: invalid %s %q", repository.ErrInvalidInput, name, v)
	}
	return nil
}
