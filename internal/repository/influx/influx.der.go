// FilePath: internal/repository/influx/influx.der.go
package influx

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/srcfl/ems-dashboard/internal/database"
	"github.com/srcfl/ems-dashboard/internal/models"
	"github.com/srcfl/ems-dashboard/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// DERRepo serves DER telemetry and ownership lookups from InfluxDB. It
// implements repository.DERRepository.
type DERRepo struct {
	InfluxBaseRepo
	bucket      string
	measurement string
}

func NewDERRepository(db database.DB, measurement string) *DERRepo {
	return &DERRepo{
		InfluxBaseRepo: InfluxBaseRepo{db: db},
		bucket:         db.Bucket(),
		measurement:    measurement,
	}
}

// ListSites returns all distinct site IDs carrying DER telemetry.
func (r *DERRepo) ListSites(ctx context.Context) ([]string, error) {
	flux := r.buildSitesQuery()

	result, err := r.query(ctx, flux)
	if err != nil {
		return nil, err
	}

	sites := []string{}
	for result.Next() {
		if site, ok := result.Record().Value().(string); ok && site != "" {
			sites = append(sites, site)
		}
	}
	if err := result.Err(); err != nil {
		return nil, wrapResultErr("failed to read site list", err)
	}

	sort.Strings(sites)
	return sites, nil
}

// GetSiteRecords returns the latest record per field for a site within the
// lookback window, pivoted so each row carries its tag columns plus one
// column per field.
func (r *DERRepo) GetSiteRecords(ctx context.Context, siteID string, lookback time.Duration) ([]models.RawRecord, error) {
	if err := validIdent("site_id", siteID); err != nil {
		return nil, err
	}

	flux := r.buildSiteRecordsQuery(siteID, lookback)

	result, err := r.query(ctx, flux)
	if err != nil {
		return nil, err
	}

	records := []models.RawRecord{}
	for result.Next() {
		values := result.Record().Values()
		record := make(models.RawRecord, len(values))
		for field, value := range values {
			record[field] = value
		}
		records = append(records, record)
	}
	if err := result.Err(); err != nil {
		return nil, wrapResultErr("failed to read site records", err)
	}

	nuts.L.Debugf("[InfluxRepo] Fetched %d raw records for site %s", len(records), siteID)
	return records, nil
}

// GetTimeSeries returns windowed mean samples for charting. Gap handling is
// the store's concern (createEmpty: false); rows come back one per sample.
func (r *DERRepo) GetTimeSeries(ctx context.Context, q models.TimeSeriesQuery) ([]models.RawRow, error) {
	if err := validIdent("site_id", q.SiteID); err != nil {
		return nil, err
	}
	if err := validIdent("field", q.Field); err != nil {
		return nil, err
	}
	if q.DERType != "" {
		if err := validIdent("der_type", q.DERType); err != nil {
			return nil, err
		}
	}
	if err := validDuration("start", q.Start); err != nil {
		return nil, err
	}
	if err := validDuration("aggregate window", q.Window); err != nil {
		return nil, err
	}

	flux := r.buildTimeSeriesQuery(q)

	result, err := r.query(ctx, flux)
	if err != nil {
		return nil, err
	}

	rows := []models.RawRow{}
	for result.Next() {
		rec := result.Record()
		value, ok := models.NumericValue(rec.Value())
		if !ok {
			continue
		}
		row := models.RawRow{
			Timestamp: rec.Time(),
			Value:     value,
		}
		if t, ok := rec.ValueByKey("type").(string); ok {
			row.Type = t
		}
		if serial, ok := rec.ValueByKey("device_serial").(string); ok {
			row.DeviceSerial = serial
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, wrapResultErr("failed to read time series", err)
	}

	return rows, nil
}

// ListWalletSites returns all site IDs owned by a wallet.
func (r *DERRepo) ListWalletSites(ctx context.Context, walletID string) ([]string, error) {
	if err := validIdent("wallet_id", walletID); err != nil {
		return nil, err
	}

	flux := r.buildWalletSitesQuery(walletID)

	result, err := r.query(ctx, flux)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	sites := []string{}
	for result.Next() {
		site, ok := result.Record().ValueByKey("site_id").(string)
		if !ok || site == "" {
			continue
		}
		if _, dup := seen[site]; dup {
			continue
		}
		seen[site] = struct{}{}
		sites = append(sites, site)
	}
	if err := result.Err(); err != nil {
		return nil, wrapResultErr("failed to read wallet sites", err)
	}

	sort.Strings(sites)
	return sites, nil
}

// GetSiteWallet returns the wallet that owns a site, or
// repository.ErrNotFound when the site carries no wallet tag.
func (r *DERRepo) GetSiteWallet(ctx context.Context, siteID string) (string, error) {
	if err := validIdent("site_id", siteID); err != nil {
		return "", err
	}

	flux := r.buildSiteWalletQuery(siteID)

	result, err := r.query(ctx, flux)
	if err != nil {
		return "", err
	}

	for result.Next() {
		if wallet, ok := result.Record().ValueByKey("wallet_id").(string); ok && wallet != "" {
			return wallet, nil
		}
	}
	if err := result.Err(); err != nil {
		return "", wrapResultErr("failed to read site wallet", err)
	}

	return "", repository.ErrNotFound
}

// Flux builders, kept separate from execution so the scripts are testable.

func (r *DERRepo) buildSitesQuery() string {
	return fmt.Sprintf(`import "influxdata/influxdb/schema"
schema.tagValues(
	bucket: %s,
	tag: "site_id",
	predicate: (r) => r._measurement == %s
)`, fluxString(r.bucket), fluxString(r.measurement))
}

func (r *DERRepo) buildSiteRecordsQuery(siteID string, lookback time.Duration) string {
	return fmt.Sprintf(`from(bucket: %s)
|> range(start: -%s)
|> filter(fn: (r) => r._measurement == %s and r.site_id == %s)
|> last()
|> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`,
		fluxString(r.bucket), lookback.String(), fluxString(r.measurement), fluxString(siteID))
}

func (r *DERRepo) buildTimeSeriesQuery(q models.TimeSeriesQuery) string {
	typeFilter := ""
	if q.DERType != "" {
		typeFilter = fmt.Sprintf(" and r.type == %s", fluxString(q.DERType))
	}
	return fmt.Sprintf(`from(bucket: %s)
|> range(start: %s)
|> filter(fn: (r) => r._measurement == %s and r.site_id == %s%s)
|> filter(fn: (r) => r._field == %s)
|> aggregateWindow(every: %s, fn: mean, createEmpty: false)
|> yield(name: "mean")`,
		fluxString(r.bucket), q.Start, fluxString(r.measurement), fluxString(q.SiteID),
		typeFilter, fluxString(q.Field), q.Window)
}

func (r *DERRepo) buildWalletSitesQuery(walletID string) string {
	return fmt.Sprintf(`from(bucket: %s)
|> range(start: -1h)
|> filter(fn: (r) => r._measurement == %s and r.wallet_id == %s)
|> keep(columns: ["site_id"])
|> distinct(column: "site_id")`,
		fluxString(r.bucket), fluxString(r.measurement), fluxString(walletID))
}

func (r *DERRepo) buildSiteWalletQuery(siteID string) string {
	return fmt.Sprintf(`from(bucket: %s)
|> range(start: -1h)
|> filter(fn: (r) => r._measurement == %s and r.site_id == %s)
|> keep(columns: ["wallet_id"])
|> distinct(column: "wallet_id")
|> limit(n: 1)`,
		fluxString(r.bucket), fluxString(r.measurement), fluxString(siteID))
}
