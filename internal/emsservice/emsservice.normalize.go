// FilePath: internal/emsservice/emsservice.normalize.go
package emsservice

import (
	"context"

	"github.com/srcfl/ems-dashboard/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// NormalizeRecords converts raw per-field records for one site into a
// deduplicated list of canonical DER snapshots, one per (type,
// device_serial) pair. Records sharing that pair merge their metrics;
// identity metadata and the observation timestamp are set when the
// snapshot is first created and not overwritten by later records.
//
// A record missing either grouping tag falls into the "unknown" bucket for
// that tag, so distinct anonymous devices of the same type collapse into
// one merged snapshot. That is the grouping contract consumers rely on,
// not something to repair here.
//
// Pure transformation: no storage access, output order is first-encounter
// order, identical input yields identical output.
func NormalizeRecords(records []models.RawRecord) []*models.DERSnapshot {
	byKey := map[string]*models.DERSnapshot{}
	snapshots := []*models.DERSnapshot{}

	for _, record := range records {
		derType := record.StringField("type")
		if derType == "" {
			derType = string(models.DERTypeUnknown)
		}
		serial := record.StringField("device_serial")
		if serial == "" {
			serial = models.DefaultSerial
		}

		key := derType + "_" + serial
		snapshot, ok := byKey[key]
		if !ok {
			snapshot = &models.DERSnapshot{
				Type:         derType,
				DeviceSerial: serial,
				DeviceType:   record.StringField("device_type"),
				Make:         record.StringField("make"),
				Timestamp:    record.TimeField("_time"),
				Metrics:      map[string]float64{},
			}
			byKey[key] = snapshot
			snapshots = append(snapshots, snapshot)
		}

		for field, value := range record {
			if models.IsReservedField(field) {
				continue
			}
			num, numeric := models.NumericValue(value)
			if !numeric {
				continue
			}
			snapshot.Metrics[field] = num
		}
	}

	return snapshots
}

// GetSiteDERs fetches the latest records for a site within the configured
// lookback window and normalizes them into DER snapshots. An empty result
// is a valid response; the HTTP layer decides whether it maps to 404.
func (s *EMSService) GetSiteDERs(ctx context.Context, siteID string) ([]*models.DERSnapshot, error) {
	records, err := s.DERData.GetSiteRecords(ctx, siteID, s.query.Lookback)
	if err != nil {
		return nil, err
	}

	snapshots := NormalizeRecords(records)
	nuts.L.Debugf("[EMSService] Site %s: %d records normalized into %d DERs",
		siteID, len(records), len(snapshots))
	s.events.Emit("site.ders.served", siteID)
	return snapshots, nil
}
