// FilePath: internal/emsservice/emsservice.overview.go
package emsservice

import (
	"context"
	"math"
	"strings"

	"github.com/srcfl/ems-dashboard/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Categorize maps a DER type tag to its aggregation bucket. Matching is
// case-insensitive; unrecognized types fall into CategoryOther and
// contribute to none of the power sums.
func Categorize(derType string) models.DERCategory {
	switch strings.ToLower(derType) {
	case "pv":
		return models.CategoryPV
	case "battery":
		return models.CategoryBattery
	case "meter", "energymeter", "p1meter":
		return models.CategoryGrid
	case "ev_charger", "v2x_charger", "charger":
		return models.CategoryEV
	default:
		return models.CategoryOther
	}
}

// AggregateSite folds normalized DER snapshots into a SiteOverview: power
// sums per category, the average battery state of charge, and the derived
// load. An empty snapshot list yields a valid zero-valued overview.
//
// The load formula encodes the raw sign conventions: grid import is
// positive and export negative, so grid power enters unmodified; PV
// production is reported negative, so its absolute value is used; battery
// discharge is positive and adds to load, charge is negative and reduces
// it.
//
//	load_w = total_grid_power_w + |total_pv_power_w| + total_battery_power_w
func AggregateSite(siteID string, snapshots []*models.DERSnapshot) *models.SiteOverview {
	overview := &models.SiteOverview{
		SiteID: siteID,
		DERs:   []models.DERSummary{},
	}

	batterySoCs := []float64{}

	for _, snapshot := range snapshots {
		derType := strings.ToLower(snapshot.Type)
		power := snapshot.PowerW()

		if overview.Timestamp == nil && snapshot.Timestamp != nil {
			overview.Timestamp = snapshot.Timestamp
		}

		switch Categorize(derType) {
		case models.CategoryPV:
			overview.TotalPVPowerW += power
		case models.CategoryBattery:
			overview.TotalBatteryPowerW += power
			if soc, ok := snapshot.BatterySoC(); ok {
				batterySoCs = append(batterySoCs, soc)
			}
		case models.CategoryGrid:
			overview.TotalGridPowerW += power
		case models.CategoryEV:
			overview.TotalEVPowerW += power
		}

		overview.DERs = append(overview.DERs, models.DERSummary{
			Type:         derType,
			DeviceSerial: snapshot.DeviceSerial,
			Make:         snapshot.Make,
			PowerW:       power,
			Metrics:      snapshot.Metrics,
		})
	}

	overview.LoadW = overview.TotalGridPowerW +
		math.Abs(overview.TotalPVPowerW) +
		overview.TotalBatteryPowerW

	if len(batterySoCs) > 0 {
		sum := 0.0
		for _, soc := range batterySoCs {
			sum += soc
		}
		avg := sum / float64(len(batterySoCs))
		overview.BatterySoCAvg = &avg
	}

	return overview
}

// GetSiteOverview fetches and normalizes a site's DERs, then aggregates
// them. A site with no DERs yields an overview with an empty ders list;
// mapping that to not-found is the caller's call.
func (s *EMSService) GetSiteOverview(ctx context.Context, siteID string) (*models.SiteOverview, error) {
	snapshots, err := s.GetSiteDERs(ctx, siteID)
	if err != nil {
		return nil, err
	}

	overview := AggregateSite(siteID, snapshots)
	nuts.L.Debugf("[EMSService] Site %s overview: load=%.1fW over %d DERs",
		siteID, overview.LoadW, len(overview.DERs))
	s.events.Emit("site.overview.served", siteID)
	return overview, nil
}
