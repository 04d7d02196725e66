// FilePath: internal/models/models.site.go
package models

import "time"

// DERCategory is the aggregation bucket a DER contributes to.
type DERCategory string

const (
	CategoryPV      DERCategory = "pv"
	CategoryBattery DERCategory = "battery"
	CategoryGrid    DERCategory = "grid"
	CategoryEV      DERCategory = "ev"
	CategoryOther   DERCategory = "other"
)

// DERSummary is the per-device payload rendered alongside the site
// aggregate: normalized type, identity and the full metrics map.
type DERSummary struct {
	Type         string             `json:"type"`
	DeviceSerial string             `json:"device_serial"`
	Make         string             `json:"make,omitempty"`
	PowerW       float64            `json:"power_w"`
	Metrics      map[string]float64 `json:"data"`
}

// SiteOverview is the aggregation result for one site. Built fresh per
// request from live query results, never persisted or cached.
type SiteOverview struct {
	SiteID             string       `json:"site_id"`
	Timestamp          *time.Time   `json:"timestamp"`
	TotalPVPowerW      float64      `json:"total_pv_power_w"`
	TotalBatteryPowerW float64      `json:"total_battery_power_w"`
	TotalGridPowerW    float64      `json:"total_grid_power_w"`
	TotalEVPowerW      float64      `json:"total_ev_power_w"`
	LoadW              float64      `json:"load_w"`
	BatterySoCAvg      *float64     `json:"battery_soc_avg"`
	DERs               []DERSummary `json:"ders"`
}
