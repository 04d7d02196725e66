// FilePath: internal/models/models.timeseries.go
package models

import "time"

// RawRow is one windowed/aggregated sample returned by the time-series
// store for a (site, field) pair.
type RawRow struct {
	Timestamp    time.Time
	Value        float64
	Type         string
	DeviceSerial string
}

// TimeSeriesPoint is one chart sample.
type TimeSeriesPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Value        float64   `json:"value"`
	Type         string    `json:"type,omitempty"`
	DeviceSerial string    `json:"device_serial,omitempty"`
}

// TimeSeriesQuery describes a chart request. Start and Window use the
// store's duration syntax (-1h, -24h / 1m, 5m). DERType is optional.
type TimeSeriesQuery struct {
	SiteID  string `schema:"-"`
	DERType string `schema:"der_type"`
	Field   string `schema:"field"`
	Start   string `schema:"start"`
	Window  string `schema:"aggregate"`
}
