// FilePath: internal/models/models.der.go
package models

import (
	"strings"
	"time"
)

// RawRecord is one pivoted row from the time-series store: tag columns and
// field columns flattened into a single map for one (time, site, device)
// combination. Consumed once per request, never retained.
type RawRecord map[string]any

// DERType is the device category tag as written by the gateway.
type DERType string

const (
	DERTypePV          DERType = "pv"
	DERTypeBattery     DERType = "battery"
	DERTypeMeter       DERType = "meter"
	DERTypeEnergyMeter DERType = "energymeter"
	DERTypeP1Meter     DERType = "p1meter"
	DERTypeEVCharger   DERType = "ev_charger"
	DERTypeV2XCharger  DERType = "v2x_charger"
	DERTypeCharger     DERType = "charger"
	DERTypeUnknown     DERType = "unknown"
)

// Well-known metric field names.
const (
	FieldPower       = "W"
	FieldBatterySoC  = "SoC_nom_fract"
	DefaultSerial    = "unknown"
	internalFieldPrefix = "_"
)

// reservedFields are tag/meta columns that must never appear in a snapshot's
// metrics map, even when the store reports them as numeric.
var reservedFields = map[string]struct{}{
	"type":           {},
	"device_serial":  {},
	"device_type":    {},
	"make":           {},
	"site_id":        {},
	"gateway_id":     {},
	"wallet_id":      {},
	"host":           {},
	"topic":          {},
	"metric":         {},
	"raw_version":    {},
	"schema_version": {},
}

// IsReservedField reports whether a raw field name is a meta/tag column.
// Fields with the internal marker prefix (_time, _measurement, _field, ...)
// are reserved as well.
func IsReservedField(name string) bool {
	if strings.HasPrefix(name, internalFieldPrefix) {
		return true
	}
	_, ok := reservedFields[name]
	return ok
}

// NumericValue converts a raw field value to float64. The store hands back
// int64 for integer fields and float64 for floats; the remaining branches
// cover values that went through a JSON round trip. Strings, booleans and
// nil are not metrics.
func NumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// StringField returns a tag value from a raw record, or "" when the column
// is missing or not a string.
func (r RawRecord) StringField(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// TimeField returns a timestamp column from a raw record, or nil.
func (r RawRecord) TimeField(name string) *time.Time {
	if v, ok := r[name].(time.Time); ok {
		return &v
	}
	return nil
}

// DERSnapshot is the canonical latest-known state of one device within the
// lookback window. The (Type, DeviceSerial) pair identifies a snapshot
// within one normalization pass.
type DERSnapshot struct {
	Type         string             `json:"type"`
	DeviceSerial string             `json:"device_serial"`
	DeviceType   string             `json:"device_type,omitempty"`
	Make         string             `json:"make,omitempty"`
	Timestamp    *time.Time         `json:"timestamp,omitempty"`
	Metrics      map[string]float64 `json:"data"`
}

// PowerW returns the W metric, or 0 when the device did not report power.
// An absent reading and a genuine zero reading are deliberately identical
// for summation purposes.
func (s *DERSnapshot) PowerW() float64 {
	return s.Metrics[FieldPower]
}

// BatterySoC returns the nominal state-of-charge fraction, distinguishing
// absent from zero.
func (s *DERSnapshot) BatterySoC() (float64, bool) {
	soc, ok := s.Metrics[FieldBatterySoC]
	return soc, ok
}
