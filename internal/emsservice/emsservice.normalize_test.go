package emsservice

import (
	"testing"
	"time"

	"github.com/srcfl/ems-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRecords(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	t.Run("empty input", func(t *testing.T) {
		snapshots := NormalizeRecords(nil)
		assert.Empty(t, snapshots)

		snapshots = NormalizeRecords([]models.RawRecord{})
		assert.Empty(t, snapshots)
	})

	t.Run("single record", func(t *testing.T) {
		snapshots := NormalizeRecords([]models.RawRecord{
			{
				"_time":         t1,
				"type":          "battery",
				"device_serial": "bat-1",
				"device_type":   "lfp",
				"make":          "acme",
				"W":             -250.0,
				"SoC_nom_fract": 0.8,
			},
		})

		require.Len(t, snapshots, 1)
		snap := snapshots[0]
		assert.Equal(t, "battery", snap.Type)
		assert.Equal(t, "bat-1", snap.DeviceSerial)
		assert.Equal(t, "lfp", snap.DeviceType)
		assert.Equal(t, "acme", snap.Make)
		require.NotNil(t, snap.Timestamp)
		assert.Equal(t, t1, *snap.Timestamp)
		assert.Equal(t, map[string]float64{"W": -250.0, "SoC_nom_fract": 0.8}, snap.Metrics)
	})

	t.Run("records with same key merge metrics", func(t *testing.T) {
		snapshots := NormalizeRecords([]models.RawRecord{
			{"type": "pv", "device_serial": "pv-1", "W": -500.0},
			{"type": "pv", "device_serial": "pv-1", "mppt1_voltage": 380.0},
		})

		require.Len(t, snapshots, 1)
		// union of disjoint metric sets, nothing dropped
		assert.Equal(t, map[string]float64{"W": -500.0, "mppt1_voltage": 380.0}, snapshots[0].Metrics)
	})

	t.Run("later metric values overwrite earlier ones", func(t *testing.T) {
		snapshots := NormalizeRecords([]models.RawRecord{
			{"type": "pv", "device_serial": "pv-1", "W": -500.0},
			{"type": "pv", "device_serial": "pv-1", "W": -620.0},
		})

		require.Len(t, snapshots, 1)
		assert.Equal(t, -620.0, snapshots[0].Metrics["W"])
	})

	t.Run("metadata is first-seen wins", func(t *testing.T) {
		snapshots := NormalizeRecords([]models.RawRecord{
			{"_time": t1, "type": "meter", "device_serial": "m-1", "make": "alpha"},
			{"_time": t2, "type": "meter", "device_serial": "m-1", "make": "beta"},
		})

		require.Len(t, snapshots, 1)
		assert.Equal(t, "alpha", snapshots[0].Make)
		require.NotNil(t, snapshots[0].Timestamp)
		assert.Equal(t, t1, *snapshots[0].Timestamp)
	})

	t.Run("distinct keys stay separate in encounter order", func(t *testing.T) {
		snapshots := NormalizeRecords([]models.RawRecord{
			{"type": "battery", "device_serial": "bat-2", "W": 100.0},
			{"type": "pv", "device_serial": "pv-1", "W": -500.0},
			{"type": "battery", "device_serial": "bat-1", "W": 50.0},
		})

		require.Len(t, snapshots, 3)
		assert.Equal(t, "bat-2", snapshots[0].DeviceSerial)
		assert.Equal(t, "pv-1", snapshots[1].DeviceSerial)
		assert.Equal(t, "bat-1", snapshots[2].DeviceSerial)
	})

	t.Run("missing tags substitute unknown and collapse", func(t *testing.T) {
		// two anonymous batteries merge into one snapshot; accepted
		// grouping limitation
		snapshots := NormalizeRecords([]models.RawRecord{
			{"type": "battery", "W": 100.0},
			{"type": "battery", "voltage": 52.0},
			{"W": 10.0},
		})

		require.Len(t, snapshots, 2)
		assert.Equal(t, "battery", snapshots[0].Type)
		assert.Equal(t, "unknown", snapshots[0].DeviceSerial)
		assert.Equal(t, map[string]float64{"W": 100.0, "voltage": 52.0}, snapshots[0].Metrics)
		assert.Equal(t, "unknown", snapshots[1].Type)
		assert.Equal(t, "unknown", snapshots[1].DeviceSerial)
	})

	t.Run("reserved fields never reach metrics", func(t *testing.T) {
		snapshots := NormalizeRecords([]models.RawRecord{
			{
				"type":           "meter",
				"device_serial":  "m-1",
				"site_id":        12345.0,
				"gateway_id":     1.0,
				"wallet_id":      2.0,
				"raw_version":    3.0,
				"schema_version": 4.0,
				"_value":         99.0,
				"_start":         1.0,
				"W":              380.0,
			},
		})

		require.Len(t, snapshots, 1)
		assert.Equal(t, map[string]float64{"W": 380.0}, snapshots[0].Metrics)
	})

	t.Run("non-numeric values excluded", func(t *testing.T) {
		snapshots := NormalizeRecords([]models.RawRecord{
			{
				"type":          "ev_charger",
				"device_serial": "ev-1",
				"status":        "charging",
				"enabled":       true,
				"nothing":       nil,
				"W":             int64(7200),
				"phases":        3,
			},
		})

		require.Len(t, snapshots, 1)
		assert.Equal(t, map[string]float64{"W": 7200.0, "phases": 3.0}, snapshots[0].Metrics)
	})

	t.Run("deterministic over identical input", func(t *testing.T) {
		records := []models.RawRecord{
			{"type": "pv", "device_serial": "pv-1", "W": -500.0},
			{"type": "battery", "device_serial": "bat-1", "W": 120.0, "SoC_nom_fract": 0.4},
			{"type": "meter", "device_serial": "m-1", "W": 380.0},
		}

		first := NormalizeRecords(records)
		second := NormalizeRecords(records)
		require.Equal(t, first, second)
		// output count never exceeds input count
		assert.LessOrEqual(t, len(first), len(records))
	})
}
