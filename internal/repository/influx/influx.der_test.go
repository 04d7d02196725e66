package influx

import (
	"testing"
	"time"

	"github.com/srcfl/ems-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepo() *DERRepo {
	return &DERRepo{bucket: "srcful-prod", measurement: "der"}
}

func TestBuildSitesQuery(t *testing.T) {
	flux := testRepo().buildSitesQuery()

	assert.Contains(t, flux, `import "influxdata/influxdb/schema"`)
	assert.Contains(t, flux, `bucket: "srcful-prod"`)
	assert.Contains(t, flux, `tag: "site_id"`)
	assert.Contains(t, flux, `r._measurement == "der"`)
}

func TestBuildSiteRecordsQuery(t *testing.T) {
	flux := testRepo().buildSiteRecordsQuery("site-1", time.Hour)

	assert.Contains(t, flux, `from(bucket: "srcful-prod")`)
	assert.Contains(t, flux, `range(start: -1h0m0s)`)
	assert.Contains(t, flux, `r.site_id == "site-1"`)
	assert.Contains(t, flux, `|> last()`)
	assert.Contains(t, flux, `pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")`)
}

func TestBuildTimeSeriesQuery(t *testing.T) {
	t.Run("without type filter", func(t *testing.T) {
		flux := testRepo().buildTimeSeriesQuery(models.TimeSeriesQuery{
			SiteID: "site-1",
			Field:  "W",
			Start:  "-1h",
			Window: "1m",
		})

		assert.Contains(t, flux, `range(start: -1h)`)
		assert.Contains(t, flux, `r._field == "W"`)
		assert.Contains(t, flux, `aggregateWindow(every: 1m, fn: mean, createEmpty: false)`)
		assert.NotContains(t, flux, "r.type ==")
	})

	t.Run("with type filter", func(t *testing.T) {
		flux := testRepo().buildTimeSeriesQuery(models.TimeSeriesQuery{
			SiteID:  "site-1",
			DERType: "battery",
			Field:   "SoC_nom_fract",
			Start:   "-24h",
			Window:  "5m",
		})

		assert.Contains(t, flux, `r.type == "battery"`)
		assert.Contains(t, flux, `r._field == "SoC_nom_fract"`)
	})
}

func TestBuildWalletQueries(t *testing.T) {
	flux := testRepo().buildWalletSitesQuery("wallet-1")
	assert.Contains(t, flux, `r.wallet_id == "wallet-1"`)
	assert.Contains(t, flux, `distinct(column: "site_id")`)

	flux = testRepo().buildSiteWalletQuery("site-1")
	assert.Contains(t, flux, `r.site_id == "site-1"`)
	assert.Contains(t, flux, `distinct(column: "wallet_id")`)
	assert.Contains(t, flux, `limit(n: 1)`)
}

func TestFluxString(t *testing.T) {
	assert.Equal(t, `"plain"`, fluxString("plain"))
	assert.Equal(t, `"with \"quotes\""`, fluxString(`with "quotes"`))
	assert.Equal(t, `"back\\slash"`, fluxString(`back\slash`))
}

func TestInputValidation(t *testing.T) {
	t.Run("identifiers", func(t *testing.T) {
		require.NoError(t, validIdent("site_id", "site-1"))
		require.NoError(t, validIdent("field", "SoC_nom_fract"))
		require.NoError(t, validIdent("wallet_id", "GZr4mPa1uXvQ9s"))

		assert.Error(t, validIdent("site_id", ""))
		assert.Error(t, validIdent("site_id", `inject" or true`))
		assert.Error(t, validIdent("field", "a b"))
	})

	t.Run("durations", func(t *testing.T) {
		require.NoError(t, validDuration("start", "-1h"))
		require.NoError(t, validDuration("start", "-7d"))
		require.NoError(t, validDuration("start", "-1h30m"))
		require.NoError(t, validDuration("window", "5m"))

		assert.Error(t, validDuration("start", "now()"))
		assert.Error(t, validDuration("start", `-1h") |> drop()`))
		assert.Error(t, validDuration("window", ""))
	})
}
