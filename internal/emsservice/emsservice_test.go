package emsservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/srcfl/ems-dashboard/internal/config"
	"github.com/srcfl/ems-dashboard/internal/models"
	"github.com/srcfl/ems-dashboard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testQueryConfig() config.QueryConfig {
	return config.QueryConfig{
		Lookback:      time.Hour,
		DefaultField:  "W",
		DefaultStart:  "-1h",
		DefaultWindow: "1m",
	}
}

func TestValidate(t *testing.T) {
	svc := New(&mockDERRepo{}, testQueryConfig())
	require.NoError(t, svc.Validate())

	svc = New(nil, testQueryConfig())
	assert.Error(t, svc.Validate())

	svc = New(&mockDERRepo{}, config.QueryConfig{})
	assert.Error(t, svc.Validate())
}

func TestGetSiteOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches, normalizes and aggregates", func(t *testing.T) {
		repo := &mockDERRepo{}
		repo.On("GetSiteRecords", mock.Anything, "site-1", time.Hour).Return([]models.RawRecord{
			{"type": "pv", "device_serial": "pv-1", "W": -500.0},
			{"type": "battery", "device_serial": "bat-1", "W": 120.0, "SoC_nom_fract": 0.4},
			{"type": "meter", "device_serial": "m-1", "W": 380.0},
		}, nil)

		svc := New(repo, testQueryConfig())
		overview, err := svc.GetSiteOverview(ctx, "site-1")
		require.NoError(t, err)

		assert.Equal(t, "site-1", overview.SiteID)
		assert.Equal(t, 1000.0, overview.LoadW)
		require.Len(t, overview.DERs, 3)
		repo.AssertExpectations(t)
	})

	t.Run("empty site yields valid empty overview", func(t *testing.T) {
		repo := &mockDERRepo{}
		repo.On("GetSiteRecords", mock.Anything, "ghost", time.Hour).Return([]models.RawRecord{}, nil)

		svc := New(repo, testQueryConfig())
		overview, err := svc.GetSiteOverview(ctx, "ghost")
		require.NoError(t, err)
		assert.Empty(t, overview.DERs)
		assert.Zero(t, overview.LoadW)
	})

	t.Run("upstream error propagates unmodified", func(t *testing.T) {
		upstream := errors.New("connection refused")
		repo := &mockDERRepo{}
		repo.On("GetSiteRecords", mock.Anything, "site-1", time.Hour).Return(nil, upstream)

		svc := New(repo, testQueryConfig())
		_, err := svc.GetSiteOverview(ctx, "site-1")
		require.ErrorIs(t, err, upstream)
	})
}

func TestGetTimeSeries(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("applies defaults before querying", func(t *testing.T) {
		repo := &mockDERRepo{}
		repo.On("GetTimeSeries", mock.Anything, models.TimeSeriesQuery{
			SiteID: "site-1",
			Field:  "W",
			Start:  "-1h",
			Window: "1m",
		}).Return([]models.RawRow{
			{Timestamp: t1.Add(time.Minute), Value: 2},
			{Timestamp: t1, Value: 1},
		}, nil)

		svc := New(repo, testQueryConfig())
		points, err := svc.GetTimeSeries(ctx, models.TimeSeriesQuery{SiteID: "site-1"})
		require.NoError(t, err)

		require.Len(t, points, 2)
		assert.Equal(t, t1, points[0].Timestamp)
		repo.AssertExpectations(t)
	})

	t.Run("explicit query passes through", func(t *testing.T) {
		q := models.TimeSeriesQuery{
			SiteID:  "site-1",
			DERType: "battery",
			Field:   "SoC_nom_fract",
			Start:   "-24h",
			Window:  "5m",
		}
		repo := &mockDERRepo{}
		repo.On("GetTimeSeries", mock.Anything, q).Return([]models.RawRow{}, nil)

		svc := New(repo, testQueryConfig())
		points, err := svc.GetTimeSeries(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, points)
		repo.AssertExpectations(t)
	})

	t.Run("missing site id rejected", func(t *testing.T) {
		svc := New(&mockDERRepo{}, testQueryConfig())
		_, err := svc.GetTimeSeries(ctx, models.TimeSeriesQuery{})
		assert.ErrorIs(t, err, repository.ErrInvalidInput)
	})
}

func TestSiteAndWalletRelays(t *testing.T) {
	ctx := context.Background()

	t.Run("list sites", func(t *testing.T) {
		repo := &mockDERRepo{}
		repo.On("ListSites", mock.Anything).Return([]string{"a", "b"}, nil)

		svc := New(repo, testQueryConfig())
		sites, err := svc.ListSites(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, sites)
	})

	t.Run("sites for wallet", func(t *testing.T) {
		repo := &mockDERRepo{}
		repo.On("ListWalletSites", mock.Anything, "wallet-1").Return([]string{"a"}, nil)

		svc := New(repo, testQueryConfig())
		sites, err := svc.SitesForWallet(ctx, "wallet-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, sites)
	})

	t.Run("wallet for site not found", func(t *testing.T) {
		repo := &mockDERRepo{}
		repo.On("GetSiteWallet", mock.Anything, "ghost").Return("", repository.ErrNotFound)

		svc := New(repo, testQueryConfig())
		_, err := svc.WalletForSite(ctx, "ghost")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOnServed(t *testing.T) {
	repo := &mockDERRepo{}
	repo.On("GetSiteRecords", mock.Anything, "site-1", time.Hour).Return([]models.RawRecord{}, nil)

	svc := New(repo, testQueryConfig())

	served := make(chan string, 1)
	svc.OnServed("site.overview.served", func(id string) {
		served <- id
	})

	_, err := svc.GetSiteOverview(context.Background(), "site-1")
	require.NoError(t, err)

	select {
	case id := <-served:
		assert.Equal(t, "site-1", id)
	case <-time.After(time.Second):
		t.Fatal("served event not emitted")
	}
}
