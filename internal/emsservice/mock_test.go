package emsservice

import (
	"context"
	"time"

	"github.com/srcfl/ems-dashboard/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockDERRepo struct {
	mock.Mock
}

func (m *mockDERRepo) ListSites(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if sites, ok := args.Get(0).([]string); ok {
		return sites, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDERRepo) GetSiteRecords(ctx context.Context, siteID string, lookback time.Duration) ([]models.RawRecord, error) {
	args := m.Called(ctx, siteID, lookback)
	if records, ok := args.Get(0).([]models.RawRecord); ok {
		return records, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDERRepo) GetTimeSeries(ctx context.Context, q models.TimeSeriesQuery) ([]models.RawRow, error) {
	args := m.Called(ctx, q)
	if rows, ok := args.Get(0).([]models.RawRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDERRepo) ListWalletSites(ctx context.Context, walletID string) ([]string, error) {
	args := m.Called(ctx, walletID)
	if sites, ok := args.Get(0).([]string); ok {
		return sites, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDERRepo) GetSiteWallet(ctx context.Context, siteID string) (string, error) {
	args := m.Called(ctx, siteID)
	return args.String(0), args.Error(1)
}
