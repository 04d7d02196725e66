// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/srcfl/ems-dashboard/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// DERDataRepository defines the query contract against the time-series
// store. Every method reflects what the store returned at fetch time;
// results are never cached across requests.
type DERDataRepository interface {
	// ListSites returns the distinct site identifiers known to the store,
	// sorted ascending.
	ListSites(ctx context.Context) ([]string, error)
	// GetSiteRecords returns the latest record per field for a site within
	// the lookback window, pivoted into flat raw records.
	GetSiteRecords(ctx context.Context, siteID string, lookback time.Duration) ([]models.RawRecord, error)
	// GetTimeSeries returns windowed mean samples for charting.
	GetTimeSeries(ctx context.Context, q models.TimeSeriesQuery) ([]models.RawRow, error)
}

// SiteDirectory resolves site and wallet ownership. The service only relays
// these lookups; ownership semantics live in the store.
type SiteDirectory interface {
	// ListWalletSites returns the site IDs owned by a wallet, sorted.
	ListWalletSites(ctx context.Context, walletID string) ([]string, error)
	// GetSiteWallet returns the wallet owning a site, or ErrNotFound.
	GetSiteWallet(ctx context.Context, siteID string) (string, error)
}

// DERRepository is the full gateway surface the service is constructed with.
type DERRepository interface {
	DERDataRepository
	SiteDirectory
}
