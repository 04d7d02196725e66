// FilePath: internal/emsservice/emsservice.sites.go
package emsservice

import (
	"context"
)

// The site list and ownership operations are pass-through relays: the
// service hands gateway results to the caller unmodified and never
// interprets ownership semantics itself.

// ListSites returns all site IDs known to the store.
func (s *EMSService) ListSites(ctx context.Context) ([]string, error) {
	sites, err := s.DERData.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	s.events.Emit("sites.listed", "")
	return sites, nil
}

// SitesForWallet returns the site IDs owned by a wallet.
func (s *EMSService) SitesForWallet(ctx context.Context, walletID string) ([]string, error) {
	sites, err := s.DERData.ListWalletSites(ctx, walletID)
	if err != nil {
		return nil, err
	}
	s.events.Emit("wallet.sites.served", walletID)
	return sites, nil
}

// WalletForSite returns the wallet owning a site, or
// repository.ErrNotFound when the site is unknown.
func (s *EMSService) WalletForSite(ctx context.Context, siteID string) (string, error) {
	wallet, err := s.DERData.GetSiteWallet(ctx, siteID)
	if err != nil {
		return "", err
	}
	s.events.Emit("site.wallet.served", siteID)
	return wallet, nil
}
