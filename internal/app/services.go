// Package app provides service initialization.
package app

import (
	"errors"

	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/circuitbreaker"
	"github.com/guttosm/sash-quote-service/internal/offer"
	"github.com/guttosm/sash-quote-service/internal/pricesheet"
	"github.com/guttosm/sash-quote-service/internal/service"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	// SheetCircuitBreaker is nil when no sheet URL is configured.
	SheetCircuitBreaker *circuitbreaker.CircuitBreaker
	Loader              *service.PriceTableLoaderService
	Quotes              *service.QuoteCalculatorService
	Admin               service.PriceAdminService
	Auth                service.AdminAuthService
}

// InitializeServices wires the price sheet client, the table loader and the
// quote, admin and auth services. db may be nil.
func InitializeServices(cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	components := &ServiceComponents{}

	loaderOpts := []service.LoaderOption{
		service.WithSnapshotTTL(cfg.Pricing.SnapshotTTL),
		service.WithSnapshotRetention(cfg.Pricing.SnapshotRetention),
	}

	var sheet service.PriceSheet
	client, cb, err := newPriceSheetClient(cfg.Pricing)
	switch {
	case err == nil:
		sheet = client
		components.SheetCircuitBreaker = cb
		loaderOpts = append(loaderOpts, service.WithPriceSheet(client))
	case errors.Is(err, pricesheet.ErrNotConfigured):
		log.Warn().Msg("PRICE_SHEET_URL not set - quoting from snapshots and defaults only")
	default:
		log.Error().Err(err).Msg("Failed to create price sheet client")
	}

	var history service.SnapshotHistory
	if db != nil && db.SnapshotRepo != nil {
		history = db.SnapshotRepo
		loaderOpts = append(loaderOpts, service.WithSnapshotStore(db.SnapshotRepo))
	}

	components.Loader = service.NewPriceTableLoader(loaderOpts...)

	quoteOpts := []service.QuoteOption{
		service.WithPriceLoader(components.Loader),
		service.WithOfferIssuer(issuerFromConfig(cfg.Offer)),
	}
	if cfg.Pricing.QuoteCacheSize > 0 {
		quoteOpts = append(quoteOpts, service.WithCache(cfg.Pricing.QuoteCacheSize, cfg.Pricing.QuoteCacheTTL))
	}
	components.Quotes = service.NewQuoteCalculator(quoteOpts...)

	components.Admin = service.NewPriceAdminService(components.Loader, sheet, history, components.Quotes)
	components.Auth = service.NewAdminAuthService(cfg.Auth)

	return components
}

func newPriceSheetClient(cfg config.PricingConfig) (*pricesheet.Client, *circuitbreaker.CircuitBreaker, error) {
	cbCfg := circuitbreaker.DefaultConfig()
	cbCfg.Name = "price-sheet"
	if cfg.CircuitBreakerFailureThreshold > 0 {
		cbCfg.FailureThreshold = cfg.CircuitBreakerFailureThreshold
	}
	if cfg.CircuitBreakerTimeout > 0 {
		cbCfg.Timeout = cfg.CircuitBreakerTimeout
	}
	cb := circuitbreaker.New(cbCfg)

	opts := []pricesheet.Option{pricesheet.WithCircuitBreaker(cb)}
	if cfg.FetchTimeout > 0 {
		opts = append(opts, pricesheet.WithTimeout(cfg.FetchTimeout))
	}

	client, err := pricesheet.NewClient(cfg.SheetURL, cfg.SheetToken, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cb, nil
}

// issuerFromConfig overlays the configured contractor details on the built-in issuer.
func issuerFromConfig(cfg config.OfferConfig) offer.Issuer {
	issuer := offer.DefaultIssuer()
	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&issuer.Company, cfg.Company)
	overlay(&issuer.Signatory, cfg.Signatory)
	overlay(&issuer.Street, cfg.Street)
	overlay(&issuer.PostalCity, cfg.PostalCity)
	overlay(&issuer.OrgNumber, cfg.OrgNumber)
	overlay(&issuer.Phone, cfg.Phone)
	overlay(&issuer.DefaultCity, cfg.DefaultCity)
	if cfg.HourlyRate > 0 {
		issuer.HourlyRate = cfg.HourlyRate
	}
	return issuer
}
