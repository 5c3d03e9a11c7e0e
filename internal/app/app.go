// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/http"
	"github.com/rs/zerolog/log"
)

const closeTimeout = 10 * time.Second

// App is the wired application: the HTTP router plus the background
// components that must be stopped on shutdown.
type App struct {
	Router *gin.Engine

	database  *DatabaseComponents
	services  *ServiceComponents
	routerCfg *http.RouterConfig
	refresher *PriceRefresher
	closeOnce sync.Once
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) *App {
	// Logger first; every other component logs through it.
	InitializeLogger(cfg.Log)

	dbComponents := InitializeDatabase(cfg.Database)
	serviceComponents := InitializeServices(cfg, dbComponents)
	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	refresher := NewPriceRefresher(serviceComponents.Loader, cfg.Pricing.RefreshInterval, cfg.Pricing.FetchTimeout)
	refresher.Start()

	return &App{
		Router:    http.NewRouter(routerComponents.HealthHandler, routerComponents.Config),
		database:  dbComponents,
		services:  serviceComponents,
		routerCfg: routerComponents.Config,
		refresher: refresher,
	}
}

// Close stops background work and releases the database connection. It is
// safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.refresher.Stop()
		if a.routerCfg != nil {
			a.routerCfg.Close()
		}
		if a.services != nil && a.services.Quotes != nil {
			a.services.Quotes.Close()
		}

		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.database.Close(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to close MongoDB connection")
		}
	})
}
