// Package main is the entry point for the sash-quote-service application.
//
// @title           Sash Quote API
// @version         1.0.0
// @description     Quotes for window and door sash renovation, priced from a shared price sheet.
//
//	Units are priced per sash and work scope, summed with job options and the
//	ROT tax deduction, and optionally rendered as a printable offer.
//
// @contact.name   API Support
// @contact.url    https://github.com/guttosm/sash-quote-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for the public quote API. Required if authentication is enabled.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Admin session token from /api/auth/login, sent as "Bearer <token>".
//
// @tag.name        Quote
// @tag.description Quote computation
//
// @tag.name        Units
// @tag.description Unit batch editing helpers
//
// @tag.name        PriceTable
// @tag.description Resolved price table
//
// @tag.name        Admin
// @tag.description Price administration
//
// @tag.name        Auth
// @tag.description Admin login
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	_ "github.com/guttosm/sash-quote-service/docs" // swagger docs

	"github.com/guttosm/sash-quote-service/config"
	"github.com/guttosm/sash-quote-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application := app.InitializeApp(cfg)
	if cfg.UsesDefaultJWTSecret() {
		log.Warn().Msg("JWT_SECRET_KEY is not set - using the insecure default secret")
	}

	server := app.NewServer(application.Router, cfg.Server)
	err := server.Run()
	application.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
