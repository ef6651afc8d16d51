// main.go
//
// Multi-tenant practice management service for chartered accountant firms
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of practice-portal.
// practice-portal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// practice-portal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with practice-portal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/logger"
	"github.com/localnerve/practice-portal/internal/server"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/rs/zerolog/log"

	_ "github.com/localnerve/practice-portal/docs/api" // Swagger docs
)

// @title Practice Portal API
// @version 1.0.0
// @description Multi-tenant portal for CA firms and their clients: compliance tasks, documents, calendar and chat
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/practice-portal
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:4000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Logger = logger.New(cfg.LogLevel, cfg.LogFormat)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	store, err := storage.New(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to prepare upload directory")
	}

	app := server.New(cfg, db, store, services.NewAuth(cfg), server.Options{
		AccessLog: true,
		Metrics:   true,
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info().Msg("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Str("db", cfg.DBType).Msg("Starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	log.Info().Msg("Server stopped")
}
