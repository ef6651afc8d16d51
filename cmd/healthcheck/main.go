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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/logger"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/localnerve/practice-portal/internal/utils"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Logger = logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	store, err := storage.New(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open upload directory")
	}

	// Perform health check
	result := services.HealthCheck(cfg, db, store)

	// The server itself must also accept connections
	serverURL := fmt.Sprintf("http://localhost:%s", cfg.Port)
	if err := utils.PingService(context.Background(), serverURL, 1500*time.Millisecond); err != nil {
		result.Status = "unhealthy"
		result.Details["server_error"] = err.Error()
		if result.ErrorMessage == "" {
			result.ErrorMessage = "Server not reachable"
		}
	} else {
		result.Details["server"] = serverURL
	}

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal health check result")
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
