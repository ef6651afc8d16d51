// health.go
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

package services

import (
	"fmt"

	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Storage      string            `json:"storage"`
	ErrorMessage string            `json:"error,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
}

func (r *HealthCheckResult) fail(component, message string) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = message
	} else {
		r.ErrorMessage += "; " + message
	}
	log.Error().Str("component", component).Msg("Health check failed - " + message)
}

// HealthCheck performs a comprehensive health check of the service
func HealthCheck(cfg *config.Config, db *gorm.DB, store *storage.Store) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.fail("database", fmt.Sprintf("Database connection error: %v", err))
	} else if err := sqlDB.Ping(); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.fail("database", fmt.Sprintf("Database ping failed: %v", err))
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	// Check the upload directory
	if err := store.Writable(); err != nil {
		result.Storage = "unwritable"
		result.Details["storage_error"] = err.Error()
		result.fail("storage", fmt.Sprintf("Upload directory not writable: %v", err))
	} else {
		result.Storage = "ok"
		result.Details["upload_dir"] = store.Dir
	}

	if result.Status == "healthy" {
		log.Info().Msg("Health check passed - all systems operational")
	}

	return result
}
