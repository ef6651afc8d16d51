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
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/localnerve/practice-portal/data"
	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/logger"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Seed the compliance type catalog, and optionally a demo firm admin and a platform admin.

Usage:

seed [-h] [-f ENV_FILE_PATH]

Accounts are created only when their variables are set:
  SEED_FIRM_NAME, SEED_FIRM_GSTIN
  SEED_ADMIN_NAME, SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD
  SEED_SUPER_ADMIN_NAME, SEED_SUPER_ADMIN_EMAIL, SEED_SUPER_ADMIN_PASSWORD
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal().Err(err).Str("file", envFilename).Msg("Failed to load environment variables")
		}
	}

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

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	opts := services.SeedOptions{
		FirmName:   envOr("SEED_FIRM_NAME", "Demo CA Firm"),
		FirmGSTIN:  os.Getenv("SEED_FIRM_GSTIN"),
		FirmAdmin:  account("SEED_ADMIN", "Firm Admin"),
		SuperAdmin: account("SEED_SUPER_ADMIN", "Platform Admin"),
	}
	if err := services.Seed(db, data.ComplianceTypes, opts); err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}
	log.Info().Msg("Seed complete")
}

func account(prefix, defaultName string) *services.SeedAccount {
	email := os.Getenv(prefix + "_EMAIL")
	password := os.Getenv(prefix + "_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	return &services.SeedAccount{
		Name:     envOr(prefix+"_NAME", defaultName),
		Email:    email,
		Password: password,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
