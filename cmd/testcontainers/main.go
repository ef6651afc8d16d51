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
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/rs/zerolog/log"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run the practice-portal database testcontainer with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file
DB_TYPE selects mariadb (default) or postgres.

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Info().Str("file", envFilename).Msg("Loading environment variables")
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal().Err(err).Msg("Failed to load environment variables")
		}
	} else {
		log.Info().Msg("No environment file specified, using current environment variables")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	var testContainers *testutil.TestContainers
	go func() {
		var err error
		testContainers, err = testutil.CreateAllTestContainers(nil, testutil.SettingsFromEnv(os.Getenv("DB_TYPE")))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create test containers")
		}
		cfg := testContainers.Config
		log.Info().Str("type", cfg.DBType).Str("host", cfg.DBHost).Str("port", cfg.DBPort).
			Str("database", cfg.DBDatabase).Msg("Database container ready")
	}()

	sig := <-sigs
	log.Info().Str("signal", sig.String()).Msg("Terminating test containers")
	if testContainers != nil {
		testContainers.Terminate(nil)
	}
}
