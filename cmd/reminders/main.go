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
	"time"

	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/logger"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/rs/zerolog/log"
)

// Sends deadline reminders for open tasks. Meant to run from cron once a day;
// running it again on the same day sends nothing new.
func main() {
	var windowDays int
	flag.IntVar(&windowDays, "days", 0, "reminder window in days (default REMINDER_WINDOW_DAYS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Logger = logger.New(cfg.LogLevel, cfg.LogFormat)

	if windowDays <= 0 {
		windowDays = cfg.ReminderWindowDays
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	run, err := services.SendDeadlineReminders(db, time.Now().UTC(), windowDays)
	if err != nil {
		log.Fatal().Err(err).Msg("Reminder run failed")
	}
	log.Info().Int("tasksDue", run.TasksDue).Int("sent", run.Sent).Int("windowDays", windowDays).Msg("Reminder run complete")
}
