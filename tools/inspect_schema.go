// inspect_schema.go
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
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/practice-portal/internal/database"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Prints the DDL gorm generates for every model, including the natural-key unique indexes.
func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(gormlogger.Silent))
	if err != nil {
		log.Fatal(err)
	}

	// Auto-migrate to see what GORM creates
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	// Get the schema
	var rows []struct {
		Type string
		Name string
		SQL  string
	}
	db.Raw("SELECT type, name, sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY tbl_name, type DESC, name").Scan(&rows)

	for _, row := range rows {
		fmt.Printf("\n=== %s: %s ===\n", row.Type, row.Name)
		fmt.Println(row.SQL)
	}
}
