// config_test.go
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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DATABASE", "portal")
	t.Setenv("DB_USER", "portal")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "4000", cfg.Port)
	require.Equal(t, "mysql", cfg.DBType)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.Equal(t, int64(50*1024*1024), cfg.UploadMaxBytes)
	require.False(t, cfg.TaskStrictTransitions)
	require.Equal(t, 7, cfg.ReminderWindowDays)
	require.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("REFRESH_TOKEN_TTL", "3600")
	t.Setenv("TASK_STRICT_TRANSITIONS", "true")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, time.Hour, cfg.RefreshTokenTTL)
	require.True(t, cfg.TaskStrictTransitions)
	require.Equal(t, 20, cfg.LoginRateLimit)
}

func TestValidate(t *testing.T) {
	valid := Config{DBType: "mysql", DBDatabase: "portal", DBUser: "u", JWTSecret: "a", JWTRefreshSecret: "b", UploadMaxBytes: 1}
	require.NoError(t, valid.Validate())

	sqlite := valid
	sqlite.DBType = "sqlite"
	sqlite.DBUser = ""
	require.NoError(t, sqlite.Validate())

	cases := map[string]func(*Config){
		"database":   func(c *Config) { c.DBDatabase = "" },
		"user":       func(c *Config) { c.DBUser = "" },
		"secret":     func(c *Config) { c.JWTRefreshSecret = "" },
		"upload cap": func(c *Config) { c.UploadMaxBytes = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
