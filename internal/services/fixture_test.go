// fixture_test.go
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

package services_test

import (
	"testing"
	"time"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/localnerve/practice-portal/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// tenant is one firm with an admin, a restricted staff member and a client
type tenant struct {
	firm       *models.Firm
	admin      *models.User
	staff      *models.User
	client     *models.Client
	clientUser *models.User
}

func newTenant(t *testing.T, db *gorm.DB, name string) *tenant {
	t.Helper()
	firm := testutil.CreateFirm(t, db, name)
	ten := &tenant{
		firm:  firm,
		admin: testutil.CreateUser(t, db, firm, models.RoleCAAdmin, "admin@"+name+".test", models.Permissions{}),
		staff: testutil.CreateUser(t, db, firm, models.RoleCAStaff, "staff@"+name+".test", models.Permissions{
			CanAccessTasks: true,
		}),
	}
	ten.client, ten.clientUser = testutil.CreateClient(t, db, firm, name+" Client", "client@"+name+".test")
	return ten
}

func (ten *tenant) adminCaller() access.Caller {
	return access.NewCaller(ten.admin, "")
}

func (ten *tenant) staffCaller() access.Caller {
	return access.NewCaller(ten.staff, "")
}

func (ten *tenant) clientCaller() access.Caller {
	return access.NewCaller(ten.clientUser, ten.client.ID)
}

func newAuth() *services.Auth {
	return &services.Auth{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(t.TempDir(), 1<<20)
	require.NoError(t, err)
	return store
}

func strPtr(s string) *string {
	return &s
}

func flexDate(t *testing.T, s string) types.FlexTime {
	t.Helper()
	v, err := types.ParseFlexTime(s)
	require.NoError(t, err)
	return types.FlexTime(v)
}

// requireErrorType asserts err carries a CustomError of the given type and status
func requireErrorType(t *testing.T, err error, errorType string, code int) {
	t.Helper()
	require.Error(t, err)
	ce, ok := types.AsCustomError(err)
	require.True(t, ok, "expected a CustomError, got %v", err)
	require.Equal(t, errorType, ce.Type)
	require.Equal(t, code, ce.Code)
}
