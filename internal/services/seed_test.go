// seed_test.go
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

	"github.com/localnerve/practice-portal/data"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestSeedComplianceTypesIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)

	n, err := services.SeedComplianceTypes(db, data.ComplianceTypes)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	again, err := services.SeedComplianceTypes(db, data.ComplianceTypes)
	require.NoError(t, err)
	require.Equal(t, n, again)

	var count int64
	require.NoError(t, db.Model(&models.ComplianceType{}).Count(&count).Error)
	require.Equal(t, int64(n), count)

	types, err := services.ListComplianceTypes(db)
	require.NoError(t, err)
	require.Len(t, types, n)

	_, err = services.SeedComplianceTypes(db, []byte("{not json"))
	require.Error(t, err)
}

func TestSeedAccounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	auth := newAuth()

	opts := services.SeedOptions{
		FirmName:   "Demo CA Firm",
		FirmGSTIN:  "27AAAAA0000A1Z5",
		FirmAdmin:  &services.SeedAccount{Name: "Demo Admin", Email: "Admin@Demo.test", Password: "first-password"},
		SuperAdmin: &services.SeedAccount{Name: "Platform", Email: "root@demo.test", Password: "root-password"},
	}
	require.NoError(t, services.Seed(db, data.ComplianceTypes, opts))

	opts.FirmAdmin.Password = "second-password"
	require.NoError(t, services.Seed(db, data.ComplianceTypes, opts))

	var firms int64
	require.NoError(t, db.Model(&models.Firm{}).Count(&firms).Error)
	require.Equal(t, int64(1), firms)

	session, err := auth.Login(db, "admin@demo.test", "second-password")
	require.NoError(t, err)
	require.Equal(t, models.RoleCAAdmin, session.User.Role)
	require.Equal(t, models.AllPermissions(), session.User.Permissions)
	require.NotNil(t, session.User.FirmName)
	require.Equal(t, "Demo CA Firm", *session.User.FirmName)

	root, err := auth.Login(db, "root@demo.test", "root-password")
	require.NoError(t, err)
	require.Equal(t, models.RoleSuperAdmin, root.User.Role)
	require.Nil(t, root.User.FirmID)
}
