// user_service_test.go
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
	"net/http"
	"testing"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/localnerve/practice-portal/internal/types"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestCreateFirmUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")

	admin, err := services.CreateFirmUser(db, ten.adminCaller(), services.UserInput{
		Name: "Second Admin", Email: " Second@Alpha.test ", Password: "longenough", Role: "ca_admin",
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleCAAdmin, admin.Role)
	require.Equal(t, "second@alpha.test", admin.Email)
	require.Equal(t, models.AllPermissions(), admin.Permissions)
	require.Equal(t, ten.firm.ID, *admin.FirmID)

	staff, err := services.CreateFirmUser(db, ten.adminCaller(), services.UserInput{
		Name: "New Staff", Email: "newstaff@alpha.test", Password: "longenough", Role: "CA_STAFF",
	})
	require.NoError(t, err)
	require.Equal(t, models.Permissions{}, staff.Permissions)

	_, err = services.CreateFirmUser(db, ten.adminCaller(), services.UserInput{
		Name: "Dup", Email: "NEWSTAFF@alpha.test", Password: "longenough", Role: "CA_STAFF",
	})
	requireErrorType(t, err, types.TypeConflict, http.StatusBadRequest)
}

func TestCreateFirmUserValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")

	cases := map[string]services.UserInput{
		"missing name":   {Email: "x@alpha.test", Password: "longenough", Role: "CA_STAFF"},
		"client role":    {Name: "X", Email: "x@alpha.test", Password: "longenough", Role: "CLIENT"},
		"super admin":    {Name: "X", Email: "x@alpha.test", Password: "longenough", Role: "SUPER_ADMIN"},
		"short password": {Name: "X", Email: "x@alpha.test", Password: "short", Role: "CA_STAFF"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := services.CreateFirmUser(db, ten.adminCaller(), in)
			requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)
		})
	}
}

func TestListFirmUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	alpha := newTenant(t, db, "alpha")
	newTenant(t, db, "beta")

	all, err := services.ListFirmUsers(db, alpha.adminCaller(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	staff, err := services.ListFirmUsers(db, alpha.adminCaller(), "ca_staff")
	require.NoError(t, err)
	require.Len(t, staff, 1)
	require.Equal(t, alpha.staff.ID, staff[0].ID)

	_, err = services.ListFirmUsers(db, alpha.adminCaller(), "OWNER")
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)
}

func TestUpdatePermissions(t *testing.T) {
	db := testutil.NewTestDB(t)
	alpha := newTenant(t, db, "alpha")
	beta := newTenant(t, db, "beta")

	view, err := services.UpdatePermissions(db, alpha.adminCaller(), alpha.staff.ID, models.PermissionsPatch{
		CanAccessChat:  boolPtr(true),
		CanAccessTasks: boolPtr(false),
	})
	require.NoError(t, err)
	require.True(t, view.CanAccessChat)
	require.False(t, view.CanAccessTasks)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", alpha.staff.ID).Error)
	require.True(t, stored.CanAccessChat)
	require.False(t, stored.CanAccessTasks)
	require.False(t, stored.CanViewClients)

	_, err = services.UpdatePermissions(db, alpha.adminCaller(), alpha.admin.ID, models.PermissionsPatch{CanAccessChat: boolPtr(false)})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	_, err = services.UpdatePermissions(db, alpha.adminCaller(), beta.staff.ID, models.PermissionsPatch{CanAccessChat: boolPtr(true)})
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")

	view, err := services.UpdateProfile(db, ten.staffCaller(), ten.staff.ID, services.ProfileInput{
		Name:  strPtr(" Renamed "),
		Email: strPtr("Renamed@Alpha.test"),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", view.Name)
	require.Equal(t, "renamed@alpha.test", view.Email)

	_, err = services.UpdateProfile(db, ten.staffCaller(), ten.admin.ID, services.ProfileInput{Name: strPtr("Nope")})
	requireErrorType(t, err, types.TypeForbidden, http.StatusForbidden)

	_, err = services.UpdateProfile(db, ten.staffCaller(), ten.staff.ID, services.ProfileInput{Email: strPtr(ten.admin.Email)})
	requireErrorType(t, err, types.TypeConflict, http.StatusBadRequest)

	_, err = services.UpdateProfile(db, ten.staffCaller(), ten.staff.ID, services.ProfileInput{Name: strPtr("  ")})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)
}

func TestAdminFirms(t *testing.T) {
	db := testutil.NewTestDB(t)
	alpha := newTenant(t, db, "alpha")

	firm, err := services.CreateFirm(db, services.FirmInput{Name: "Gamma", GSTIN: strPtr("27aapfu0939f1zv")})
	require.NoError(t, err)
	require.Equal(t, "27AAPFU0939F1ZV", *firm.GSTIN)

	_, err = services.CreateFirm(db, services.FirmInput{Name: "Gamma Two", GSTIN: strPtr("27AAPFU0939F1ZV")})
	requireErrorType(t, err, types.TypeConflict, http.StatusBadRequest)

	_, err = services.CreateFirm(db, services.FirmInput{Name: " "})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	firms, err := services.ListFirms(db)
	require.NoError(t, err)
	require.Len(t, firms, 2)
	for _, f := range firms {
		switch f.ID {
		case alpha.firm.ID:
			require.Len(t, f.Admins, 1)
			require.Equal(t, alpha.admin.ID, f.Admins[0].ID)
		case firm.ID:
			require.Empty(t, f.Admins)
		default:
			t.Fatalf("unexpected firm %s", f.ID)
		}
	}
}

func TestAdminUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	alpha := newTenant(t, db, "alpha")
	super := testutil.CreateUser(t, db, nil, models.RoleSuperAdmin, "root@platform.test", models.Permissions{})

	_, err := services.CreateUserInFirm(db, "missing-firm", services.UserInput{
		Name: "X", Email: "x@nowhere.test", Password: "longenough", Role: "CA_STAFF",
	})
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	created, err := services.CreateUserInFirm(db, alpha.firm.ID, services.UserInput{
		Name: "Helper", Email: "helper@alpha.test", Password: "longenough", Role: "CA_STAFF",
	})
	require.NoError(t, err)

	users, err := services.ListUsersInFirm(db, alpha.firm.ID)
	require.NoError(t, err)
	require.Len(t, users, 4)

	_, err = services.ListUsersInFirm(db, "missing-firm")
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	view, err := services.AdminUpdatePermissions(db, created.ID, models.PermissionsPatch{CanViewClients: boolPtr(true)})
	require.NoError(t, err)
	require.True(t, view.CanViewClients)

	_, err = services.AdminUpdatePermissions(db, super.ID, models.PermissionsPatch{CanViewClients: boolPtr(true)})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	_, err = services.AdminUpdatePermissions(db, alpha.admin.ID, models.PermissionsPatch{CanAccessChat: boolPtr(false)})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)
	var admin models.User
	require.NoError(t, db.First(&admin, "id = ?", alpha.admin.ID).Error)
	require.Equal(t, models.AllPermissions(), admin.Permissions)
}

func TestAdminResetPasswordAndStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	auth := newAuth()

	requireErrorType(t, services.ResetPassword(db, ten.staff.ID, "short"), types.TypeValidation, http.StatusBadRequest)
	requireErrorType(t, services.ResetPassword(db, "missing", "longenough"), types.TypeNotFound, http.StatusNotFound)

	require.NoError(t, services.ResetPassword(db, ten.staff.ID, "brand-new-secret"))
	_, err := auth.Login(db, ten.staff.Email, testutil.DefaultPassword)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)
	session, err := auth.Login(db, ten.staff.Email, "brand-new-secret")
	require.NoError(t, err)

	view, err := services.SetUserStatus(db, ten.staff.ID, "disabled")
	require.NoError(t, err)
	require.Equal(t, models.UserStatusDisabled, view.Status)

	_, err = auth.Authenticate(db, session.AccessToken)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)

	_, err = services.SetUserStatus(db, ten.staff.ID, "ARCHIVED")
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	_, err = services.SetUserStatus(db, ten.staff.ID, "ACTIVE")
	require.NoError(t, err)
	caller, err := auth.Authenticate(db, session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, ten.staff.ID, caller.UserID)
	require.True(t, caller.Can(access.CapTasks))
}
