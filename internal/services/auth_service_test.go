// auth_service_test.go
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
	"time"

	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/localnerve/practice-portal/internal/types"
	"github.com/stretchr/testify/require"
)

func TestLoginIssuesTokensAndProjection(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	auth := newAuth()

	session, err := auth.Login(db, "CLIENT@alpha.test", testutil.DefaultPassword)
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	require.NotEqual(t, session.AccessToken, session.RefreshToken)
	require.Equal(t, ten.clientUser.ID, session.User.ID)
	require.Equal(t, models.RoleClient, session.User.Role)
	require.NotNil(t, session.User.ClientID)
	require.Equal(t, ten.client.ID, *session.User.ClientID)
	require.NotNil(t, session.User.FirmName)
	require.Equal(t, ten.firm.Name, *session.User.FirmName)

	caller, err := auth.Authenticate(db, session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, ten.clientUser.ID, caller.UserID)
	require.Equal(t, ten.client.ID, caller.ClientID)
	require.Equal(t, ten.firm.ID, caller.FirmID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	auth := newAuth()

	_, wrongPassword := auth.Login(db, ten.admin.Email, "not-the-password")
	_, unknownEmail := auth.Login(db, "nobody@alpha.test", "not-the-password")

	requireErrorType(t, wrongPassword, types.TypeUnauthorized, http.StatusUnauthorized)
	require.Equal(t, wrongPassword, unknownEmail)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", ten.staff.ID).Update("status", models.UserStatusDisabled).Error)
	_, disabled := auth.Login(db, ten.staff.Email, testutil.DefaultPassword)
	require.Equal(t, wrongPassword, disabled)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	auth := newAuth()

	session, err := auth.Login(db, ten.admin.Email, testutil.DefaultPassword)
	require.NoError(t, err)

	_, err = auth.Authenticate(db, session.RefreshToken)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)

	_, err = auth.Authenticate(db, "not.a.token")
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)

	expired := newAuth()
	expired.AccessTTL = -time.Minute
	stale, err := expired.Login(db, ten.admin.Email, testutil.DefaultPassword)
	require.NoError(t, err)
	_, err = auth.Authenticate(db, stale.AccessToken)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", ten.admin.ID).Error)
	_, err = auth.Authenticate(db, session.AccessToken)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)
}

func TestAuthenticateReadsCurrentRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	auth := newAuth()

	session, err := auth.Login(db, ten.staff.Email, testutil.DefaultPassword)
	require.NoError(t, err)

	caller, err := auth.Authenticate(db, session.AccessToken)
	require.NoError(t, err)
	require.True(t, caller.Can(access.CapTasks))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", ten.staff.ID).Update("can_access_tasks", false).Error)
	caller, err = auth.Authenticate(db, session.AccessToken)
	require.NoError(t, err)
	require.False(t, caller.Can(access.CapTasks))

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", ten.staff.ID).Update("status", models.UserStatusDisabled).Error)
	_, err = auth.Authenticate(db, session.AccessToken)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)
}

func TestRefresh(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	auth := newAuth()

	session, err := auth.Login(db, ten.admin.Email, testutil.DefaultPassword)
	require.NoError(t, err)

	refreshed, err := auth.Refresh(db, session.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, ten.admin.ID, refreshed.User.ID)

	_, err = auth.Authenticate(db, refreshed.AccessToken)
	require.NoError(t, err)

	_, err = auth.Refresh(db, session.AccessToken)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	ten := newTenant(t, db, "alpha")
	auth := newAuth()
	caller := ten.adminCaller()

	err := services.ChangePassword(db, caller, "wrong-password", "a-new-password")
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	err = services.ChangePassword(db, caller, testutil.DefaultPassword, "short")
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	require.NoError(t, services.ChangePassword(db, caller, testutil.DefaultPassword, "a-new-password"))

	_, err = auth.Login(db, ten.admin.Email, testutil.DefaultPassword)
	requireErrorType(t, err, types.TypeUnauthorized, http.StatusUnauthorized)
	_, err = auth.Login(db, ten.admin.Email, "a-new-password")
	require.NoError(t, err)
}
