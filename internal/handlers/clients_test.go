// clients_test.go
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

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/localnerve/practice-portal/internal/models"
	"github.com/stretchr/testify/require"
)

func clientBody(name, pan, email string) map[string]string {
	return map[string]string{
		"displayName":  name,
		"type":         "individual",
		"pan":          pan,
		"contactName":  name,
		"contactEmail": email,
	}
}

func TestCreateClientDuplicatePANLeavesNoUser(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	token := h.token(ten.admin)

	resp := h.request("POST", "/api/clients", token, clientBody("Ravi Kumar", "abcde1234f", "ravi@example.test"))
	AssertStatus(t, resp, http.StatusCreated)
	var created models.Client
	ParseJSON(t, resp, &created)
	require.Equal(t, "ABCDE1234F", *created.PAN)
	require.Equal(t, models.ClientTypeIndividual, created.Type)

	envelope := AssertError(t, h.request("POST", "/api/clients", token, clientBody("Ravi K", "ABCDE1234F", "ravi.k@example.test")),
		http.StatusBadRequest, "")
	require.Equal(t, "conflict", envelope.Type)

	var orphans int64
	require.NoError(t, h.db.Model(&models.User{}).Where("email = ?", "ravi.k@example.test").Count(&orphans).Error)
	require.Zero(t, orphans)
}

func TestUpdateClient(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	token := h.token(ten.admin)

	resp := h.request("PUT", "/api/clients/"+ten.client.ID, token, map[string]string{"displayName": "Renamed Client"})
	AssertStatus(t, resp, http.StatusOK)
	var updated models.Client
	ParseJSON(t, resp, &updated)
	require.Equal(t, "Renamed Client", updated.DisplayName)

	AssertError(t, h.request("PUT", "/api/clients/"+ten.client.ID, token, map[string]string{"type": "TRUST"}),
		http.StatusBadRequest, "")

	resp = h.request("GET", "/api/clients/"+ten.client.ID, h.token(ten.clientUser), nil)
	AssertStatus(t, resp, http.StatusOK)
}
