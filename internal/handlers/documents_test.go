// documents_test.go
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
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/stretchr/testify/require"
)

func ensureFolder(t *testing.T, h *harness, token string, in services.FolderInput, status int) models.DocumentFolder {
	t.Helper()
	resp := h.request("POST", "/api/documents/folders", token, in)
	AssertStatus(t, resp, status)
	var folder models.DocumentFolder
	ParseJSON(t, resp, &folder)
	return folder
}

func TestEnsureFolderCreatesOnce(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	token := h.token(ten.admin)
	in := services.FolderInput{ClientID: ten.client.ID, FinancialYear: "2024-25", Name: "GST"}

	first := ensureFolder(t, h, token, in, http.StatusCreated)
	second := ensureFolder(t, h, token, in, http.StatusOK)
	require.Equal(t, first.ID, second.ID)

	child := ensureFolder(t, h, token, services.FolderInput{
		ClientID: ten.client.ID, FinancialYear: "2024-25", Name: "GST", ParentFolderID: &first.ID,
	}, http.StatusCreated)
	require.NotEqual(t, first.ID, child.ID)

	resp := h.request("GET", "/api/documents/folders?clientId="+ten.client.ID, token, nil)
	AssertStatus(t, resp, http.StatusOK)
	var folders []services.FolderView
	ParseJSON(t, resp, &folders)
	require.Len(t, folders, 2)
}

func TestUploadVersionsAndDownload(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	token := h.token(ten.admin)
	folder := ensureFolder(t, h, token, services.FolderInput{
		ClientID: ten.client.ID, FinancialYear: "2024-25", Name: "ITR",
	}, http.StatusCreated)

	var versions []models.Document
	for _, content := range []string{"first draft", "final return"} {
		resp := h.upload(token, folder.ID, ten.client.ID, "return.pdf", "application/pdf", content)
		AssertStatus(t, resp, http.StatusCreated)
		var doc models.Document
		ParseJSON(t, resp, &doc)
		versions = append(versions, doc)
	}
	require.Equal(t, 1, versions[0].VersionNumber)
	require.Equal(t, 2, versions[1].VersionNumber)
	require.Equal(t, versions[0].VersionGroupID, versions[1].VersionGroupID)
	require.Equal(t, models.DocumentUploaded, versions[1].Status)

	resp := h.request("GET", "/api/documents/"+versions[1].ID+"/download", token, nil)
	AssertStatus(t, resp, http.StatusOK)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "final return", string(body))

	resp = h.request("GET", "/api/documents?folderId="+folder.ID, h.token(ten.clientUser), nil)
	AssertStatus(t, resp, http.StatusOK)
	var listed []models.Document
	ParseJSON(t, resp, &listed)
	require.Len(t, listed, 2)
}

func TestUploadRejectsForeignFolder(t *testing.T) {
	h := newHarness(t)
	alpha := newTenant(t, h.db, "alpha")
	beta := newTenant(t, h.db, "beta")
	betaFolder := ensureFolder(t, h, h.token(beta.admin), services.FolderInput{
		ClientID: beta.client.ID, FinancialYear: "2024-25", Name: "ITR",
	}, http.StatusCreated)

	resp := h.upload(h.token(alpha.admin), betaFolder.ID, alpha.client.ID, "return.pdf", "application/pdf", "x")
	AssertError(t, resp, http.StatusBadRequest, "Folder not found for this client")

	entries, err := os.ReadDir(h.store.Dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	var count int64
	require.NoError(t, h.db.Model(&models.Document{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestDocumentStatusAndDelete(t *testing.T) {
	h := newHarness(t)
	ten := newTenant(t, h.db, "alpha")
	token := h.token(ten.admin)
	folder := ensureFolder(t, h, token, services.FolderInput{
		ClientID: ten.client.ID, FinancialYear: "2024-25", Name: "Audit",
	}, http.StatusCreated)

	resp := h.upload(h.token(ten.clientUser), folder.ID, ten.client.ID, "ledger.xlsx", "application/vnd.ms-excel", "rows")
	AssertStatus(t, resp, http.StatusCreated)
	var doc models.Document
	ParseJSON(t, resp, &doc)

	AssertError(t, h.request("PATCH", "/api/documents/"+doc.ID+"/status", h.token(ten.clientUser),
		map[string]string{"status": "REVIEWED"}), http.StatusForbidden, "")

	resp = h.request("PATCH", "/api/documents/"+doc.ID+"/status", token, map[string]string{"status": "reviewed"})
	AssertStatus(t, resp, http.StatusOK)
	var reviewed models.Document
	ParseJSON(t, resp, &reviewed)
	require.Equal(t, models.DocumentReviewed, reviewed.Status)

	resp = h.request("DELETE", "/api/documents/"+doc.ID, token, nil)
	AssertStatus(t, resp, http.StatusNoContent)
	AssertNoContent(t, resp)

	AssertError(t, h.request("GET", "/api/documents/"+doc.ID+"/download", token, nil), http.StatusNotFound, "")
}
