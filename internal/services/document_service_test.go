// document_service_test.go
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
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/localnerve/practice-portal/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func uploadFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func ensureFolder(t *testing.T, db *gorm.DB, ten *tenant, name string) *models.DocumentFolder {
	t.Helper()
	folder, _, err := services.EnsureFolder(db, ten.adminCaller(), services.FolderInput{
		ClientID:      ten.client.ID,
		FinancialYear: "2024-25",
		Name:          name,
	})
	require.NoError(t, err)
	return folder
}

func TestUploadVersionsByFileNameWithinFolder(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := newStore(t)
	ten := newTenant(t, db, "alpha")
	folder := ensureFolder(t, db, ten, "ITR")

	in := services.UploadInput{FolderID: folder.ID, ClientID: ten.client.ID}

	in.File = uploadFile(t, "return.pdf", []byte("first"))
	first, err := services.UploadDocument(db, store, ten.adminCaller(), in)
	require.NoError(t, err)

	in.File = uploadFile(t, "return.pdf", []byte("second"))
	second, err := services.UploadDocument(db, store, ten.adminCaller(), in)
	require.NoError(t, err)

	require.Equal(t, 1, first.VersionNumber)
	require.Equal(t, 2, second.VersionNumber)
	require.Equal(t, first.VersionGroupID, second.VersionGroupID)
	require.NotEqual(t, first.StoragePath, second.StoragePath)
	require.Equal(t, models.DocumentUploaded, second.Status)

	in.File = uploadFile(t, "return-v2.pdf", []byte("renamed"))
	renamed, err := services.UploadDocument(db, store, ten.adminCaller(), in)
	require.NoError(t, err)
	require.Equal(t, 1, renamed.VersionNumber)
	require.NotEqual(t, first.VersionGroupID, renamed.VersionGroupID)

	other := ensureFolder(t, db, ten, "GST")
	in.FolderID = other.ID
	in.File = uploadFile(t, "return.pdf", []byte("elsewhere"))
	elsewhere, err := services.UploadDocument(db, store, ten.adminCaller(), in)
	require.NoError(t, err)
	require.Equal(t, 1, elsewhere.VersionNumber)
}

func TestUploadRejectsForeignClientAndRemovesBlob(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := newStore(t)
	alpha := newTenant(t, db, "alpha")
	beta := newTenant(t, db, "beta")
	betaFolder := ensureFolder(t, db, beta, "ITR")
	alphaFolder := ensureFolder(t, db, alpha, "ITR")

	_, err := services.UploadDocument(db, store, alpha.adminCaller(), services.UploadInput{
		File:     uploadFile(t, "return.pdf", []byte("data")),
		FolderID: betaFolder.ID,
		ClientID: beta.client.ID,
	})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	_, err = services.UploadDocument(db, store, alpha.adminCaller(), services.UploadInput{
		File:     uploadFile(t, "return.pdf", []byte("data")),
		FolderID: betaFolder.ID,
		ClientID: alpha.client.ID,
	})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	other, _ := testutil.CreateClient(t, db, alpha.firm, "Other", "other@alpha.test")
	_, err = services.UploadDocument(db, store, alpha.clientCaller(), services.UploadInput{
		File:     uploadFile(t, "return.pdf", []byte("data")),
		FolderID: alphaFolder.ID,
		ClientID: other.ID,
	})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	entries, err := os.ReadDir(store.Dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	var count int64
	require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestClientUploadNotifiesFirmAdmins(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := newStore(t)
	ten := newTenant(t, db, "alpha")
	folder := ensureFolder(t, db, ten, "ITR")

	doc, err := services.UploadDocument(db, store, ten.clientCaller(), services.UploadInput{
		File:     uploadFile(t, "form16.pdf", []byte("data")),
		FolderID: folder.ID,
		ClientID: ten.client.ID,
	})
	require.NoError(t, err)
	require.Equal(t, ten.clientUser.ID, doc.UploadedByID)

	require.Len(t, notificationsOf(t, db, ten.admin.ID, models.NotifyDocumentUploaded), 1)
	require.Empty(t, notificationsOf(t, db, ten.staff.ID, models.NotifyDocumentUploaded))
}

func TestEnsureFolderIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	alpha := newTenant(t, db, "alpha")
	beta := newTenant(t, db, "beta")

	in := services.FolderInput{ClientID: alpha.client.ID, FinancialYear: "2024-25", Name: "ITR"}
	first, created, err := services.EnsureFolder(db, alpha.adminCaller(), in)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := services.EnsureFolder(db, alpha.adminCaller(), in)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)

	child, created, err := services.EnsureFolder(db, alpha.adminCaller(), services.FolderInput{
		ClientID: alpha.client.ID, FinancialYear: "2024-25", Name: "ITR", ParentFolderID: &first.ID,
	})
	require.NoError(t, err)
	require.True(t, created)
	require.NotEqual(t, first.ID, child.ID)

	_, _, err = services.EnsureFolder(db, beta.adminCaller(), in)
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	_, _, err = services.EnsureFolder(db, alpha.adminCaller(), services.FolderInput{ClientID: alpha.client.ID})
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	folders, err := services.ListFolders(db, alpha.adminCaller(), services.FolderFilter{FinancialYear: "2024-25"})
	require.NoError(t, err)
	require.Len(t, folders, 2)
	for _, f := range folders {
		if f.ID == first.ID {
			require.Equal(t, int64(1), f.SubfolderCount)
		}
	}
}

func TestDocumentStatusDownloadAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := newStore(t)
	alpha := newTenant(t, db, "alpha")
	beta := newTenant(t, db, "beta")
	folder := ensureFolder(t, db, alpha, "ITR")

	doc, err := services.UploadDocument(db, store, alpha.adminCaller(), services.UploadInput{
		File:     uploadFile(t, "return.pdf", []byte("data")),
		FolderID: folder.ID,
		ClientID: alpha.client.ID,
	})
	require.NoError(t, err)

	_, err = services.OpenDocument(db, store, beta.adminCaller(), doc.ID)
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)

	opened, err := services.OpenDocument(db, store, alpha.clientCaller(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, "return.pdf", opened.FileName)

	reviewed, err := services.UpdateDocumentStatus(db, alpha.adminCaller(), doc.ID, "reviewed")
	require.NoError(t, err)
	require.Equal(t, models.DocumentReviewed, reviewed.Status)

	_, err = services.UpdateDocumentStatus(db, alpha.adminCaller(), doc.ID, "LOST")
	requireErrorType(t, err, types.TypeValidation, http.StatusBadRequest)

	listed, err := services.ListDocuments(db, alpha.adminCaller(), services.DocumentFilter{FolderID: folder.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, services.DeleteDocument(db, store, alpha.adminCaller(), doc.ID))
	require.False(t, store.Exists(opened.StoragePath))

	_, err = services.OpenDocument(db, store, alpha.adminCaller(), doc.ID)
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)
}

func TestOpenDocumentMissingBlob(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := newStore(t)
	ten := newTenant(t, db, "alpha")
	folder := ensureFolder(t, db, ten, "ITR")

	doc, err := services.UploadDocument(db, store, ten.adminCaller(), services.UploadInput{
		File:     uploadFile(t, "return.pdf", []byte("data")),
		FolderID: folder.ID,
		ClientID: ten.client.ID,
	})
	require.NoError(t, err)

	var stored models.Document
	require.NoError(t, db.Where("id = ?", doc.ID).First(&stored).Error)
	require.NoError(t, os.Remove(stored.StoragePath))

	_, err = services.OpenDocument(db, store, ten.adminCaller(), doc.ID)
	requireErrorType(t, err, types.TypeNotFound, http.StatusNotFound)
	ce, _ := types.AsCustomError(err)
	require.Equal(t, "File not found on server", ce.Message)
}
