// document_service.go
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

package services

import (
	"errors"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/database"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/localnerve/practice-portal/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versionAttempts bounds retries when concurrent uploads race for a version number
const versionAttempts = 5

// DocumentFilter narrows a document listing
type DocumentFilter struct {
	FolderID string
	ClientID string
}

// UploadInput is a received multipart upload
type UploadInput struct {
	File     *multipart.FileHeader
	FolderID string
	ClientID string
	Status   string
}

// FolderFilter narrows a folder listing
type FolderFilter struct {
	ClientID      string
	FinancialYear string
}

// FolderInput is the body of a folder upsert request
type FolderInput struct {
	ClientID       string  `json:"clientId"`
	FinancialYear  string  `json:"financialYear"`
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parentFolderId"`
}

// FolderView is a folder with its content counts
type FolderView struct {
	models.DocumentFolder
	DocumentCount  int64 `json:"documentCount"`
	SubfolderCount int64 `json:"subfolderCount"`
}

// ListDocuments returns documents in the caller's scope, newest first
func ListDocuments(db *gorm.DB, caller access.Caller, filter DocumentFilter) ([]models.Document, error) {
	q := tenantWhere(db, caller).Preload("UploadedBy", userRefColumns)
	if !caller.IsClient() && filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.FolderID != "" {
		q = q.Where("folder_id = ?", filter.FolderID)
	}
	docs := []models.Document{}
	err := q.Order("uploaded_at DESC").Order("version_number DESC").Find(&docs).Error
	return docs, err
}

// UploadDocument stores a file and records it as the next version of its name in the folder.
// The blob is removed again whenever the record cannot be created.
func UploadDocument(db *gorm.DB, store *storage.Store, caller access.Caller, in UploadInput) (*models.Document, error) {
	if in.File == nil {
		return nil, types.Validation("No file uploaded")
	}
	if in.FolderID == "" || in.ClientID == "" {
		return nil, types.Validation("folderId and clientId are required")
	}
	status := models.DocumentUploaded
	if in.Status != "" {
		status = models.DocumentStatus(strings.ToUpper(in.Status))
		if !status.Valid() {
			return nil, types.Validation("Invalid status")
		}
	}

	saved, err := store.Save(in.File)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, types.Validation("File exceeds the upload size limit")
		}
		return nil, err
	}

	doc, err := recordUpload(db, caller, in, status, saved)
	if err != nil {
		if rmErr := store.Remove(saved.Path); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", saved.Path).Msg("failed to remove rejected upload")
		}
		return nil, err
	}
	return doc, nil
}

func recordUpload(db *gorm.DB, caller access.Caller, in UploadInput, status models.DocumentStatus, saved *storage.Saved) (*models.Document, error) {
	if !caller.OwnsClient(caller.FirmID, in.ClientID) {
		return nil, types.Validation("Client not found")
	}
	var client models.Client
	if err := db.Where("id = ? AND firm_id = ?", in.ClientID, caller.FirmID).First(&client).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.Validation("Client not found")
		}
		return nil, err
	}

	var folder models.DocumentFolder
	if err := db.Where("id = ? AND firm_id = ? AND client_id = ?", in.FolderID, caller.FirmID, client.ID).First(&folder).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, types.Validation("Folder not found for this client")
		}
		return nil, err
	}

	fileName := filepath.Base(in.File.Filename)
	doc := &models.Document{
		FolderID:     folder.ID,
		FirmID:       caller.FirmID,
		ClientID:     client.ID,
		FileName:     fileName,
		MimeType:     detectMimeType(in.File),
		SizeBytes:    saved.Size,
		StoragePath:  saved.Path,
		Status:       status,
		UploadedByID: caller.UserID,
	}

	var err error
	for attempt := 0; attempt < versionAttempts; attempt++ {
		err = db.Transaction(func(tx *gorm.DB) error {
			var latest models.Document
			res := tx.Where("folder_id = ? AND file_name = ?", folder.ID, fileName).
				Order("version_number DESC").Limit(1).Find(&latest)
			if res.Error != nil {
				return res.Error
			}
			doc.ID = ""
			if res.RowsAffected == 0 {
				doc.VersionNumber = 1
				doc.VersionGroupID = uuid.NewString()
			} else {
				doc.VersionNumber = latest.VersionNumber + 1
				doc.VersionGroupID = latest.VersionGroupID
			}
			if err := tx.Create(doc).Error; err != nil {
				return err
			}
			if caller.IsClient() {
				admins, err := firmAdminIDs(tx, caller.FirmID)
				if err != nil {
					return err
				}
				return Notify(tx, admins, models.NotifyDocumentUploaded, map[string]interface{}{
					"documentId":    doc.ID,
					"fileName":      doc.FileName,
					"clientId":      client.ID,
					"clientName":    client.DisplayName,
					"versionNumber": doc.VersionNumber,
				})
			}
			return nil
		})
		if err == nil || !database.IsDuplicateKey(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	var created models.Document
	if err := db.Preload("UploadedBy", userRefColumns).Where("id = ?", doc.ID).First(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// detectMimeType prefers the part header and falls back to the file extension
func detectMimeType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(fh.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// OpenDocument returns a document whose blob is still on disk
func OpenDocument(db *gorm.DB, store *storage.Store, caller access.Caller, id string) (*models.Document, error) {
	var doc models.Document
	if err := firstOrNotFound(tenantWhere(db, caller).Where("id = ?", id), &doc, "Document not found"); err != nil {
		return nil, err
	}
	if !store.Exists(doc.StoragePath) {
		return nil, types.NotFound("File not found on server")
	}
	return &doc, nil
}

// UpdateDocumentStatus sets the review status of a firm document
func UpdateDocumentStatus(db *gorm.DB, caller access.Caller, id, status string) (*models.Document, error) {
	next := models.DocumentStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, types.Validation("Invalid status")
	}
	var doc models.Document
	if err := firstOrNotFound(tenantWhere(db, caller).Where("id = ?", id), &doc, "Document not found"); err != nil {
		return nil, err
	}
	if err := db.Model(&doc).Update("status", next).Error; err != nil {
		return nil, err
	}
	var updated models.Document
	if err := db.Preload("UploadedBy", userRefColumns).Where("id = ?", doc.ID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDocument removes the record, then the blob on a best-effort basis
func DeleteDocument(db *gorm.DB, store *storage.Store, caller access.Caller, id string) error {
	var doc models.Document
	if err := firstOrNotFound(tenantWhere(db, caller).Where("id = ?", id), &doc, "Document not found"); err != nil {
		return err
	}
	if err := db.Delete(&models.Document{}, "id = ?", doc.ID).Error; err != nil {
		return err
	}
	if err := store.Remove(doc.StoragePath); err != nil {
		log.Warn().Err(err).Str("document", doc.ID).Msg("failed to delete document file from disk")
	}
	return nil
}

// ListFolders returns folders in the caller's scope with their content counts
func ListFolders(db *gorm.DB, caller access.Caller, filter FolderFilter) ([]FolderView, error) {
	q := tenantWhere(db, caller)
	if !caller.IsClient() && filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.FinancialYear != "" {
		q = q.Where("financial_year = ?", filter.FinancialYear)
	}
	var folders []models.DocumentFolder
	if err := q.Order("name ASC").Find(&folders).Error; err != nil {
		return nil, err
	}

	views := make([]FolderView, len(folders))
	if len(folders) == 0 {
		return views, nil
	}
	ids := make([]string, len(folders))
	for i, f := range folders {
		ids[i] = f.ID
	}

	docCounts, err := countBy(db.Model(&models.Document{}).Where("folder_id IN ?", ids), "folder_id")
	if err != nil {
		return nil, err
	}
	subCounts, err := countBy(db.Model(&models.DocumentFolder{}).Where("parent_folder_id IN ?", ids), "parent_folder_id")
	if err != nil {
		return nil, err
	}

	for i, f := range folders {
		views[i] = FolderView{DocumentFolder: f, DocumentCount: docCounts[f.ID], SubfolderCount: subCounts[f.ID]}
	}
	return views, nil
}

func countBy(q *gorm.DB, column string) (map[string]int64, error) {
	var rows []struct {
		GroupKey string
		Total    int64
	}
	err := q.Select(column + " AS group_key, COUNT(*) AS total").Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.GroupKey] = r.Total
	}
	return counts, nil
}

// EnsureFolder finds or creates a folder by its natural key.
// The unique index settles concurrent creators; created reports whether this call inserted it.
func EnsureFolder(db *gorm.DB, caller access.Caller, in FolderInput) (*models.DocumentFolder, bool, error) {
	in.ClientID = caller.ClientScope(strings.TrimSpace(in.ClientID))
	in.FinancialYear = strings.TrimSpace(in.FinancialYear)
	in.Name = strings.TrimSpace(in.Name)
	if in.ClientID == "" || in.FinancialYear == "" || in.Name == "" {
		return nil, false, types.Validation("clientId, financialYear, and name are required")
	}

	client, err := requireClientInFirm(db, caller, in.ClientID)
	if err != nil {
		return nil, false, err
	}

	parent := optionalString(in.ParentFolderID)
	if parent != nil {
		var count int64
		err := db.Model(&models.DocumentFolder{}).
			Where("id = ? AND firm_id = ? AND client_id = ?", *parent, caller.FirmID, client.ID).
			Count(&count).Error
		if err != nil {
			return nil, false, err
		}
		if count == 0 {
			return nil, false, types.NotFound("Parent folder not found")
		}
	}

	folder := &models.DocumentFolder{
		FirmID:         caller.FirmID,
		ClientID:       client.ID,
		FinancialYear:  in.FinancialYear,
		Name:           in.Name,
		ParentFolderID: parent,
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(folder)
	if res.Error != nil && !database.IsDuplicateKey(res.Error) {
		return nil, false, res.Error
	}
	created := res.Error == nil && res.RowsAffected == 1

	var stored models.DocumentFolder
	err = db.Where("firm_id = ? AND client_id = ? AND financial_year = ? AND name = ? AND parent_key = ?",
		caller.FirmID, client.ID, in.FinancialYear, in.Name, models.FolderParentKey(parent)).
		First(&stored).Error
	if err != nil {
		return nil, false, err
	}
	return &stored, created, nil
}
