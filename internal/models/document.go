// document.go
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

package models

import (
	"time"

	"gorm.io/gorm"
)

// DocumentStatus is the review state of a document
type DocumentStatus string

const (
	DocumentRequested DocumentStatus = "REQUESTED"
	DocumentUploaded  DocumentStatus = "UPLOADED"
	DocumentReviewed  DocumentStatus = "REVIEWED"
	DocumentApproved  DocumentStatus = "APPROVED"
)

// Valid reports whether s is a known document status
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentRequested, DocumentUploaded, DocumentReviewed, DocumentApproved:
		return true
	}
	return false
}

// DocumentFolder groups a client's documents by financial year.
// ParentKey mirrors ParentFolderID with "" for root folders so the natural key
// can be a plain unique index on every dialect.
type DocumentFolder struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	FirmID         string    `gorm:"type:char(36);not null;uniqueIndex:idx_folder_natural,priority:1" json:"firmId"`
	ClientID       string    `gorm:"type:char(36);not null;uniqueIndex:idx_folder_natural,priority:2;index" json:"clientId"`
	FinancialYear  string    `gorm:"size:16;not null;uniqueIndex:idx_folder_natural,priority:3" json:"financialYear"`
	Name           string    `gorm:"size:255;not null;uniqueIndex:idx_folder_natural,priority:4" json:"name"`
	ParentKey      string    `gorm:"size:36;not null;default:'';uniqueIndex:idx_folder_natural,priority:5" json:"-"`
	ParentFolderID *string   `gorm:"type:char(36);index" json:"parentFolderId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BeforeCreate assigns the primary key and the parent key
func (f *DocumentFolder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = newID()
	}
	f.ParentKey = FolderParentKey(f.ParentFolderID)
	return nil
}

// FolderParentKey returns the stored parent key for a parent folder id
func FolderParentKey(parentFolderID *string) string {
	if parentFolderID == nil {
		return ""
	}
	return *parentFolderID
}

// TableName overrides the table name for DocumentFolder
func (DocumentFolder) TableName() string {
	return "document_folders"
}

// Document is one stored version of a named file in a folder
type Document struct {
	ID             string         `gorm:"type:char(36);primaryKey" json:"id"`
	FolderID       string         `gorm:"type:char(36);not null;uniqueIndex:idx_document_version,priority:1" json:"folderId"`
	FirmID         string         `gorm:"type:char(36);not null;index" json:"firmId"`
	ClientID       string         `gorm:"type:char(36);not null;index" json:"clientId"`
	FileName       string         `gorm:"size:255;not null;uniqueIndex:idx_document_version,priority:2" json:"fileName"`
	VersionNumber  int            `gorm:"not null;uniqueIndex:idx_document_version,priority:3" json:"versionNumber"`
	VersionGroupID string         `gorm:"type:char(36);not null;index" json:"versionGroupId"`
	MimeType       string         `gorm:"size:255;not null" json:"mimeType"`
	SizeBytes      int64          `gorm:"not null;default:0" json:"sizeBytes"`
	StoragePath    string         `gorm:"size:512;not null" json:"-"`
	Status         DocumentStatus `gorm:"size:16;not null;default:UPLOADED" json:"status"`
	UploadedByID   string         `gorm:"type:char(36);not null" json:"uploadedById"`
	UploadedAt     time.Time      `gorm:"not null;index" json:"uploadedAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	UploadedBy *UserRef `gorm:"foreignKey:UploadedByID;-:migration" json:"uploadedBy,omitempty"`
}

// BeforeCreate assigns the primary key and upload time
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = newID()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	if d.Status == "" {
		d.Status = DocumentUploaded
	}
	return nil
}

// TableName overrides the table name for Document
func (Document) TableName() string {
	return "documents"
}
