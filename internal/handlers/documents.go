// documents.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/practice-portal/internal/middleware"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/localnerve/practice-portal/internal/types"
	"gorm.io/gorm"
)

// DocumentHandler handles document and folder routes
type DocumentHandler struct {
	DB    *gorm.DB
	Store *storage.Store
}

// List handles GET /api/documents
// @Summary List documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param folderId query string false "Folder filter"
// @Param clientId query string false "Client filter"
// @Success 200 {array} models.Document
// @Router /documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := services.ListDocuments(h.DB, middleware.CallerFrom(c), services.DocumentFilter{
		FolderID: c.Query("folderId"),
		ClientID: c.Query("clientId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(docs)
}

// Upload handles POST /api/documents
// @Summary Upload a document
// @Description Stores the file as the next version of its name within the folder
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File"
// @Param folderId formData string true "Folder ID"
// @Param clientId formData string true "Client ID"
// @Param status formData string false "Initial status"
// @Success 201 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 413 {object} utils.ErrorResponseStruct
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return types.Validation("No file uploaded")
	}
	doc, err := services.UploadDocument(h.DB, h.Store, middleware.CallerFrom(c), services.UploadInput{
		File:     file,
		FolderID: c.FormValue("folderId"),
		ClientID: c.FormValue("clientId"),
		Status:   c.FormValue("status"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Download handles GET /api/documents/:id/download
// @Summary Download a document
// @Tags Documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {file} file
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	doc, err := services.OpenDocument(h.DB, h.Store, middleware.CallerFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	if err := c.Download(doc.StoragePath, doc.FileName); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, doc.MimeType)
	return nil
}

// UpdateStatus handles PATCH /api/documents/:id/status
// @Summary Change document status
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param body body StatusRequest true "Status"
// @Success 200 {object} models.Document
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	doc, err := services.UpdateDocumentStatus(h.DB, middleware.CallerFrom(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// Delete handles DELETE /api/documents/:id
// @Summary Delete a document
// @Tags Documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := services.DeleteDocument(h.DB, h.Store, middleware.CallerFrom(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListFolders handles GET /api/documents/folders
// @Summary List folders
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param clientId query string false "Client filter"
// @Param financialYear query string false "Financial year filter"
// @Success 200 {array} services.FolderView
// @Router /documents/folders [get]
func (h *DocumentHandler) ListFolders(c *fiber.Ctx) error {
	folders, err := services.ListFolders(h.DB, middleware.CallerFrom(c), services.FolderFilter{
		ClientID:      c.Query("clientId"),
		FinancialYear: c.Query("financialYear"),
	})
	if err != nil {
		return err
	}
	return c.JSON(folders)
}

// EnsureFolder handles POST /api/documents/folders
// @Summary Create a folder, or return the existing one
// @Tags Documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.FolderInput true "Folder"
// @Success 200 {object} models.DocumentFolder
// @Success 201 {object} models.DocumentFolder
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /documents/folders [post]
func (h *DocumentHandler) EnsureFolder(c *fiber.Ctx) error {
	var in services.FolderInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	folder, created, err := services.EnsureFolder(h.DB, middleware.CallerFrom(c), in)
	if err != nil {
		return err
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(folder)
}
