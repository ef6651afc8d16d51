// helpers_test.go
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
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/server"
	"github.com/localnerve/practice-portal/internal/services"
	"github.com/localnerve/practice-portal/internal/storage"
	"github.com/localnerve/practice-portal/internal/testutil"
	"github.com/localnerve/practice-portal/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// harness is the full app over an in-memory database
type harness struct {
	t     *testing.T
	db    *gorm.DB
	auth  *services.Auth
	store *storage.Store
	app   *fiber.App
}

func newHarness(t *testing.T, tune ...func(*config.Config)) *harness {
	t.Helper()
	cfg := &config.Config{
		AppEnv:           "test",
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  24 * time.Hour,
		UploadMaxBytes:   1 << 20,
	}
	for _, fn := range tune {
		fn(cfg)
	}

	db := testutil.NewTestDB(t)
	store, err := storage.New(t.TempDir(), cfg.UploadMaxBytes)
	require.NoError(t, err)
	auth := services.NewAuth(cfg)

	return &harness{
		t:     t,
		db:    db,
		auth:  auth,
		store: store,
		app:   server.New(cfg, db, store, auth, server.Options{}),
	}
}

// token logs u in with the fixture password
func (h *harness) token(u *models.User) string {
	h.t.Helper()
	session, err := h.auth.Login(h.db, u.Email, testutil.DefaultPassword)
	require.NoError(h.t, err)
	return session.AccessToken
}

func (h *harness) request(method, path, token string, body interface{}) *http.Response {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.send(req)
}

func (h *harness) send(req *http.Request) *http.Response {
	h.t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	return resp
}

// upload posts a multipart document upload
func (h *harness) upload(token, folderID, clientID, name, mimeType, content string) *http.Response {
	h.t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part := textproto.MIMEHeader{}
	part.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	part.Set("Content-Type", mimeType)
	fw, err := w.CreatePart(part)
	require.NoError(h.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(h.t, err)
	require.NoError(h.t, w.WriteField("folderId", folderID))
	require.NoError(h.t, w.WriteField("clientId", clientID))
	require.NoError(h.t, w.Close())

	req := httptest.NewRequest("POST", "/api/documents", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return h.send(req)
}

// tenant is one firm with an admin, a staff member limited to tasks and a client
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

// AssertStatus verifies the HTTP status code
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(body))
	}
}

// ParseJSON decodes the response body into the target
func ParseJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	defer resp.Body.Close()

	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("Failed to decode JSON: %v. Body: %s", err, string(body))
	}
}

// AssertNoContent verifies that the response body is empty (for 204s)
func AssertNoContent(t *testing.T, resp *http.Response) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	defer resp.Body.Close()

	if len(body) > 0 {
		t.Errorf("Expected empty body for 204 No Content, got: %s", string(body))
	}
}

// AssertError verifies the status and message of an error envelope
func AssertError(t *testing.T, resp *http.Response, status int, message string) utils.ErrorResponseStruct {
	t.Helper()
	AssertStatus(t, resp, status)
	var envelope utils.ErrorResponseStruct
	ParseJSON(t, resp, &envelope)
	require.False(t, envelope.Ok)
	require.Equal(t, status, envelope.Status)
	if message != "" {
		require.Equal(t, message, envelope.Message)
	}
	return envelope
}
