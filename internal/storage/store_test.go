// store_test.go
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

package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
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

func TestSaveAndRemove(t *testing.T) {
	store, err := New(t.TempDir(), 1024)
	require.NoError(t, err)

	saved, err := store.Save(fileHeader(t, "Return.PDF", []byte("hello")))
	require.NoError(t, err)
	require.Equal(t, int64(5), saved.Size)
	require.True(t, strings.HasSuffix(saved.Path, ".pdf"))
	require.True(t, store.Exists(saved.Path))

	require.NoError(t, store.Remove(saved.Path))
	require.False(t, store.Exists(saved.Path))
	require.NoError(t, store.Remove(saved.Path))
}

func TestSaveRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, 4)
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "big.bin", []byte("too large")))
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWritable(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "nested"), 10)
	require.NoError(t, err)
	require.NoError(t, store.Writable())
}
