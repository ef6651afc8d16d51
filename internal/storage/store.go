// store.go
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

// Package storage keeps uploaded file bytes on local disk under randomized names.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured cap
var ErrTooLarge = errors.New("file exceeds upload size limit")

// Store saves and serves blobs from a single directory
type Store struct {
	Dir      string
	MaxBytes int64
}

// New creates the upload directory when missing
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{Dir: dir, MaxBytes: maxBytes}, nil
}

// Saved describes a blob written to disk
type Saved struct {
	Path string
	Size int64
}

// Save writes the uploaded file as <uuid><ext>. Nothing is left on disk when it fails.
func (s *Store) Save(fh *multipart.FileHeader) (*Saved, error) {
	if fh.Size > s.MaxBytes {
		return nil, ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(s.Dir, name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob: %w", err)
	}

	// one byte past the cap detects a lying header
	n, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return &Saved{Path: path, Size: n}, nil
}

// Remove deletes a blob. A missing blob is not an error.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether a blob is still on disk
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Writable checks that a file can be created in the upload directory
func (s *Store) Writable() error {
	f, err := os.CreateTemp(s.Dir, ".healthcheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
