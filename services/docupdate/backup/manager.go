// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package backup copies documentation files aside before they are edited.
//
// Backups are scoped: one Scope covers one apply invocation, and within a
// scope each source file is copied at most once, before its first edit.
// Backup names encode the corpus-relative path, a timestamp, and the
// scope ID, so concurrent applies never collide.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSourceMissing indicates a backup was requested for a file that does
// not exist.
var ErrSourceMissing = errors.New("backup source does not exist")

const (
	backupTimeFormat = "20060102T150405"
	backupSuffix     = ".bak"
	copyBufferSize   = 64 * 1024
)

// Record describes one backup file.
type Record struct {
	// Name is the backup file's name inside the backup directory.
	Name string `json:"name"`

	// OriginalPath is the corpus-relative path that was backed up.
	OriginalPath string `json:"original_path"`

	// Size in bytes of the backed-up content.
	Size int64 `json:"size"`

	// CreatedAt is when the backup was written.
	CreatedAt time.Time `json:"created_at"`
}

// Manager owns the backup directory.
type Manager struct {
	dir string
}

// NewManager creates the backup directory if needed and returns a Manager
// over it.
func NewManager(dir string) (*Manager, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup dir %s: %w", abs, err)
	}
	return &Manager{dir: abs}, nil
}

// Dir returns the absolute backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// NewScope starts a backup scope for one apply invocation.
func (m *Manager) NewScope() *Scope {
	return &Scope{
		manager: m,
		id:      uuid.NewString()[:8],
		byPath:  make(map[string]Record),
	}
}

// List returns every backup in the directory, newest first.
func (m *Manager) List() ([]Record, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup dir: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, Record{
			Name:         entry.Name(),
			OriginalPath: originalPathOf(entry.Name()),
			Size:         info.Size(),
			CreatedAt:    info.ModTime(),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// Scope backs up files for a single apply invocation. Within a scope the
// first backup of a path wins; later requests for the same path return
// the existing record. Safe for concurrent use.
type Scope struct {
	manager *Manager
	id      string

	mu      sync.Mutex
	byPath  map[string]Record
	ordered []Record
}

// Backup copies the file at absPath into the backup directory, naming it
// after the corpus-relative path rel. Repeated calls for the same rel
// return the first record unchanged.
func (s *Scope) Backup(absPath, rel string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, done := s.byPath[rel]; done {
		return rec, nil
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, fmt.Errorf("%w: %s", ErrSourceMissing, rel)
		}
		return Record{}, fmt.Errorf("failed to stat %s: %w", rel, err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s.%s.%s%s",
		sanitizeRel(rel), now.Format(backupTimeFormat), s.id, backupSuffix)
	dest := filepath.Join(s.manager.dir, name)

	if err := copyFile(absPath, dest, info.Mode().Perm()); err != nil {
		return Record{}, fmt.Errorf("failed to back up %s: %w", rel, err)
	}

	rec := Record{Name: name, OriginalPath: rel, Size: info.Size(), CreatedAt: now}
	s.byPath[rel] = rec
	s.ordered = append(s.ordered, rec)
	return rec, nil
}

// Records returns the backups created in this scope, in creation order.
func (s *Scope) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// sanitizeRel flattens a relative path into a single file name component.
func sanitizeRel(rel string) string {
	return strings.NewReplacer("/", "__", "\\", "__").Replace(rel)
}

// originalPathOf reverses sanitizeRel for listing, best effort: the name
// layout is <sanitized>.<timestamp>.<scope>.bak.
func originalPathOf(name string) string {
	trimmed := strings.TrimSuffix(name, backupSuffix)
	parts := strings.Split(trimmed, ".")
	if len(parts) < 3 {
		return strings.ReplaceAll(trimmed, "__", "/")
	}
	sanitized := strings.Join(parts[:len(parts)-2], ".")
	return strings.ReplaceAll(sanitized, "__", "/")
}

// copyFile writes a verbatim copy of src to dest.
func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
