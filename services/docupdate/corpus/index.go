// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package corpus indexes the markdown documentation tree.
//
// The index enumerates files under a configured root, extracts their
// heading structure, and resolves corpus-relative paths to absolute ones
// while confining every access to the root. Listings are cached; the cache
// is invalidated explicitly after applies and, optionally, by a filesystem
// watcher (see watcher.go).
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianDocs/pkg/validation"
)

// Sentinel errors for the corpus package.
var (
	// ErrNotFound indicates the document does not exist under the root.
	ErrNotFound = errors.New("document not found")

	// ErrOutsideRoot indicates a path that escapes the corpus root.
	ErrOutsideRoot = errors.New("path outside corpus root")
)

// readConcurrency bounds parallel file reads during a listing scan.
const readConcurrency = 8

// Section is one markdown heading and the line span it governs.
type Section struct {
	Title     string `json:"title"`
	Level     int    `json:"level"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// DocumentFile is a single markdown file in the corpus. Path is relative
// to the corpus root and uses forward slashes on every platform.
type DocumentFile struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Content   string    `json:"content,omitempty"`
	LineCount int       `json:"line_count"`
	Size      int       `json:"size"`
	Sections  []Section `json:"sections,omitempty"`
}

// headingPattern matches markdown h1-h6 headings at the start of a line.
var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Index enumerates and resolves documentation files under a root directory.
//
// Index is safe for concurrent use. Concurrent List calls share the cached
// listing; Invalidate drops it.
type Index struct {
	root string

	mu     sync.RWMutex
	cached []DocumentFile

	watcher *watcher
}

// New creates an Index rooted at root. The root must exist and be a
// directory; a missing corpus root is a fatal precondition for the service.
func New(root string) (*Index, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve corpus root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("corpus root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus root %s is not a directory", abs)
	}
	return &Index{root: abs}, nil
}

// Root returns the absolute corpus root.
func (ix *Index) Root() string {
	return ix.root
}

// List returns every markdown file under the root, sorted by path, with
// content and extracted sections. The result is cached until Invalidate.
func (ix *Index) List(ctx context.Context) ([]DocumentFile, error) {
	ix.mu.RLock()
	if ix.cached != nil {
		out := make([]DocumentFile, len(ix.cached))
		copy(out, ix.cached)
		ix.mu.RUnlock()
		return out, nil
	}
	ix.mu.RUnlock()

	files, err := ix.scan(ctx)
	if err != nil {
		return nil, err
	}

	ix.mu.Lock()
	ix.cached = files
	ix.mu.Unlock()

	out := make([]DocumentFile, len(files))
	copy(out, files)
	return out, nil
}

// Read loads a single document by corpus-relative path.
func (ix *Index) Read(rel string) (DocumentFile, error) {
	abs, err := ix.Resolve(rel)
	if err != nil {
		return DocumentFile{}, err
	}
	return ix.load(rel, abs)
}

// Resolve turns a corpus-relative path into an absolute one, rejecting
// traversal out of the root and missing files.
func (ix *Index) Resolve(rel string) (string, error) {
	if err := validation.ValidateDocPath(rel); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutsideRoot, err)
	}

	abs := filepath.Clean(filepath.Join(ix.root, filepath.FromSlash(rel)))
	if abs != ix.root && !strings.HasPrefix(abs, ix.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return "", fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, rel)
	}
	return abs, nil
}

// Invalidate drops the cached listing. Called after applies and by the
// filesystem watcher.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.cached = nil
	ix.mu.Unlock()
}

// scan walks the root and loads every markdown file concurrently.
func (ix *Index) scan(ctx context.Context) ([]DocumentFile, error) {
	var rels []string
	err := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hidden directories (.git and friends) are not documentation.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") && path != ix.root {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != ".md" && ext != ".markdown" {
			return nil
		}
		rel, err := filepath.Rel(ix.root, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus root: %w", err)
	}

	files := make([]DocumentFile, len(rels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, rel := range rels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := ix.load(rel, filepath.Join(ix.root, filepath.FromSlash(rel)))
			if err != nil {
				return err
			}
			files[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// load reads one file and extracts its sections.
func (ix *Index) load(rel, abs string) (DocumentFile, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return DocumentFile{}, fmt.Errorf("%w: %s", ErrNotFound, rel)
		}
		return DocumentFile{}, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	content := string(data)
	return DocumentFile{
		Path:      rel,
		Name:      filepath.Base(rel),
		Content:   content,
		LineCount: len(strings.Split(content, "\n")),
		Size:      len(content),
		Sections:  ExtractSections(content),
	}, nil
}

// ExtractSections parses markdown headings into line-addressed sections.
// Lines are 1-based; a section ends on the line before the next heading,
// the last one on the final line of the file.
func ExtractSections(content string) []Section {
	lines := strings.Split(content, "\n")

	var sections []Section
	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if n := len(sections); n > 0 {
			sections[n-1].EndLine = i // line before this heading, 1-based
		}
		sections = append(sections, Section{
			Title:     strings.TrimSpace(m[2]),
			Level:     len(m[1]),
			StartLine: i + 1,
		})
	}
	if n := len(sections); n > 0 {
		sections[n-1].EndLine = len(lines)
	}
	return sections
}
