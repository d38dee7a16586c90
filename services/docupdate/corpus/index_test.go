// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestIndex(t *testing.T) (*Index, string) {
	t.Helper()
	root := t.TempDir()
	ix, err := New(root)
	if err != nil {
		t.Fatalf("New(%q) error = %v", root, err)
	}
	return ix, root
}

func TestNew_MissingRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "no-such-dir")); err == nil {
		t.Error("New() accepted a missing root")
	}
}

func TestNew_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "plain.txt", "not a dir")
	if _, err := New(filepath.Join(root, "plain.txt")); err == nil {
		t.Error("New() accepted a file as root")
	}
}

func TestList_FindsMarkdownOnly(t *testing.T) {
	ix, root := newTestIndex(t)
	writeFile(t, root, "guide.md", "# Guide\n\nHello.\n")
	writeFile(t, root, "api/reference.markdown", "# Reference\n")
	writeFile(t, root, "notes.txt", "not markdown")
	writeFile(t, root, ".hidden/secret.md", "# Hidden\n")

	files, err := ix.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("List() returned %d files, want 2: %+v", len(files), files)
	}
	// Sorted by path
	if files[0].Path != "api/reference.markdown" || files[1].Path != "guide.md" {
		t.Errorf("List() order = [%s, %s]", files[0].Path, files[1].Path)
	}
	if files[1].Name != "guide.md" {
		t.Errorf("Name = %q", files[1].Name)
	}
	if files[1].LineCount != 4 {
		t.Errorf("LineCount = %d, want 4", files[1].LineCount)
	}
}

func TestList_CachesUntilInvalidate(t *testing.T) {
	ix, root := newTestIndex(t)
	writeFile(t, root, "one.md", "# One\n")

	first, err := ix.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 {
		t.Fatalf("first List() = %d files", len(first))
	}

	writeFile(t, root, "two.md", "# Two\n")

	cached, err := ix.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cached) != 1 {
		t.Errorf("cached List() = %d files, want stale 1", len(cached))
	}

	ix.Invalidate()
	fresh, err := ix.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 2 {
		t.Errorf("List() after Invalidate = %d files, want 2", len(fresh))
	}
}

func TestResolve(t *testing.T) {
	ix, root := newTestIndex(t)
	writeFile(t, root, "guide.md", "# Guide\n")

	tests := []struct {
		name    string
		rel     string
		wantErr error
	}{
		{"existing file", "guide.md", nil},
		{"missing file", "nope.md", ErrNotFound},
		{"traversal", "../guide.md", ErrOutsideRoot},
		{"absolute", "/etc/passwd", ErrOutsideRoot},
		{"wrong extension", "guide.txt", ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, err := ix.Resolve(tt.rel)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Resolve(%q) error = %v", tt.rel, err)
				}
				if abs != filepath.Join(root, "guide.md") {
					t.Errorf("Resolve(%q) = %q", tt.rel, abs)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve(%q) error = %v, want %v", tt.rel, err, tt.wantErr)
			}
		})
	}
}

func TestRead(t *testing.T) {
	ix, root := newTestIndex(t)
	writeFile(t, root, "guide.md", "# Install\n\nRun make.\n\n## Upgrade\n\nBump it.\n")

	doc, err := ix.Read("guide.md")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if doc.Path != "guide.md" || doc.Name != "guide.md" {
		t.Errorf("Path/Name = %q/%q", doc.Path, doc.Name)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("Sections = %d, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Title != "Install" || doc.Sections[0].Level != 1 {
		t.Errorf("first section = %+v", doc.Sections[0])
	}
	if doc.Sections[1].Title != "Upgrade" || doc.Sections[1].Level != 2 {
		t.Errorf("second section = %+v", doc.Sections[1])
	}
}

func TestExtractSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Section
	}{
		{
			name:    "no headings",
			content: "plain text\nmore text\n",
			want:    nil,
		},
		{
			name:    "single heading spans to end",
			content: "# Title\nbody\nmore\n",
			want:    []Section{{Title: "Title", Level: 1, StartLine: 1, EndLine: 4}},
		},
		{
			name:    "heading ends before next heading",
			content: "# A\nbody\n## B\nbody\n",
			want: []Section{
				{Title: "A", Level: 1, StartLine: 1, EndLine: 2},
				{Title: "B", Level: 2, StartLine: 3, EndLine: 5},
			},
		},
		{
			name:    "hash without space is not a heading",
			content: "#nospace\n# Real\n",
			want:    []Section{{Title: "Real", Level: 1, StartLine: 2, EndLine: 3}},
		},
		{
			name:    "deep heading level",
			content: "###### Six\n",
			want:    []Section{{Title: "Six", Level: 6, StartLine: 1, EndLine: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSections(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractSections() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("section %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWatch_InvalidatesOnWrite(t *testing.T) {
	ix, root := newTestIndex(t)
	writeFile(t, root, "one.md", "# One\n")

	if _, err := ix.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := ix.Watch(); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer ix.StopWatching()

	writeFile(t, root, "two.md", "# Two\n")

	// The watcher delivers asynchronously; poll until the stale cache
	// is dropped and the new file shows up.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		files, err := ix.List(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(files) == 2 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("cache was never invalidated after external write")
}
