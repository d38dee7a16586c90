// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are used in
// file paths before they reach the filesystem. Using these validators prevents
// path traversal out of the documentation root.
package validation

import (
	"fmt"
	"path"
	"strings"
)

// markdownExtensions lists the file extensions the documentation corpus serves.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// ValidateDocPath validates a corpus-relative document path.
//
// Valid paths:
//   - Relative (no leading slash, no drive letter)
//   - Confined to the corpus root (no ".." segments after cleaning)
//   - Markdown files (.md or .markdown)
//
// Returns an error describing the first violation found.
//
// Example:
//
//	if err := validation.ValidateDocPath(req.FilePath); err != nil {
//	    return fmt.Errorf("invalid document path: %w", err)
//	}
//	// Safe to join with the corpus root
func ValidateDocPath(p string) error {
	if p == "" {
		return fmt.Errorf("document path cannot be empty")
	}

	if strings.ContainsRune(p, '\x00') {
		return fmt.Errorf("document path contains a NUL byte")
	}

	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return fmt.Errorf("document path must be relative: %q", p)
	}

	// Windows drive letters or UNC-ish prefixes smuggled through JSON.
	if len(p) > 1 && p[1] == ':' {
		return fmt.Errorf("document path must be relative: %q", p)
	}

	cleaned := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("document path escapes the corpus root: %q", p)
	}

	ext := strings.ToLower(path.Ext(cleaned))
	if !markdownExtensions[ext] {
		return fmt.Errorf("unsupported document type %q (markdown only)", ext)
	}

	return nil
}

// ValidateDocPaths validates multiple document paths.
// Returns an error listing all invalid paths if any fail validation.
func ValidateDocPaths(paths []string) error {
	var invalid []string
	for _, p := range paths {
		if err := ValidateDocPath(p); err != nil {
			invalid = append(invalid, fmt.Sprintf("%q (%v)", p, err))
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid document paths: %s", strings.Join(invalid, "; "))
	}

	return nil
}
