// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package suggest turns natural-language change requests into concrete
// documentation edit suggestions.
//
// Generation prefers a configured LLM backend and degrades silently to a
// keyword-based generator when no backend is configured or the backend
// fails. Either way the caller receives the same Suggestion shape.
package suggest

import "sort"

// Suggestion is one proposed documentation edit.
//
// IDs are assigned contiguously from 1 within a single Generate call and
// are only meaningful inside that result set. An empty FilePath means the
// suggestion is advisory and cannot be applied; a zero LineNumber means
// the suggestion has no line anchor and applies to the file as a whole
// (applied text is appended as a trailing section).
type Suggestion struct {
	ID         int    `json:"id"`
	Section    string `json:"section"`
	Text       string `json:"suggestion"`
	FilePath   string `json:"file_path,omitempty"`
	LineNumber int    `json:"line_number,omitempty"`
}

// Addressable reports whether the suggestion names a file it can be
// applied to.
func (s Suggestion) Addressable() bool {
	return s.FilePath != ""
}

// Anchored reports whether the suggestion targets a specific line.
func (s Suggestion) Anchored() bool {
	return s.LineNumber > 0
}

// normalize orders suggestions by path then line and reassigns IDs 1..n.
func normalize(suggestions []Suggestion) []Suggestion {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].FilePath != suggestions[j].FilePath {
			return suggestions[i].FilePath < suggestions[j].FilePath
		}
		return suggestions[i].LineNumber < suggestions[j].LineNumber
	})
	for i := range suggestions {
		suggestions[i].ID = i + 1
	}
	return suggestions
}
