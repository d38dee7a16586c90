// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
)

// stopWords are query tokens too generic to locate documentation by.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "this": {}, "that": {}, "with": {},
	"from": {}, "have": {}, "will": {}, "should": {}, "would": {},
	"could": {}, "about": {}, "into": {}, "when": {}, "where": {},
	"what": {}, "which": {}, "their": {}, "there": {}, "been": {},
	"more": {}, "update": {}, "updates": {}, "change": {}, "changes": {},
	"docs": {}, "documentation": {}, "document": {}, "please": {},
	"section": {}, "file": {}, "page": {}, "add": {}, "new": {},
}

var tokenPattern = regexp.MustCompile(`[a-z0-9][a-z0-9_.-]*`)

// extractKeywords lowercases the query and keeps tokens of length >= 3
// that are not stop words, preserving first-seen order.
func extractKeywords(query string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(query), -1) {
		if len(tok) < 3 {
			continue
		}
		if _, skip := stopWords[tok]; skip {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// fallbackGenerator produces deterministic keyword-match suggestions when
// no LLM backend is available.
type fallbackGenerator struct {
	index *corpus.Index
	max   int
}

// generate scans every corpus file for the query's keywords. Each file
// contributes at most one suggestion, anchored at the first matching line
// and labeled with the nearest preceding heading.
func (f *fallbackGenerator) generate(ctx context.Context, query string) ([]Suggestion, error) {
	keywords := extractKeywords(query)
	if len(keywords) == 0 {
		return []Suggestion{}, nil
	}

	files, err := f.index.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus: %w", err)
	}

	var out []Suggestion
	for _, file := range files {
		line, keyword, ok := firstMatch(file.Content, keywords)
		if !ok {
			continue
		}
		out = append(out, Suggestion{
			Section:    sectionAt(file, line),
			Text:       fmt.Sprintf("Review and update the mention of '%s' near line %d based on: %s", keyword, line, query),
			FilePath:   file.Path,
			LineNumber: line,
		})
		if len(out) >= f.max {
			break
		}
	}
	return normalize(out), nil
}

// firstMatch returns the 1-based number of the first line containing any
// keyword, and the keyword that matched.
func firstMatch(content string, keywords []string) (int, string, bool) {
	for i, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i + 1, kw, true
			}
		}
	}
	return 0, "", false
}

// sectionAt names the section governing the given line: the nearest
// heading at or before it, else the file's base name.
func sectionAt(file corpus.DocumentFile, line int) string {
	section := file.Name
	for _, s := range file.Sections {
		if s.StartLine > line {
			break
		}
		section = s.Title
	}
	return section
}
