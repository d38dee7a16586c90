// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

	// listItemPattern matches "1. text", "2) text", "- text", "* text".
	listItemPattern = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s+(.+)$`)
)

// parseResponse extracts suggestions from a model response. Models are
// asked for a JSON array but routinely wrap it in prose or markdown
// fences, so the first bracketed span is tried as JSON; failing that, a
// numbered or bulleted list is accepted with one suggestion per item.
func parseResponse(response string) ([]Suggestion, error) {
	if m := jsonArrayPattern.FindString(response); m != "" {
		var items []Suggestion
		if err := json.Unmarshal([]byte(m), &items); err == nil {
			return sanitize(items), nil
		}
	}

	var items []Suggestion
	for _, line := range strings.Split(response, "\n") {
		lm := listItemPattern.FindStringSubmatch(line)
		if lm == nil {
			continue
		}
		text := strings.TrimSpace(lm[1])
		if text == "" {
			continue
		}
		items = append(items, Suggestion{Section: "General", Text: text})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no suggestions found in model response")
	}
	return items, nil
}

// sanitize drops empty suggestions and repairs obviously bad fields.
func sanitize(items []Suggestion) []Suggestion {
	out := items[:0]
	for _, item := range items {
		item.Text = strings.TrimSpace(item.Text)
		if item.Text == "" {
			continue
		}
		if item.Section == "" {
			item.Section = "General"
		}
		if item.LineNumber < 0 {
			item.LineNumber = 0
		}
		item.FilePath = strings.TrimSpace(item.FilePath)
		out = append(out, item)
	}
	return out
}
