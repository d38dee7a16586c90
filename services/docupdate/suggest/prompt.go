// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
)

var (
	promptChunkSize    = 1000
	promptChunkOverlap = int(float64(promptChunkSize) * 0.10)

	markdownSeparators = []string{
		"\n# ", "\n## ", "\n### ", "\n#### ", "\n##### ", "\n###### ",
		"\n\n", "\n", " ", "",
	}

	// maxExcerptsPerFile keeps the prompt within model context limits.
	maxExcerptsPerFile = 2
)

// buildPrompt assembles the generation prompt: the change request, an
// outline of the corpus, and keyword-relevant excerpts of each file. The
// model is instructed to answer with a JSON array in the Suggestion shape.
func buildPrompt(query string, files []corpus.DocumentFile) string {
	keywords := extractKeywords(query)

	var b strings.Builder
	b.WriteString("A user wants the following documentation change:\n\n")
	b.WriteString(query)
	b.WriteString("\n\nThe documentation corpus contains these files:\n\n")

	for _, file := range files {
		fmt.Fprintf(&b, "- %s (%d lines)\n", file.Path, file.LineCount)
		for _, s := range file.Sections {
			fmt.Fprintf(&b, "    %s %s (line %d)\n", strings.Repeat("#", s.Level), s.Title, s.StartLine)
		}
	}

	excerpts := relevantExcerpts(files, keywords)
	if len(excerpts) > 0 {
		b.WriteString("\nRelevant excerpts:\n")
		for _, e := range excerpts {
			fmt.Fprintf(&b, "\n--- %s ---\n%s\n", e.path, e.text)
		}
	}

	b.WriteString(`
Respond with ONLY a JSON array of suggestion objects, no prose. Each object:
  {"section": "<heading or file name>", "suggestion": "<the edit to make>", "file_path": "<relative path or empty>", "line_number": <1-based line or 0>}
Use an empty file_path if no existing file is a sensible target, and 0 for
line_number when the suggestion is not tied to a specific line.
`)
	return b.String()
}

type excerpt struct {
	path string
	text string
}

// relevantExcerpts chunks each file on markdown boundaries and keeps the
// chunks that mention a query keyword.
func relevantExcerpts(files []corpus.DocumentFile, keywords []string) []excerpt {
	if len(keywords) == 0 {
		return nil
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(promptChunkSize),
		textsplitter.WithChunkOverlap(promptChunkOverlap),
		textsplitter.WithSeparators(markdownSeparators),
	)

	var out []excerpt
	for _, file := range files {
		chunks, err := splitter.SplitText(file.Content)
		if err != nil {
			// Splitting is best-effort; the outline alone still works.
			continue
		}
		kept := 0
		for _, chunk := range chunks {
			lower := strings.ToLower(chunk)
			for _, kw := range keywords {
				if strings.Contains(lower, kw) {
					out = append(out, excerpt{path: file.Path, text: chunk})
					kept++
					break
				}
			}
			if kept >= maxExcerptsPerFile {
				break
			}
		}
	}
	return out
}
