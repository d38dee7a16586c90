// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianDocs/pkg/ux"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

func runSuggestCommand(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	client := newAPIClient()

	resp, err := client.Suggest(query)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	if len(resp.Suggestions) == 0 {
		ux.Info("No suggestions for this request.")
		return
	}

	ux.Title(fmt.Sprintf("Suggestions for: %s", query))
	for _, s := range resp.Suggestions {
		printSuggestion(s)
	}
}

// printSuggestion renders one suggestion with its file anchor, if any.
func printSuggestion(s suggest.Suggestion) {
	header := fmt.Sprintf("[%d] %s", s.ID, s.Section)
	if s.FilePath != "" {
		if s.LineNumber > 0 {
			header += ux.Styles.Muted.Render(fmt.Sprintf("  %s:%d", s.FilePath, s.LineNumber))
		} else {
			header += ux.Styles.Muted.Render("  " + s.FilePath)
		}
	} else {
		header += ux.Styles.Muted.Render("  (no target file)")
	}
	fmt.Println(ux.Styles.Bold.Render(header))
	fmt.Printf("    %s\n", s.Text)
}
