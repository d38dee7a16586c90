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

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianDocs/pkg/ux"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/review"
)

func runReviewCommand(cmd *cobra.Command, args []string) {
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

	session := review.NewSession(resp.Suggestions)
	total := len(resp.Suggestions)

	for i, s := range resp.Suggestions {
		ux.Title(fmt.Sprintf("Suggestion %d of %d", i+1, total))
		printSuggestion(s)

		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Decision").
					Options(
						huh.NewOption("Approve", "approve"),
						huh.NewOption("Edit", "edit"),
						huh.NewOption("Reject", "reject"),
					).
					Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			ux.Error(fmt.Sprintf("review aborted: %v", err))
			os.Exit(1)
		}

		switch choice {
		case "approve":
			session.Approve(s.ID)
		case "reject":
			session.Reject(s.ID)
		case "edit":
			session.Edit(s.ID)
			text := session.EffectiveText(s.ID)
			editForm := huh.NewForm(
				huh.NewGroup(
					huh.NewText().
						Title("Edit the suggestion text").
						Value(&text),
				),
			)
			if err := editForm.Run(); err != nil {
				ux.Error(fmt.Sprintf("review aborted: %v", err))
				os.Exit(1)
			}
			session.SetEditedText(s.ID, text)
		}
	}

	toApply := session.ApprovedOrEdited()
	if len(toApply) == 0 {
		ux.Info("Nothing approved, nothing to apply.")
		return
	}

	if !autoYes {
		var confirmed bool
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Apply %d suggestion(s)? Touched files are backed up first.", len(toApply))).
					Value(&confirmed),
			),
		)
		if err := confirm.Run(); err != nil || !confirmed {
			ux.Info("Apply cancelled.")
			return
		}
	}

	outcome, err := client.Apply(toApply)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	ux.Title(outcome.Message)
	for _, s := range outcome.Successes {
		ux.Success(s.Message)
	}
	for _, e := range outcome.Errors {
		ux.Error(fmt.Sprintf("suggestion %d: %s", e.SuggestionID, e.Error))
	}
	for _, b := range outcome.Backups {
		ux.Muted(fmt.Sprintf("backup: %s", b))
	}
	if len(outcome.Errors) > 0 {
		os.Exit(1)
	}
}
