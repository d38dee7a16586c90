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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianDocs/pkg/logging"
)

// --- Global Command Variables ---
var (
	serviceURL string
	autoYes    bool
	cliLogger  *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "docctl",
		Short: "A cli to review and apply documentation update suggestions",
		Long: `docctl talks to the documentation update service: it requests
edit suggestions for a change you describe, walks you through an
approve/reject/edit review, and applies the approved edits with
automatic backups.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Warnings and errors on stderr; full JSON diagnostics go to a
			// file when DOCCTL_LOG_DIR is set.
			cliLogger = logging.New(logging.Config{
				Service: "docctl",
				Level:   logging.LevelWarn,
				LogDir:  os.Getenv("DOCCTL_LOG_DIR"),
			})
			slog.SetDefault(cliLogger.Slog())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliLogger != nil {
				cliLogger.Close()
			}
		},
	}

	// --- Suggest ---
	suggestCmd = &cobra.Command{
		Use:   "suggest [query]",
		Short: "Generate documentation update suggestions for a change request",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSuggestCommand, // Defined in cmd_suggest.go
	}

	// --- Review ---
	reviewCmd = &cobra.Command{
		Use:   "review [query]",
		Short: "Review suggestions interactively and apply the approved ones",
		Args:  cobra.MinimumNArgs(1),
		Run:   runReviewCommand, // Defined in cmd_review.go
	}

	// --- Files ---
	filesCmd = &cobra.Command{
		Use:   "files",
		Short: "List the markdown files the service knows about",
		Run:   runFilesCommand, // Defined in cmd_files.go
	}

	// --- Backups ---
	backupsCmd = &cobra.Command{
		Use:   "backups",
		Short: "List backups created by previous applies, newest first",
		Run:   runBackupsCommand, // Defined in cmd_backups.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "",
		"Base URL of the documentation service (default $DOC_SERVICE_URL or http://localhost:12240)")
	reviewCmd.Flags().BoolVarP(&autoYes, "yes", "y", false,
		"Apply without the final confirmation prompt")

	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(backupsCmd)
}
