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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianDocs/pkg/ux"
)

func runFilesCommand(cmd *cobra.Command, args []string) {
	client := newAPIClient()

	resp, err := client.Files()
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	ux.Title(fmt.Sprintf("Documentation files (%d)", resp.Count))
	for _, f := range resp.Files {
		fmt.Printf("%s %s %s\n", ux.IconBullet.Render(),
			f.Path, ux.Styles.Muted.Render(fmt.Sprintf("(%d lines)", f.LineCount)))
		for _, s := range f.Sections {
			ux.Muted(fmt.Sprintf("    %s (line %d)", s.Title, s.StartLine))
		}
	}
}
