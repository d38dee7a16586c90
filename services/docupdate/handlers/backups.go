// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/backup"
)

// HandleListBackups lists backup files, newest first.
func HandleListBackups(manager *backup.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := manager.List()
		if err != nil {
			slog.Error("Failed to list backups", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list backups"})
			return
		}
		if records == nil {
			records = []backup.Record{}
		}
		c.JSON(http.StatusOK, gin.H{"backups": records, "count": len(records)})
	}
}
