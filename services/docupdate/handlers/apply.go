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

	"github.com/AleutianAI/AleutianDocs/services/docupdate/apply"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

type ApplyRequest struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// HandleApply writes the given suggestions into the documentation tree.
// Per-item failures are reported in the response body, not as an HTTP
// error; the status is 200 whenever the request itself was well-formed.
func HandleApply(engine *apply.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		outcome := engine.Apply(c.Request.Context(), req.Suggestions)
		slog.Info("Applied suggestions",
			"requested", len(req.Suggestions),
			"applied", len(outcome.Successes),
			"failed", len(outcome.Errors),
			"backups", len(outcome.Backups))
		c.JSON(http.StatusOK, outcome)
	}
}
