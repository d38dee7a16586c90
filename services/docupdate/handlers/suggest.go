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
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/observability"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

type SuggestRequest struct {
	Query string `json:"query"`
}

type SuggestResponse struct {
	Query       string               `json:"query"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// HandleSuggest generates edit suggestions for a change request. An
// empty or whitespace query is a 400; an unavailable LLM backend is not
// an error, the generator degrades internally.
func HandleSuggest(generator *suggest.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SuggestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		suggestions, source, err := generator.Generate(c.Request.Context(), req.Query)
		if err != nil {
			if errors.Is(err, suggest.ErrEmptyQuery) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "query must not be empty"})
				return
			}
			slog.Error("Suggestion generation failed", "error", err)
			observability.RecordSuggestRequest(string(source), false, 0)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate suggestions"})
			return
		}

		slog.Info("Generated suggestions",
			"count", len(suggestions), "source", source)
		observability.RecordSuggestRequest(string(source), true, len(suggestions))

		if suggestions == nil {
			suggestions = []suggest.Suggestion{}
		}
		c.JSON(http.StatusOK, SuggestResponse{Query: req.Query, Suggestions: suggestions})
	}
}
