// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/apply"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/backup"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/handlers"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

func SetupRoutes(router *gin.Engine, generator *suggest.Generator, engine *apply.Engine,
	index *corpus.Index, backups *backup.Manager) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		docUpdates := v1.Group("/doc-updates")
		{
			docUpdates.POST("/suggest", handlers.HandleSuggest(generator))
			docUpdates.POST("/apply", handlers.HandleApply(engine))
			docUpdates.GET("/files", handlers.HandleListFiles(index))
			docUpdates.GET("/backups", handlers.HandleListBackups(backups))
		}
	}
}
