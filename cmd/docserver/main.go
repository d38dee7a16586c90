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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/credentials/insecure"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/apply"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/backup"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/config"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/observability"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/routes"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
	"github.com/AleutianAI/AleutianDocs/services/llm"
)

const serviceName = "doc-updater"

func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("DOC_CONFIG_PATH"))
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	// Tracing is optional; only wire it when a collector is configured.
	if otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); otelEndpoint != "" {
		cleanup, err := initTracer(otelEndpoint)
		if err != nil {
			log.Fatalf("failed to setup the OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
	}

	observability.InitMetrics()

	// A missing corpus root is a fatal startup error, not a degraded mode.
	index, err := corpus.New(cfg.DocsRoot)
	if err != nil {
		log.Fatalf("FATAL: documentation root unavailable: %v", err)
	}
	if err := index.Watch(); err != nil {
		slog.Warn("Could not watch the documentation tree, listings may go stale", "error", err)
	}
	defer index.StopWatching()

	backups, err := backup.NewManager(cfg.BackupDir)
	if err != nil {
		log.Fatalf("FATAL: backup directory unavailable: %v", err)
	}

	log.Println("Configuring the LLM Client")
	llmClient, err := llm.NewFromEnv(cfg.LLMBackend)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if llmClient == nil {
		slog.Info("No LLM backend configured, serving rule-based suggestions only")
	} else {
		slog.Info("Using LLM backend for suggestions", "backend", llmClient.Name())
	}

	generator := suggest.NewGenerator(index, llmClient,
		time.Duration(cfg.SuggestTimeoutSeconds)*time.Second, cfg.MaxSuggestions)
	engine := apply.NewEngine(index, backups)

	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))

	routes.SetupRoutes(router, generator, engine, index, backups)

	slog.Info("Starting the documentation service",
		"port", cfg.Port, "docs_root", index.Root(), "backup_dir", backups.Dir())
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
