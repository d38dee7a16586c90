// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the documentation
// service.
//
// # Description
//
// Metrics cover the suggestion pipeline end to end:
//   - Suggest request counters (by generator source and status)
//   - Suggestion counts per request
//   - Apply item counters (by result)
//   - Backup creation counters
//   - LLM call latency histograms
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Initialize once at
// startup with InitMetrics(); the package-level record helpers are no-ops
// until then, which keeps library code and tests free of registry setup.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "aleutian"

const docupdateSubsystem = "docupdate"

// DocUpdateMetrics holds all Prometheus metrics for the documentation
// service. Initialize once at startup via InitMetrics().
type DocUpdateMetrics struct {
	// SuggestRequestsTotal counts suggestion requests.
	// Labels: source (ai, fallback), status (success, error)
	SuggestRequestsTotal *prometheus.CounterVec

	// SuggestionsTotal counts suggestions returned to callers.
	// Labels: source (ai, fallback)
	SuggestionsTotal *prometheus.CounterVec

	// ApplyItemsTotal counts individual apply attempts.
	// Labels: result (applied, failed)
	ApplyItemsTotal *prometheus.CounterVec

	// BackupsCreatedTotal counts backup files written before edits.
	BackupsCreatedTotal prometheus.Counter

	// LLMCallDurationSeconds measures one generative call end to end.
	// Labels: backend, status (success, error)
	LLMCallDurationSeconds *prometheus.HistogramVec
}

// DefaultMetrics is the singleton instance, set by InitMetrics().
var DefaultMetrics *DocUpdateMetrics

// InitMetrics creates and registers all metrics on the default registry.
// Call once at startup; calling twice panics on duplicate registration.
func InitMetrics() *DocUpdateMetrics {
	DefaultMetrics = &DocUpdateMetrics{
		SuggestRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: docupdateSubsystem,
				Name:      "suggest_requests_total",
				Help:      "Total suggestion requests by generator source and status",
			},
			[]string{"source", "status"},
		),

		SuggestionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: docupdateSubsystem,
				Name:      "suggestions_total",
				Help:      "Total suggestions returned to callers by generator source",
			},
			[]string{"source"},
		),

		ApplyItemsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: docupdateSubsystem,
				Name:      "apply_items_total",
				Help:      "Total individual apply attempts by result",
			},
			[]string{"result"},
		),

		BackupsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: docupdateSubsystem,
				Name:      "backups_created_total",
				Help:      "Total backup files written before applying edits",
			},
		),

		LLMCallDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: docupdateSubsystem,
				Name:      "llm_call_duration_seconds",
				Help:      "Duration of one generative backend call",
				Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"backend", "status"},
		),
	}
	return DefaultMetrics
}

// statusLabel maps a success flag to the shared status label values.
func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordSuggestRequest records one completed suggestion request.
func RecordSuggestRequest(source string, success bool, count int) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.SuggestRequestsTotal.WithLabelValues(source, statusLabel(success)).Inc()
	if success {
		DefaultMetrics.SuggestionsTotal.WithLabelValues(source).Add(float64(count))
	}
}

// RecordApplyItem records one apply attempt outcome.
func RecordApplyItem(applied bool) {
	if DefaultMetrics == nil {
		return
	}
	result := "applied"
	if !applied {
		result = "failed"
	}
	DefaultMetrics.ApplyItemsTotal.WithLabelValues(result).Inc()
}

// RecordBackupCreated records one backup file written.
func RecordBackupCreated() {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.BackupsCreatedTotal.Inc()
}

// ObserveLLMLatency records the duration of one generative backend call.
func ObserveLLMLatency(backend string, d time.Duration, success bool) {
	if DefaultMetrics == nil {
		return
	}
	DefaultMetrics.LLMCallDurationSeconds.WithLabelValues(backend, statusLabel(success)).Observe(d.Seconds())
}
