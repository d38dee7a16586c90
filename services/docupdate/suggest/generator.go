// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/observability"
	"github.com/AleutianAI/AleutianDocs/services/llm"
)

// Source identifies which generator produced a result set.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Generator produces documentation edit suggestions for a query.
//
// When an LLM client is configured it is tried first, bounded by the
// configured timeout and rate limit; any failure (including unparseable
// output) logs a warning and degrades to the keyword generator. A nil
// client skips straight to the keyword generator.
type Generator struct {
	index    *corpus.Index
	client   llm.Client
	limiter  *rate.Limiter
	timeout  time.Duration
	fallback *fallbackGenerator
}

// Option configures a Generator.
type Option func(*Generator)

// WithRateLimit bounds LLM calls to r per second with the given burst.
func WithRateLimit(r float64, burst int) Option {
	return func(g *Generator) {
		g.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// NewGenerator creates a Generator over the given corpus. client may be
// nil, in which case every query uses the keyword generator. max caps the
// suggestions per call; timeout bounds a single LLM invocation.
func NewGenerator(index *corpus.Index, client llm.Client, timeout time.Duration, max int, opts ...Option) *Generator {
	g := &Generator{
		index:    index,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(2), 4),
		timeout:  timeout,
		fallback: &fallbackGenerator{index: index, max: max},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns ordered suggestions for a change request. IDs in the
// result are contiguous from 1. The returned Source says which generator
// produced the set.
func (g *Generator) Generate(ctx context.Context, query string) ([]Suggestion, Source, error) {
	if strings.TrimSpace(query) == "" {
		return nil, "", ErrEmptyQuery
	}

	if g.client != nil {
		suggestions, err := g.generateAI(ctx, query)
		if err == nil {
			return suggestions, SourceAI, nil
		}
		// Degradation is silent toward the caller.
		slog.Warn("LLM suggestion generation failed, using keyword fallback",
			"backend", g.client.Name(), "error", err)
	}

	suggestions, err := g.fallback.generate(ctx, query)
	if err != nil {
		return nil, "", err
	}
	return suggestions, SourceFallback, nil
}

func (g *Generator) generateAI(ctx context.Context, query string) ([]Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	files, err := g.index.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list corpus: %w", err)
	}

	prompt := buildPrompt(query, files)
	start := time.Now()
	response, err := g.client.Generate(ctx, prompt, llm.GenerationParams{})
	observability.ObserveLLMLatency(g.client.Name(), time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	suggestions, err := parseResponse(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	if max := g.fallback.max; len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return normalize(suggestions), nil
}
