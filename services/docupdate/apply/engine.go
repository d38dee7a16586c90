// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package apply writes approved suggestions into the documentation tree.
//
// Every touched file is backed up before its first modification in the
// invocation. Items are applied independently: one failing item is
// reported and skipped, the rest still land. The outcome lists successes,
// failures, and the backups created.
package apply

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/backup"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/observability"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

// ItemResult records one successfully applied suggestion.
type ItemResult struct {
	SuggestionID int    `json:"suggestion_id"`
	FilePath     string `json:"file_path"`
	Message      string `json:"message"`
}

// ItemError records one suggestion that could not be applied.
type ItemError struct {
	SuggestionID int    `json:"suggestion_id"`
	FilePath     string `json:"file_path,omitempty"`
	Error        string `json:"error"`
}

// Outcome is the full result of one apply invocation.
type Outcome struct {
	Message   string       `json:"message"`
	Successes []ItemResult `json:"success"`
	Errors    []ItemError  `json:"errors"`
	Backups   []string     `json:"backups"`
}

// Applied reports whether at least one item landed.
func (o Outcome) Applied() bool {
	return len(o.Successes) > 0
}

// Engine applies suggestions to corpus files.
type Engine struct {
	index   *corpus.Index
	backups *backup.Manager
}

// NewEngine creates an Engine over the given corpus and backup manager.
func NewEngine(index *corpus.Index, backups *backup.Manager) *Engine {
	return &Engine{index: index, backups: backups}
}

// Apply writes each suggestion into its target file, in the order given.
// Anchored suggestions replace their target line; unanchored ones append
// a trailing update section. Failures are collected per item and never
// abort the rest. The corpus cache is invalidated when anything changed.
func (e *Engine) Apply(ctx context.Context, items []suggest.Suggestion) Outcome {
	out := Outcome{
		Successes: make([]ItemResult, 0, len(items)),
		Errors:    make([]ItemError, 0),
		Backups:   make([]string, 0),
	}

	scope := e.backups.NewScope()
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			out.Errors = append(out.Errors, ItemError{
				SuggestionID: item.ID,
				FilePath:     item.FilePath,
				Error:        fmt.Sprintf("cancelled: %v", err),
			})
			observability.RecordApplyItem(false)
			continue
		}

		result, err := e.applyOne(scope, item)
		if err != nil {
			slog.Warn("Failed to apply suggestion",
				"suggestion_id", item.ID, "file", item.FilePath, "error", err)
			out.Errors = append(out.Errors, ItemError{
				SuggestionID: item.ID,
				FilePath:     item.FilePath,
				Error:        err.Error(),
			})
			observability.RecordApplyItem(false)
			continue
		}
		out.Successes = append(out.Successes, result)
		observability.RecordApplyItem(true)
	}

	for _, rec := range scope.Records() {
		out.Backups = append(out.Backups, rec.Name)
		observability.RecordBackupCreated()
	}

	if out.Applied() {
		e.index.Invalidate()
	}

	out.Message = fmt.Sprintf("Applied %d of %d suggestions", len(out.Successes), len(items))
	return out
}

// applyOne backs up and edits one file for one suggestion.
func (e *Engine) applyOne(scope *backup.Scope, item suggest.Suggestion) (ItemResult, error) {
	if !item.Addressable() {
		return ItemResult{}, fmt.Errorf("suggestion %d has no target file", item.ID)
	}

	abs, err := e.index.Resolve(item.FilePath)
	if err != nil {
		return ItemResult{}, fmt.Errorf("file not found: %s", item.FilePath)
	}

	if _, err := scope.Backup(abs, item.FilePath); err != nil {
		return ItemResult{}, fmt.Errorf("backup failed: %v", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return ItemResult{}, fmt.Errorf("failed to read %s: %v", item.FilePath, err)
	}

	lines := strings.Split(string(data), "\n")
	var message string
	if item.Anchored() && item.LineNumber <= len(lines) {
		lines[item.LineNumber-1] = item.Text
		message = fmt.Sprintf("Updated %s at line %d", item.FilePath, item.LineNumber)
	} else {
		lines = appendUpdateSection(lines, item)
		message = fmt.Sprintf("Appended update section to %s", item.FilePath)
	}

	if err := os.WriteFile(abs, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return ItemResult{}, fmt.Errorf("failed to write %s: %v", item.FilePath, err)
	}

	return ItemResult{SuggestionID: item.ID, FilePath: item.FilePath, Message: message}, nil
}

// appendUpdateSection adds the suggestion as a trailing section block.
// Out-of-range anchors land here too rather than failing the item.
func appendUpdateSection(lines []string, item suggest.Suggestion) []string {
	// Drop a single trailing empty line so the block is separated by
	// exactly one blank line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	section := item.Section
	if section == "" {
		section = "General"
	}
	lines = append(lines,
		"",
		fmt.Sprintf("## Suggested Update (%s)", section),
		"",
		item.Text,
		"",
	)
	return lines
}
