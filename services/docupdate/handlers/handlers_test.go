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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/apply"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/backup"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	// Set Gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

type testDeps struct {
	index     *corpus.Index
	backups   *backup.Manager
	generator *suggest.Generator
	engine    *apply.Engine
	root      string
}

// newTestDeps builds the full dependency set over a temp corpus. No LLM
// backend is configured, so suggestions come from the keyword generator.
func newTestDeps(t *testing.T, files map[string]string) *testDeps {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	index, err := corpus.New(root)
	require.NoError(t, err)
	backups, err := backup.NewManager(filepath.Join(t.TempDir(), "backups"))
	require.NoError(t, err)

	return &testDeps{
		index:     index,
		backups:   backups,
		generator: suggest.NewGenerator(index, nil, 5*time.Second, 10),
		engine:    apply.NewEngine(index, backups),
		root:      root,
	}
}

// createTestRouter creates a Gin router with the specified handler for testing.
func createTestRouter(method, path string, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	switch method {
	case "POST":
		router.POST(path, handler)
	case "GET":
		router.GET(path, handler)
	}
	return router
}

// performRequest executes an HTTP request against the test router.
func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// HandleSuggest Tests
// =============================================================================

func TestHandleSuggest_Success(t *testing.T) {
	deps := newTestDeps(t, map[string]string{
		"guide.md": "# Guide\n\n## Install\n\nRun the installer binary.\n",
	})
	router := createTestRouter("POST", "/v1/doc-updates/suggest", HandleSuggest(deps.generator))

	w := performRequest(router, "POST", "/v1/doc-updates/suggest",
		SuggestRequest{Query: "update the installer instructions"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response SuggestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "update the installer instructions", response.Query)
	require.Len(t, response.Suggestions, 1)
	assert.Equal(t, 1, response.Suggestions[0].ID)
	assert.Equal(t, "guide.md", response.Suggestions[0].FilePath)
	assert.Equal(t, 5, response.Suggestions[0].LineNumber)
	assert.Equal(t, "Install", response.Suggestions[0].Section)
}

func TestHandleSuggest_EmptyQuery(t *testing.T) {
	deps := newTestDeps(t, map[string]string{"guide.md": "# Guide\n"})
	router := createTestRouter("POST", "/v1/doc-updates/suggest", HandleSuggest(deps.generator))

	for _, query := range []string{"", "   "} {
		w := performRequest(router, "POST", "/v1/doc-updates/suggest", SuggestRequest{Query: query})
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response, "error")
	}
}

func TestHandleSuggest_MalformedBody(t *testing.T) {
	deps := newTestDeps(t, map[string]string{"guide.md": "# Guide\n"})
	router := createTestRouter("POST", "/v1/doc-updates/suggest", HandleSuggest(deps.generator))

	req, _ := http.NewRequest("POST", "/v1/doc-updates/suggest", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSuggest_NoMatchesReturnsEmptyList(t *testing.T) {
	deps := newTestDeps(t, map[string]string{"guide.md": "# Guide\n\nnothing relevant\n"})
	router := createTestRouter("POST", "/v1/doc-updates/suggest", HandleSuggest(deps.generator))

	w := performRequest(router, "POST", "/v1/doc-updates/suggest",
		SuggestRequest{Query: "kubernetes"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response SuggestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotNil(t, response.Suggestions)
	assert.Empty(t, response.Suggestions)
}

// =============================================================================
// HandleApply Tests
// =============================================================================

func TestHandleApply_Success(t *testing.T) {
	deps := newTestDeps(t, map[string]string{
		"guide.md": "# Guide\n\nold content\n",
	})
	router := createTestRouter("POST", "/v1/doc-updates/apply", HandleApply(deps.engine))

	w := performRequest(router, "POST", "/v1/doc-updates/apply", ApplyRequest{
		Suggestions: []suggest.Suggestion{
			{ID: 1, Section: "Guide", Text: "new content", FilePath: "guide.md", LineNumber: 3},
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var outcome apply.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Len(t, outcome.Successes, 1)
	assert.Empty(t, outcome.Errors)
	assert.Len(t, outcome.Backups, 1)
	assert.Equal(t, "Applied 1 of 1 suggestions", outcome.Message)

	updated, err := os.ReadFile(filepath.Join(deps.root, "guide.md"))
	require.NoError(t, err)
	assert.Contains(t, string(updated), "new content")
}

func TestHandleApply_PartialFailureStillOK(t *testing.T) {
	deps := newTestDeps(t, map[string]string{
		"guide.md": "# Guide\n\nline\n",
	})
	router := createTestRouter("POST", "/v1/doc-updates/apply", HandleApply(deps.engine))

	w := performRequest(router, "POST", "/v1/doc-updates/apply", ApplyRequest{
		Suggestions: []suggest.Suggestion{
			{ID: 1, Section: "Guide", Text: "applied", FilePath: "guide.md", LineNumber: 3},
			{ID: 2, Section: "Gone", Text: "fails", FilePath: "missing.md", LineNumber: 1},
		},
	})

	// Item failures surface in the body, not the HTTP status.
	assert.Equal(t, http.StatusOK, w.Code)

	var outcome apply.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Len(t, outcome.Successes, 1)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, 2, outcome.Errors[0].SuggestionID)
	assert.Contains(t, outcome.Errors[0].Error, "file not found")
}

func TestHandleApply_MalformedBody(t *testing.T) {
	deps := newTestDeps(t, map[string]string{"guide.md": "# Guide\n"})
	router := createTestRouter("POST", "/v1/doc-updates/apply", HandleApply(deps.engine))

	req, _ := http.NewRequest("POST", "/v1/doc-updates/apply", bytes.NewBufferString("[]"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =============================================================================
// HandleListFiles Tests
// =============================================================================

func TestHandleListFiles(t *testing.T) {
	deps := newTestDeps(t, map[string]string{
		"guide.md":       "# Guide\n\nbody\n",
		"api/ref.md":     "# Reference\n",
		"not-a-doc.yaml": "ignored: true\n",
	})
	router := createTestRouter("GET", "/v1/doc-updates/files", HandleListFiles(deps.index))

	w := performRequest(router, "GET", "/v1/doc-updates/files", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Files []corpus.DocumentFile `json:"files"`
		Count int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	require.Len(t, response.Files, 2)
	assert.Equal(t, "api/ref.md", response.Files[0].Path)
	assert.Equal(t, "guide.md", response.Files[1].Path)
	for _, f := range response.Files {
		assert.Empty(t, f.Content, "listing must not ship file contents")
	}
}

// =============================================================================
// HandleListBackups Tests
// =============================================================================

func TestHandleListBackups(t *testing.T) {
	deps := newTestDeps(t, map[string]string{"guide.md": "# Guide\n\nline\n"})
	router := gin.New()
	router.POST("/v1/doc-updates/apply", HandleApply(deps.engine))
	router.GET("/v1/doc-updates/backups", HandleListBackups(deps.backups))

	// Empty before anything is applied.
	w := performRequest(router, "GET", "/v1/doc-updates/backups", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Backups []backup.Record `json:"backups"`
		Count   int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 0, response.Count)
	assert.NotNil(t, response.Backups)

	// Applying creates one backup.
	w = performRequest(router, "POST", "/v1/doc-updates/apply", ApplyRequest{
		Suggestions: []suggest.Suggestion{
			{ID: 1, Section: "Guide", Text: "edited", FilePath: "guide.md", LineNumber: 3},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "GET", "/v1/doc-updates/backups", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "guide.md", response.Backups[0].OriginalPath)
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	router := createTestRouter("GET", "/health", HealthCheck)

	w := performRequest(router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "doc-updater", response["service"])
}
