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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianDocs/services/docupdate/apply"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/backup"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/corpus"
	"github.com/AleutianAI/AleutianDocs/services/docupdate/suggest"
)

const defaultServiceURL = "http://localhost:12240"

// apiClient is a thin HTTP client for the documentation service.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

// newAPIClient resolves the service URL from the --service-url flag, the
// DOC_SERVICE_URL environment variable, then the default.
func newAPIClient() *apiClient {
	base := serviceURL
	if base == "" {
		base = os.Getenv("DOC_SERVICE_URL")
	}
	if base == "" {
		base = defaultServiceURL
	}
	return &apiClient{
		baseURL:    strings.TrimSuffix(base, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

type suggestResponse struct {
	Query       string               `json:"query"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

type filesResponse struct {
	Files []corpus.DocumentFile `json:"files"`
	Count int                   `json:"count"`
}

type backupsResponse struct {
	Backups []backup.Record `json:"backups"`
	Count   int             `json:"count"`
}

// Suggest requests edit suggestions for a change request.
func (c *apiClient) Suggest(query string) (*suggestResponse, error) {
	var out suggestResponse
	err := c.post("/v1/doc-updates/suggest", map[string]string{"query": query}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Apply sends approved suggestions to be written into the docs tree.
func (c *apiClient) Apply(items []suggest.Suggestion) (*apply.Outcome, error) {
	var out apply.Outcome
	err := c.post("/v1/doc-updates/apply",
		map[string]interface{}{"suggestions": items}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Files lists the corpus.
func (c *apiClient) Files() (*filesResponse, error) {
	var out filesResponse
	if err := c.get("/v1/doc-updates/files", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Backups lists backups, newest first.
func (c *apiClient) Backups() (*backupsResponse, error) {
	var out backupsResponse
	if err := c.get("/v1/doc-updates/backups", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) post(path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json",
		bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to reach the documentation service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	return c.decode(resp, out)
}

func (c *apiClient) get(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to reach the documentation service at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	return c.decode(resp, out)
}

func (c *apiClient) decode(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("service returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("service returned %d: %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
