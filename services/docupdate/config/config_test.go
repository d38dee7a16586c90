// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCS_ROOT", "BACKUP_DIR", "DOC_SERVICE_PORT",
		"LLM_BACKEND_TYPE", "SUGGEST_TIMEOUT_SECONDS", "MAX_SUGGESTIONS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "docs_root: /srv/docs\nbackup_dir: /srv/backups\nport: 9000\nllm_backend: openai\nmax_suggestions: 5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DocsRoot != "/srv/docs" {
		t.Errorf("DocsRoot = %q", cfg.DocsRoot)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.LLMBackend != "openai" {
		t.Errorf("LLMBackend = %q", cfg.LLMBackend)
	}
	if cfg.MaxSuggestions != 5 {
		t.Errorf("MaxSuggestions = %d", cfg.MaxSuggestions)
	}
	// Unset keys keep their defaults
	if cfg.SuggestTimeoutSeconds != Default().SuggestTimeoutSeconds {
		t.Errorf("SuggestTimeoutSeconds = %d, want default", cfg.SuggestTimeoutSeconds)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("docs_root: /from/file\nport: 9000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCS_ROOT", "/from/env")
	t.Setenv("DOC_SERVICE_PORT", "9001")
	t.Setenv("LLM_BACKEND_TYPE", "ollama")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DocsRoot != "/from/env" {
		t.Errorf("DocsRoot = %q, env should win over file", cfg.DocsRoot)
	}
	if cfg.Port != 9001 {
		t.Errorf("Port = %d, env should win over file", cfg.Port)
	}
	if cfg.LLMBackend != "ollama" {
		t.Errorf("LLMBackend = %q", cfg.LLMBackend)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad backend", "llm_backend: skynet\n"},
		{"zero port", "port: 0\n"},
		{"zero max suggestions", "max_suggestions: 0\n"},
		{"empty docs root", "docs_root: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load() accepted invalid config %q", tt.content)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}
