// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the documentation service configuration.
//
// Configuration comes from three layers, lowest precedence first:
// built-in defaults, an optional YAML file, and environment variables.
// The merged result is validated before use.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration for docserver and docctl.
type Config struct {
	// DocsRoot is the directory containing the markdown corpus.
	DocsRoot string `yaml:"docs_root" validate:"required"`

	// BackupDir receives pre-apply file copies. Created on startup.
	BackupDir string `yaml:"backup_dir" validate:"required"`

	// Port the HTTP server listens on.
	Port int `yaml:"port" validate:"min=1,max=65535"`

	// LLMBackend selects the generative backend: "openai", "ollama",
	// or empty for rule-based suggestions only.
	LLMBackend string `yaml:"llm_backend" validate:"omitempty,oneof=openai ollama"`

	// SuggestTimeoutSeconds bounds a single generative call. Exceeding it
	// degrades to the rule-based generator.
	SuggestTimeoutSeconds int `yaml:"suggest_timeout_seconds" validate:"min=1"`

	// MaxSuggestions caps the suggestion list per generate call.
	MaxSuggestions int `yaml:"max_suggestions" validate:"min=1,max=100"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DocsRoot:              "docs",
		BackupDir:             "backups",
		Port:                  12240,
		LLMBackend:            "",
		SuggestTimeoutSeconds: 30,
		MaxSuggestions:        10,
	}
}

// Load builds the configuration from defaults, the YAML file at path
// (skipped when path is empty or the file does not exist), and environment
// variable overrides, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			slog.Warn("config file not found, using defaults", "path", path)
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			slog.Info("Loaded configuration file", "path", path)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies the environment variable layer in place.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DOCS_ROOT"); v != "" {
		cfg.DocsRoot = v
	}
	if v := os.Getenv("BACKUP_DIR"); v != "" {
		cfg.BackupDir = v
	}
	if v := os.Getenv("DOC_SERVICE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		} else {
			slog.Warn("DOC_SERVICE_PORT is not a number, ignoring", "value", v)
		}
	}
	if v, ok := os.LookupEnv("LLM_BACKEND_TYPE"); ok {
		cfg.LLMBackend = v
	}
	if v := os.Getenv("SUGGEST_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.SuggestTimeoutSeconds = secs
		} else {
			slog.Warn("SUGGEST_TIMEOUT_SECONDS is not a number, ignoring", "value", v)
		}
	}
	if v := os.Getenv("MAX_SUGGESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSuggestions = n
		} else {
			slog.Warn("MAX_SUGGESTIONS is not a number, ignoring", "value", v)
		}
	}
}
