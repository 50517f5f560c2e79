// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for gemchat.
//
// # Key Types
//
//   - Config: Static configuration (API endpoint, UI, speech, storage paths)
//   - Settings: Mutable per-user session settings, normalized once at load
//   - Watcher: fsnotify-based hot reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GEMCHAT_*, plus a .env file via godotenv)
//   - ~/.gemchat/config.toml
//   - Built-in defaults
//
// The API credential comes from GEMCHAT_API_KEY, with the bare legacy
// API_KEY name accepted as a fallback. A missing credential is not fatal:
// the app starts with chat disabled and shows a persistent warning.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if cfg.API.Key == "" {
//	    // chat disabled until a key is provided
//	}
package config
