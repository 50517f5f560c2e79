// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/miastudio/gemchat-tui/internal/util"
)

// =============================================================================
// FILE BACKEND
// =============================================================================

// FileKV stores each key as one JSON file under a base directory.
// RELIABILITY: Writes go through atomic rename with fsync, so a crash
// mid-save leaves the previous value intact.
type FileKV struct {
	dir string
}

// NewFileKV creates a file-backed store rooted at dir. The directory is
// created on first write.
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

// filePath maps a key to its file. Path separators are flattened so a key
// can never escape the base directory.
func (f *FileKV) filePath(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, key)
	return filepath.Join(f.dir, safe+".json")
}

// Get returns the value for key, or found=false when absent.
func (f *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value under key.
func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return err
	}
	return util.AtomicWriteFile(f.filePath(key), value, 0644)
}

// Delete removes key. Deleting an absent key is not an error.
func (f *FileKV) Delete(_ context.Context, key string) error {
	err := os.Remove(f.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// KeysWithPrefix returns all keys starting with prefix, sorted.
func (f *FileKV) KeysWithPrefix(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), ".json")
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op for the file backend.
func (f *FileKV) Close() error {
	return nil
}
