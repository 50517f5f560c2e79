// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import "context"

// =============================================================================
// KEY-VALUE BOUNDARY
// =============================================================================

// KV is the storage boundary a session backend implements. Get reports
// absence through the second return value; a missing key is not an error.
type KV interface {
	// Get returns the value for key, or found=false when absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// KeysWithPrefix returns all keys starting with prefix, sorted.
	KeysWithPrefix(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}
