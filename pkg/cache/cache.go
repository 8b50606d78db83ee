// Package cache provides the byte cache used for takeoff results.
//
// A takeoff of a large model is pure but not free, so the pipeline stores
// the serialized result under a key derived from the model document hash and
// the run options. Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (--no-cache, tests)
//   - [FileCache]: hashed files below the user cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (server deployments)
//
// Keys are built by a [Keyer] so every backend sees the same namespace, and
// [ScopedKeyer] isolates tenants sharing one backend.
package cache

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry is
	// reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 stores without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// TakeoffKey identifies a takeoff result of a model under opts.
	TakeoffKey(documentHash string, opts TakeoffKeyOpts) string
}

// TakeoffKeyOpts are the run options that change a takeoff result.
type TakeoffKeyOpts struct {
	Classes []string `json:"classes"`
	// Version invalidates cached results when the engine output changes.
	Version int `json:"version"`
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TakeoffKey hashes the document hash with the normalized options. Class
// order and case do not affect the key.
func (DefaultKeyer) TakeoffKey(documentHash string, opts TakeoffKeyOpts) string {
	classes := make([]string, 0, len(opts.Classes))
	for _, c := range opts.Classes {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			classes = append(classes, c)
		}
	}
	sort.Strings(classes)
	return hashKey("takeoff", documentHash, classes, opts.Version)
}

// Default time-to-live values.
const (
	// TTLTakeoff bounds how long a takeoff result is reused. Results are
	// keyed by document content, so expiry only reclaims space.
	TTLTakeoff = 7 * 24 * time.Hour
)
