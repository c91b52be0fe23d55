// Package cache stores rendered figure artifacts.
//
// Artifacts are keyed by the hash of the figure document plus the options
// that shaped the output, so a cache never holds figure state, only bytes
// that can be rebuilt from the document.
//
// Three backends are provided:
//   - [NullCache] never stores anything.
//   - [FileCache] keeps entries as JSON files, used by the CLI.
//   - [RedisCache] shares entries between server replicas.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey is the key of a settled layout (geometry and legend as JSON).
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of one rendered artifact.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that change a layout.
type LayoutKeyOpts struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the document that change an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, docHash, opts)
}

// Entry lifetimes. Entries derive from document hashes, so they only expire
// to bound storage.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Hash returns the hex SHA-256 of data. Documents are keyed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds "prefix:hash(parts)".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Kind returns the key prefix before the first colon: "layout" or "artifact".
func Kind(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}

// NullCache never stores anything. The CLI uses it for --no-cache.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
