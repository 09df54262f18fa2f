package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ArtifactKeyOpts captures the settings that change a converted artifact.
// Two conversions of the same source share a key only when every field
// matches.
type ArtifactKeyOpts struct {
	// Format is the output format: xml, dot or svg.
	Format string `json:"format"`
	// Layout is a hash of the geometry profile used for placement.
	Layout string `json:"layout"`
	// Name is the page name override, if any.
	Name string `json:"name,omitempty"`
	// Modified and Etag carry pinned envelope values; left empty for
	// normal runs where the envelope is freshly stamped.
	Modified string `json:"modified,omitempty"`
	Etag     string `json:"etag,omitempty"`
}

// Keyer generates cache keys for conversion artifacts.
type Keyer interface {
	// ArtifactKey generates a key for a converted artifact. sourceHash
	// is the hash of the diagram source text, see [Hash].
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates unscoped keys. Suitable for the CLI where the
// cache directory already belongs to a single user.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key of the form artifact:<source>:<hash(opts)>.
func (k *DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+sourceHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so shared backends (redis) can
// keep tenants or deployments in separate namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer falls back to [NewDefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}

// hashKey generates a cache key by hashing the option payload.
// The key format is: prefix:hash(opts).
func hashKey(prefix string, opts any) string {
	data, _ := json.Marshal(opts)
	hash := sha256.Sum256(data)
	// Full SHA-256 (64 hex chars) to prevent collisions.
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
