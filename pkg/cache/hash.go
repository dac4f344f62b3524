package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/imran31415/forcefield/pkg/layout"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// LayoutKey builds the cache key for a base layout: the graph content
// hash, the full parameter set, and the filter caps in effect. Any
// change to one of these yields a different layout, so each gets its
// own entry.
func LayoutKey(graphHash string, p layout.Params, maxNodes, maxEdges int) string {
	return hashKey("layout", graphHash, p, maxNodes, maxEdges)
}
