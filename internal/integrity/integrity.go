// Package integrity checks downloaded and cached content against the
// SHA-256 hash pinned in a distribution URL.
package integrity

import (
	"github.com/opencontainers/go-digest"
)

// Valid reports whether content matches the expected hex-encoded SHA-256.
// An empty expected hash is an explicit opt-out of verification and is
// always valid. The same check gates both cache reuse and freshly
// downloaded content, so the two paths cannot diverge.
func Valid(content []byte, sha256hex string) bool {
	if sha256hex == "" {
		return true
	}
	return digest.SHA256.FromBytes(content).Encoded() == sha256hex
}
