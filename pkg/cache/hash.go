package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
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

// KeyType returns the prefix of a key built by a Keyer, such as "snapshot".
func KeyType(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			head := key[:i]
			for j := len(head) - 1; j >= 0; j-- {
				if head[j] == ':' {
					return head[j+1:]
				}
			}
			return head
		}
	}
	return key
}
