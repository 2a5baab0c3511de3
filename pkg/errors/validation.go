package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// MaxViewport bounds viewport dimensions accepted from users.
const MaxViewport = 16384

// ValidateSlotID validates an app id from a manifest or a request path.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No path separators
//   - Maximum length of 64 characters
func ValidateSlotID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidManifest, "app id cannot be empty")
	}
	if len(id) > 64 {
		return New(ErrCodeInvalidManifest, "app id too long (max 64 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidManifest, "app id %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidManifest, "app id %q contains a path separator", id)
	}
	return nil
}

// ValidateViewport checks that a viewport is finite, positive and not
// absurdly large.
func ValidateViewport(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidViewport, "viewport must be finite")
		}
		if v <= 0 {
			return New(ErrCodeInvalidViewport, "viewport must be positive, got %gx%g", width, height)
		}
		if v > MaxViewport {
			return New(ErrCodeInvalidViewport, "viewport too large (max %d)", MaxViewport)
		}
	}
	return nil
}

// ValidateManifestPath checks that a manifest path has a supported extension.
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "manifest path cannot be empty")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return nil
	}
	return New(ErrCodeInvalidManifest, "unsupported manifest type %q (want .toml, .yaml or .yml)", filepath.Ext(path))
}
