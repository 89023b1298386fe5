package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateBuildingID creates a standardized, human-readable building ID.
// Format: {typeSlug}-{8charHexUUID}
//
// Example:
//   - Input: typeKey="POWER_SPIRE"
//   - Output: "power-spire-a3f8e2b1"
//
// The generated IDs are:
//   - Human-readable with a clear structure type prefix
//   - Globally unique via UUID suffix
//   - Persisted verbatim, so they stay stable across daemon restarts
func GenerateBuildingID(typeKey string) string {
	return typeSlug(typeKey) + "-" + generateShortUUID()
}

// typeSlug normalizes a building type key into an ID-friendly slug.
// Handles various formats:
//   - "POWER_SPIRE" -> "power-spire"
//   - "defense tower" -> "defense-tower"
//   - "bunker" -> "bunker" (unknown keys pass through unchanged)
//   - "" -> "building"
func typeSlug(typeKey string) string {
	slug := strings.ToLower(strings.TrimSpace(typeKey))
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = strings.ReplaceAll(slug, " ", "-")
	if slug == "" {
		return "building"
	}
	return slug
}

// generateShortUUID creates an 8-character hex string from a UUID.
// This provides sufficient uniqueness while keeping IDs compact.
func generateShortUUID() string {
	id := uuid.New()
	// Remove hyphens and take first 8 characters
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
