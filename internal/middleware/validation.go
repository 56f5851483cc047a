package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching the upstream CSV schema.
const (
	MaxVideoIDLen = 16
	MaxUserIDLen  = 64
	MaxUUIDLen    = 96
	MaxHashPrefix = 64
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// hexRe matches lowercase hex strings (hash prefix or full hash).
	hexRe = regexp.MustCompile(`^[0-9a-f]+$`)
	// uuidRe matches submission uuids: hex digests, optionally with a
	// numeric suffix separated by a dash.
	uuidRe = regexp.MustCompile(`^[0-9a-fA-F-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 16 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId contains invalid characters"
	}
	return id, ""
}

// ValidateUUID checks that a submission uuid is well-formed.
func ValidateUUID(uuid string) (string, string) {
	uuid = strings.TrimSpace(uuid)
	if uuid == "" {
		return "", "uuid is required"
	}
	if len(uuid) > MaxUUIDLen {
		return "", "uuid must be at most 96 characters"
	}
	if !uuidRe.MatchString(uuid) {
		return "", "uuid contains invalid characters"
	}
	return uuid, ""
}

// ValidateHashPrefix checks the hash prefix format. Native search
// accepts any prefix of the full digest.
func ValidateHashPrefix(prefix string) (string, string) {
	prefix = strings.TrimSpace(strings.ToLower(prefix))
	if len(prefix) == 0 || len(prefix) > MaxHashPrefix {
		return "", "Hash prefix must be 1-64 characters"
	}
	if !hexRe.MatchString(prefix) {
		return "", "Hash prefix must be hexadecimal"
	}
	return prefix, ""
}

// ValidateUserID checks that a user ID is a valid hex hash.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" {
		return "", "userId is required"
	}
	if len(id) > MaxUserIDLen {
		return "", "userId must be at most 64 characters"
	}
	if !hexRe.MatchString(id) {
		return "", "userId must be a hexadecimal hash"
	}
	return id, ""
}
