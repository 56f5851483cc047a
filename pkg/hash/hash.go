package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// VideoHash returns the full lowercase hex SHA256 of a video ID.
// Clients look videos up by prefixes of this value (k-anonymity).
func VideoHash(videoID string) string {
	return SHA256Hex(videoID)
}

// Prefix16 returns the first two bytes of SHA256(videoID) as a
// big-endian uint16. This matches the 4-hex-char hashedVideoID
// prefixes carried by the upstream CSV exports.
func Prefix16(videoID string) uint16 {
	h := sha256.Sum256([]byte(videoID))
	return uint16(h[0])<<8 | uint16(h[1])
}

// ParsePrefix16 parses a 4-character hex hash prefix into its uint16
// value. Longer or shorter prefixes are rejected.
func ParsePrefix16(prefix string) (uint16, error) {
	if len(prefix) != 4 {
		return 0, fmt.Errorf("hash prefix must be exactly 4 hex characters, got %d", len(prefix))
	}
	n, err := strconv.ParseUint(prefix, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid hash prefix %q: %w", prefix, err)
	}
	return uint16(n), nil
}

// IsHexPrefix reports whether s is a non-empty hex string no longer
// than a full SHA256 digest. Uppercase digits are accepted; callers
// normalize before lookups.
func IsHexPrefix(s string) bool {
	if len(s) == 0 || len(s) > 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
