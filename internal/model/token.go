package model

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewAdminToken returns the per-job edit capability: the hex SHA-1 of a
// random UUID, 40 characters. Generated once at creation and never rotated.
func NewAdminToken() string {
	rnd := strings.ReplaceAll(uuid.NewString(), "-", "")
	sum := sha1.Sum([]byte(rnd))
	return hex.EncodeToString(sum[:])
}

// NewReviewTokenValue returns a short single-use review token: the first 10
// hex characters of a random UUID.
func NewReviewTokenValue() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
