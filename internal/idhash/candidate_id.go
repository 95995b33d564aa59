package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"fpl-squad-lab/internal/domain"
)

// ComputeCandidateID computes a deterministic candidate ID using SHA256.
// Formula: SHA256(name|club|role)
// Returns hex-encoded hash (64 characters).
func ComputeCandidateID(name, club string, role domain.Role) string {
	data := fmt.Sprintf("%s|%s|%s", name, club, string(role))
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
