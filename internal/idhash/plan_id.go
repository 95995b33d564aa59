package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// ComputePlanID computes a deterministic plan ID using SHA256.
// Formula: SHA256(start_gameweek|num_gameweeks|sorted member ids)
// The member set is sorted so the ID is independent of squad order.
func ComputePlanID(startGameweek, numGameweeks int, memberIDs []string) string {
	sorted := make([]string, len(memberIDs))
	copy(sorted, memberIDs)
	sort.Strings(sorted)

	data := fmt.Sprintf("%d|%d|%s", startGameweek, numGameweeks, strings.Join(sorted, "|"))
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
