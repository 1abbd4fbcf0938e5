package aggregate

import (
	"sort"
	"strconv"
	"strings"
)

// StatsKey derives the opaque cache key for a symptom/DTC input. Both
// lists are sorted so that ordering does not affect the key, joined with
// "|" and hashed with a 31-multiplier rolling hash wrapped to signed
// 32 bits. The key is a lookup handle, not a secure digest; distinct
// inputs can collide and share a cache entry.
func StatsKey(symptoms, dtcCodes []string) string {
	combined := make([]string, 0, len(symptoms)+len(dtcCodes))
	combined = append(combined, append([]string(nil), symptoms...)...)
	sort.Strings(combined)
	codes := append([]string(nil), dtcCodes...)
	sort.Strings(codes)
	combined = append(combined, codes...)

	joined := strings.Join(combined, "|")
	var hash int32
	for _, r := range joined {
		hash = hash<<5 - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return "stats_" + strconv.Itoa(int(hash))
}
