package aggregate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsKey_OrderInsensitive(t *testing.T) {
	a := StatsKey([]string{"rough idle", "check engine light"}, []string{"P0301", "P0171"})
	b := StatsKey([]string{"check engine light", "rough idle"}, []string{"P0171", "P0301"})

	assert.Equal(t, a, b)
}

func TestStatsKey_SymptomsAndCodesSortSeparately(t *testing.T) {
	// Codes always follow symptoms, so swapping a value between the two
	// lists produces a different joined string and a different key.
	a := StatsKey([]string{"z"}, []string{"a"})
	b := StatsKey([]string{"a"}, []string{"z"})

	assert.NotEqual(t, a, b)
}

func TestStatsKey_Prefix(t *testing.T) {
	key := StatsKey([]string{"stalling"}, nil)
	assert.True(t, strings.HasPrefix(key, "stats_"))
}

func TestStatsKey_EmptyInput(t *testing.T) {
	assert.Equal(t, "stats_0", StatsKey(nil, nil))
}

func TestStatsKey_Deterministic(t *testing.T) {
	symptoms := []string{"misfire", "hesitation"}
	codes := []string{"P0420"}

	assert.Equal(t, StatsKey(symptoms, codes), StatsKey(symptoms, codes))
}

func TestStatsKey_DoesNotMutateArguments(t *testing.T) {
	symptoms := []string{"b", "a"}
	codes := []string{"2", "1"}
	StatsKey(symptoms, codes)

	assert.Equal(t, []string{"b", "a"}, symptoms)
	assert.Equal(t, []string{"2", "1"}, codes)
}
