package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekStart() time.Time {
	return time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
}

func TestSubscriptionState_Defaults(t *testing.T) {
	s := NewSubscriptionState(weekStart())

	assert.Equal(t, TierFree, s.Tier())
	assert.Zero(t, s.Usage().ScansThisWeek)
	assert.True(t, s.Usage().WeekStartDate.Equal(weekStart()))
	assert.Nil(t, s.Trial().TrialStartDate)
	assert.Zero(t, s.HistoryLen())
}

func TestSubscriptionState_SetTierTracksSubscription(t *testing.T) {
	s := NewSubscriptionState(weekStart())

	s.SetTier(TierPremium)
	assert.Equal(t, TierPremium, s.Tier())

	blob := s.Blob()
	assert.True(t, blob.IsSubscribed)

	s.SetTier(TierFree)
	assert.False(t, s.Blob().IsSubscribed)
}

func TestSubscriptionState_RecordScanSameWeek(t *testing.T) {
	s := NewSubscriptionState(weekStart())

	s.RecordScan(weekStart())
	s.RecordScan(weekStart())

	usage := s.Usage()
	assert.Equal(t, 2, usage.ScansThisWeek)
	assert.Equal(t, 2, usage.TotalScansAllTime)
}

func TestSubscriptionState_RecordScanNewWeekRestartsAtOne(t *testing.T) {
	s := NewSubscriptionState(weekStart())
	s.RecordScan(weekStart())
	s.RecordScan(weekStart())

	nextWeek := weekStart().AddDate(0, 0, 7)
	s.RecordScan(nextWeek)

	usage := s.Usage()
	assert.Equal(t, 1, usage.ScansThisWeek, "the triggering scan is counted")
	assert.True(t, usage.WeekStartDate.Equal(nextWeek))
	assert.Equal(t, 3, usage.TotalScansAllTime, "lifetime counter never resets")
}

func TestSubscriptionState_TrialScansCounted(t *testing.T) {
	s := NewSubscriptionState(weekStart())
	s.StartTrial(weekStart().Add(12 * time.Hour))

	s.RecordScan(weekStart())
	s.RecordScan(weekStart())

	assert.Equal(t, 2, s.Trial().TrialScansUsed)
}

func TestSubscriptionState_EndTrialKeepsAudit(t *testing.T) {
	s := NewSubscriptionState(weekStart())
	s.StartTrial(weekStart())
	s.RecordScan(weekStart())

	s.EndTrial()

	assert.Equal(t, TierFree, s.Tier())
	trial := s.Trial()
	assert.False(t, trial.IsInTrial)
	assert.NotNil(t, trial.TrialStartDate)
	assert.Equal(t, 1, trial.TrialScansUsed)
}

func TestSubscriptionState_AddSessionPrependsAndTrims(t *testing.T) {
	s := NewSubscriptionState(weekStart())

	var evicted []DiagnosticSession
	for i := 0; i < 5; i++ {
		out := s.AddSession(DiagnosticSession{ID: fmt.Sprintf("s%d", i)}, 3)
		evicted = append(evicted, out...)
	}

	sessions := s.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, "s4", sessions[0].ID)
	assert.Equal(t, "s2", sessions[2].ID)

	require.Len(t, evicted, 2)
	assert.Equal(t, "s0", evicted[0].ID)
	assert.Equal(t, "s1", evicted[1].ID)
}

func TestSubscriptionState_AddSessionUnbounded(t *testing.T) {
	s := NewSubscriptionState(weekStart())

	for i := 0; i < 10; i++ {
		assert.Nil(t, s.AddSession(DiagnosticSession{ID: fmt.Sprintf("s%d", i)}, 0))
	}
	assert.Equal(t, 10, s.HistoryLen())
}

func TestSubscriptionState_SessionsReturnsCopy(t *testing.T) {
	s := NewSubscriptionState(weekStart())
	s.AddSession(DiagnosticSession{ID: "s1"}, 0)

	sessions := s.Sessions()
	sessions[0].ID = "mutated"

	assert.Equal(t, "s1", s.Sessions()[0].ID)
}

func TestSubscriptionState_BlobRoundtrip(t *testing.T) {
	s := NewSubscriptionState(weekStart())
	s.SetTier(TierPremium)
	s.RecordScan(weekStart())
	s.AddSession(DiagnosticSession{ID: "s1"}, 0)

	blob := s.Blob()

	restored := NewSubscriptionState(weekStart())
	restored.PutBlob(blob)

	assert.Equal(t, TierPremium, restored.Tier())
	assert.Equal(t, 1, restored.Usage().ScansThisWeek)
	assert.Equal(t, 1, restored.HistoryLen())
}

func TestSubscriptionState_PutBlobNilHistory(t *testing.T) {
	s := NewSubscriptionState(weekStart())

	s.PutBlob(&SubscriptionBlob{Tier: TierPremium})

	assert.NotNil(t, s.Sessions())
	assert.Zero(t, s.HistoryLen())
}
