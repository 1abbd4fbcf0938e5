package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRepairSubmission_Due(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry PendingRepairSubmission
		due   bool
	}{
		{"scheduled in the past", PendingRepairSubmission{ScheduledFollowUpDate: now.Add(-time.Hour)}, true},
		{"scheduled exactly now", PendingRepairSubmission{ScheduledFollowUpDate: now}, true},
		{"scheduled in the future", PendingRepairSubmission{ScheduledFollowUpDate: now.Add(time.Hour)}, false},
		{"completed", PendingRepairSubmission{ScheduledFollowUpDate: now.Add(-time.Hour), Completed: true}, false},
		{"reminder already sent", PendingRepairSubmission{ScheduledFollowUpDate: now.Add(-time.Hour), ReminderSent: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, tt.entry.Due(now))
		})
	}
}

func TestOutcomeState_AddSubmissionFeedsBothLists(t *testing.T) {
	o := NewOutcomeState()

	o.AddSubmission(RepairSubmission{ID: "r1", DiagnosticID: "d1"})
	o.AddSubmission(RepairSubmission{ID: "r2", DiagnosticID: "d1"})

	assert.Len(t, o.MyRepairs(), 2, "no dedup by diagnostic id")
	assert.Len(t, o.DrainPendingSubmissions(), 2)
	assert.Len(t, o.MyRepairs(), 2)
}

func TestOutcomeState_DueFollowUpsWithoutMarking(t *testing.T) {
	o := NewOutcomeState()
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	o.ScheduleFollowUp("d1", now.Add(-time.Hour))
	o.ScheduleFollowUp("d2", now.Add(time.Hour))

	due := o.DueFollowUps(now, false)
	require.Len(t, due, 1)
	assert.Equal(t, "d1", due[0].DiagnosticID)

	// Entries re-surface until completed.
	assert.Len(t, o.DueFollowUps(now, false), 1)
}

func TestOutcomeState_DueFollowUpsMarkReminder(t *testing.T) {
	o := NewOutcomeState()
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	o.ScheduleFollowUp("d1", now.Add(-time.Hour))

	assert.Len(t, o.DueFollowUps(now, true), 1)
	assert.Empty(t, o.DueFollowUps(now, true))
}

func TestOutcomeState_CompleteFollowUps(t *testing.T) {
	o := NewOutcomeState()
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	o.ScheduleFollowUp("d1", now.Add(-time.Hour))
	o.ScheduleFollowUp("d1", now.Add(-2*time.Hour))
	o.ScheduleFollowUp("d2", now.Add(-time.Hour))

	assert.Equal(t, 2, o.CompleteFollowUps("d1"))
	assert.Equal(t, 0, o.CompleteFollowUps("d1"), "completion is terminal")

	due := o.DueFollowUps(now, false)
	require.Len(t, due, 1)
	assert.Equal(t, "d2", due[0].DiagnosticID)
}

func TestOutcomeState_ContributionEnabledByDefault(t *testing.T) {
	o := NewOutcomeState()

	assert.True(t, o.ContributionEnabled())
	o.SetContributionEnabled(false)
	assert.False(t, o.ContributionEnabled())
}

func TestOutcomeState_BlobRoundtrip(t *testing.T) {
	o := NewOutcomeState()
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	o.AddSubmission(RepairSubmission{ID: "r1", DiagnosticID: "d1"})
	o.ScheduleFollowUp("d1", now)
	o.SetContributionEnabled(false)

	blob := o.Blob()

	restored := NewOutcomeState()
	restored.PutBlob(blob)

	assert.Len(t, restored.MyRepairs(), 1)
	assert.Len(t, restored.DueFollowUps(now, false), 1)
	assert.False(t, restored.ContributionEnabled())
}

func TestOutcomeState_PutBlobNilSlices(t *testing.T) {
	o := NewOutcomeState()

	o.PutBlob(&OutcomeBlob{ContributionEnabled: true})

	assert.NotNil(t, o.MyRepairs())
	assert.NotNil(t, o.DrainPendingSubmissions())
}
