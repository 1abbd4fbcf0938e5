package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/validate"

	"fixd/internal/aggregate"
	"fixd/internal/calendar"
	"fixd/internal/models"
	"fixd/internal/structures"
)

// OutcomeServiceInterface manages repair-outcome submissions and their
// follow-up lifecycle, and exposes the aggregated community view.
type OutcomeServiceInterface interface {
	AddSubmission(sub *models.RepairSubmission) error
	ScheduleFollowUp(diagnosticID string, daysLater int)
	PendingFollowUps() []models.PendingRepairSubmission
	MarkFollowUpCompleted(diagnosticID string) int
	MyRepairs() []models.RepairSubmission
	DrainPendingSubmissions() []models.RepairSubmission
	ContributionEnabled() bool
	SetContributionEnabled(enabled bool)
	StatsFor(symptoms, dtcCodes []string) models.WhatFixedItStats
	DueCount() int
	Snapshot() *models.OutcomeBlob
	Restore(blob *models.OutcomeBlob)
}

type OutcomeService struct {
	state *models.OutcomeState
	conf  *structures.Config
	now   func() time.Time
}

func NewOutcomeService(conf *structures.Config) OutcomeServiceInterface {
	return NewOutcomeServiceWithClock(conf, time.Now)
}

func NewOutcomeServiceWithClock(conf *structures.Config, now func() time.Time) OutcomeServiceInterface {
	return &OutcomeService{
		state: models.NewOutcomeState(),
		conf:  conf,
		now:   now,
	}
}

// AddSubmission validates and accepts a repair report, assigning an id
// and timestamps when absent, and completes any follow-ups for the same
// diagnostic. A diagnostic id referencing no known session is accepted
// as-is; matching operations simply find nothing.
func (o *OutcomeService) AddSubmission(sub *models.RepairSubmission) error {
	if sub == nil {
		return errors.New("nil submission")
	}

	v := validate.Struct(sub)
	if !v.Validate() {
		return errors.New(v.Errors.One())
	}

	now := o.now()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.UserID == "" {
		sub.UserID = "anonymous"
	}
	if sub.Timestamp.IsZero() {
		sub.Timestamp = now
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = now
	}

	o.state.AddSubmission(*sub)
	o.state.CompleteFollowUps(sub.DiagnosticID)
	return nil
}

func (o *OutcomeService) ScheduleFollowUp(diagnosticID string, daysLater int) {
	if daysLater <= 0 {
		daysLater = o.conf.FollowUp.DefaultDays
	}
	o.state.ScheduleFollowUp(diagnosticID, calendar.DaysAfter(o.now(), daysLater))
}

func (o *OutcomeService) PendingFollowUps() []models.PendingRepairSubmission {
	return o.state.DueFollowUps(o.now(), o.conf.FollowUp.MarkReminderOnSurface)
}

func (o *OutcomeService) MarkFollowUpCompleted(diagnosticID string) int {
	return o.state.CompleteFollowUps(diagnosticID)
}

func (o *OutcomeService) MyRepairs() []models.RepairSubmission {
	return o.state.MyRepairs()
}

func (o *OutcomeService) DrainPendingSubmissions() []models.RepairSubmission {
	return o.state.DrainPendingSubmissions()
}

func (o *OutcomeService) ContributionEnabled() bool { return o.state.ContributionEnabled() }

func (o *OutcomeService) SetContributionEnabled(enabled bool) {
	o.state.SetContributionEnabled(enabled)
}

// StatsFor aggregates the locally stored submissions whose symptom/DTC
// input hashes to the same stats key as the query. Key collisions pool
// unrelated submissions together; that is a known property of the key.
func (o *OutcomeService) StatsFor(symptoms, dtcCodes []string) models.WhatFixedItStats {
	key := aggregate.StatsKey(symptoms, dtcCodes)
	matching := make([]models.RepairSubmission, 0)
	for _, sub := range o.state.MyRepairs() {
		if aggregate.StatsKey(sub.DiagnosticData.Symptoms, sub.DiagnosticData.DTCCodes) == key {
			matching = append(matching, sub)
		}
	}
	return aggregate.CalculateStats(matching, o.now())
}

// DueCount reports how many follow-ups are actionable right now without
// surfacing them.
func (o *OutcomeService) DueCount() int {
	return len(o.state.DueFollowUps(o.now(), false))
}

func (o *OutcomeService) Snapshot() *models.OutcomeBlob { return o.state.Blob() }

func (o *OutcomeService) Restore(blob *models.OutcomeBlob) { o.state.PutBlob(blob) }
