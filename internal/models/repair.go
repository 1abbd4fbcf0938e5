package models

import (
	"sync"
	"time"
)

type RepairOutcome string

const (
	OutcomeFixed    RepairOutcome = "fixed"
	OutcomePartial  RepairOutcome = "partial"
	OutcomeNotFixed RepairOutcome = "not_fixed"
)

type RepairType string

const (
	RepairDIY  RepairType = "diy"
	RepairShop RepairType = "shop"
)

type RepairPart struct {
	Name string  `json:"name" validate:"required"`
	Cost float64 `json:"cost"`
}

type DiagnosticData struct {
	Symptoms         []string `json:"symptoms"`
	DTCCodes         []string `json:"dtcCodes"`
	AIDiagnosisTitle string   `json:"aiDiagnosisTitle"`
	AIDiagnosisPath  string   `json:"aiDiagnosisPath"`
}

type RepairDetails struct {
	Type             RepairType   `json:"type" validate:"required|in:diy,shop"`
	PartsReplaced    []RepairPart `json:"partsReplaced"`
	LaborDescription string       `json:"laborDescription"`
	TotalCost        float64      `json:"totalCost" validate:"min:0"`
	TimeSpent        float64      `json:"timeSpent" validate:"min:0"`
	ShopName         string       `json:"shopName,omitempty"`
}

// RepairSubmission is a single user-reported repair outcome. Immutable
// once accepted.
type RepairSubmission struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	DiagnosticID   string         `json:"diagnosticId" validate:"required"`
	Vehicle        Vehicle        `json:"vehicle"`
	DiagnosticData DiagnosticData `json:"diagnosticData"`
	Repair         RepairDetails  `json:"repair"`

	Outcome         RepairOutcome `json:"outcome" validate:"required|in:fixed,partial,not_fixed"`
	Confidence      int           `json:"confidence" validate:"int|min:1|max:5"`
	AdditionalNotes string        `json:"additionalNotes,omitempty"`

	DaysToRepair int       `json:"daysToRepair"`
	Timestamp    time.Time `json:"timestamp"`
	SubmittedAt  time.Time `json:"submittedAt"`

	Upvotes            int  `json:"upvotes"`
	Downvotes          int  `json:"downvotes"`
	VerifiedByExpert   bool `json:"verifiedByExpert"`
	FlaggedAsIncorrect bool `json:"flaggedAsIncorrect"`
}

// PendingRepairSubmission is a scheduled follow-up prompt for a past
// diagnostic. Entries are never deleted; completion is terminal.
type PendingRepairSubmission struct {
	DiagnosticID          string    `json:"diagnosticId"`
	ScheduledFollowUpDate time.Time `json:"scheduledFollowUpDate"`
	ReminderSent          bool      `json:"reminderSent"`
	Completed             bool      `json:"completed"`
}

// Due reports whether the entry is actionable at the given instant.
func (p *PendingRepairSubmission) Due(now time.Time) bool {
	return !p.Completed && !p.ReminderSent && !p.ScheduledFollowUpDate.After(now)
}

// OutcomeState holds repair submissions and follow-up entries.
type OutcomeState struct {
	mu                  sync.RWMutex
	pendingSubmissions  []RepairSubmission
	pendingFollowUps    []PendingRepairSubmission
	myRepairs           []RepairSubmission
	contributionEnabled bool
}

func NewOutcomeState() *OutcomeState {
	return &OutcomeState{
		pendingSubmissions:  make([]RepairSubmission, 0),
		pendingFollowUps:    make([]PendingRepairSubmission, 0),
		myRepairs:           make([]RepairSubmission, 0),
		contributionEnabled: true,
	}
}

// AddSubmission appends to both the sync queue and the permanent list.
// No dedup by diagnostic id; the original kept every report.
func (o *OutcomeState) AddSubmission(sub RepairSubmission) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pendingSubmissions = append(o.pendingSubmissions, sub)
	o.myRepairs = append(o.myRepairs, sub)
}

func (o *OutcomeState) ScheduleFollowUp(diagnosticID string, date time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pendingFollowUps = append(o.pendingFollowUps, PendingRepairSubmission{
		DiagnosticID:          diagnosticID,
		ScheduledFollowUpDate: date,
	})
}

// DueFollowUps returns the actionable entries at now. When markReminder
// is set, returned entries are flagged as reminded and will not surface
// again.
func (o *OutcomeState) DueFollowUps(now time.Time, markReminder bool) []PendingRepairSubmission {
	o.mu.Lock()
	defer o.mu.Unlock()
	due := make([]PendingRepairSubmission, 0)
	for i := range o.pendingFollowUps {
		if o.pendingFollowUps[i].Due(now) {
			due = append(due, o.pendingFollowUps[i])
			if markReminder {
				o.pendingFollowUps[i].ReminderSent = true
			}
		}
	}
	return due
}

// CompleteFollowUps marks every entry for the diagnostic id as completed
// and returns how many were affected.
func (o *OutcomeState) CompleteFollowUps(diagnosticID string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for i := range o.pendingFollowUps {
		if o.pendingFollowUps[i].DiagnosticID == diagnosticID && !o.pendingFollowUps[i].Completed {
			o.pendingFollowUps[i].Completed = true
			n++
		}
	}
	return n
}

func (o *OutcomeState) MyRepairs() []RepairSubmission {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]RepairSubmission, len(o.myRepairs))
	copy(out, o.myRepairs)
	return out
}

// DrainPendingSubmissions returns the sync queue and clears it.
func (o *OutcomeState) DrainPendingSubmissions() []RepairSubmission {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pendingSubmissions
	o.pendingSubmissions = make([]RepairSubmission, 0)
	return out
}

func (o *OutcomeState) ContributionEnabled() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.contributionEnabled
}

func (o *OutcomeState) SetContributionEnabled(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.contributionEnabled = enabled
}

func (o *OutcomeState) Blob() *OutcomeBlob {
	o.mu.RLock()
	defer o.mu.RUnlock()
	pending := make([]RepairSubmission, len(o.pendingSubmissions))
	copy(pending, o.pendingSubmissions)
	followUps := make([]PendingRepairSubmission, len(o.pendingFollowUps))
	copy(followUps, o.pendingFollowUps)
	repairs := make([]RepairSubmission, len(o.myRepairs))
	copy(repairs, o.myRepairs)
	return &OutcomeBlob{
		PendingSubmissions:  pending,
		PendingFollowUps:    followUps,
		MyRepairs:           repairs,
		ContributionEnabled: o.contributionEnabled,
	}
}

func (o *OutcomeState) PutBlob(b *OutcomeBlob) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pendingSubmissions = b.PendingSubmissions
	o.pendingFollowUps = b.PendingFollowUps
	o.myRepairs = b.MyRepairs
	o.contributionEnabled = b.ContributionEnabled
	if o.pendingSubmissions == nil {
		o.pendingSubmissions = make([]RepairSubmission, 0)
	}
	if o.pendingFollowUps == nil {
		o.pendingFollowUps = make([]PendingRepairSubmission, 0)
	}
	if o.myRepairs == nil {
		o.myRepairs = make([]RepairSubmission, 0)
	}
}
