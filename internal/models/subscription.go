package models

import (
	"sync"
	"time"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierTrial   Tier = "trial"
)

func (t Tier) Valid() bool {
	return t == TierFree || t == TierPremium || t == TierTrial
}

type UsageStats struct {
	ScansThisWeek     int       `json:"scansThisWeek"`
	WeekStartDate     time.Time `json:"weekStartDate"`
	TotalScansAllTime int       `json:"totalScansAllTime"`
}

type TrialStats struct {
	IsInTrial      bool       `json:"isInTrial"`
	TrialStartDate *time.Time `json:"trialStartDate"`
	TrialScansUsed int        `json:"trialScansUsed"`
}

type Vehicle struct {
	Year    string `json:"year"`
	Make    string `json:"make"`
	Model   string `json:"model"`
	Engine  string `json:"engine,omitempty"`
	Mileage string `json:"mileage"`
}

type DiagnosticSession struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Vehicle   Vehicle   `json:"vehicle"`
	Symptoms  []string  `json:"symptoms"`
	DTCCodes  []string  `json:"dtcCodes"`
	Summary   string    `json:"summary"`
}

// SubscriptionState holds the tier, usage counters and diagnostic history.
// All access goes through the methods; the zero value is not usable,
// construct with NewSubscriptionState.
type SubscriptionState struct {
	mu           sync.RWMutex
	tier         Tier
	isSubscribed bool
	usage        UsageStats
	trial        TrialStats
	history      []DiagnosticSession
}

func NewSubscriptionState(weekStart time.Time) *SubscriptionState {
	return &SubscriptionState{
		tier:    TierFree,
		usage:   UsageStats{WeekStartDate: weekStart},
		history: make([]DiagnosticSession, 0),
	}
}

func (s *SubscriptionState) Tier() Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tier
}

func (s *SubscriptionState) SetTier(tier Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tier = tier
	s.isSubscribed = tier == TierPremium
}

func (s *SubscriptionState) Usage() UsageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage
}

func (s *SubscriptionState) Trial() TrialStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trial
}

func (s *SubscriptionState) StartTrial(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := now
	s.tier = TierTrial
	s.isSubscribed = false
	s.trial = TrialStats{IsInTrial: true, TrialStartDate: &start}
}

// EndTrial reverts the tier to free but keeps the trial counters for audit.
func (s *SubscriptionState) EndTrial() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tier = TierFree
	s.isSubscribed = false
	s.trial.IsInTrial = false
}

// RecordScan applies a successful scan to the usage counters. When the
// stored week boundary differs from weekStart the weekly counter restarts
// at 1 so the current scan is counted. Trial scans are counted without a
// ceiling check; the ceiling is enforced by the read side.
func (s *SubscriptionState) RecordScan(weekStart time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usage.WeekStartDate.Equal(weekStart) {
		s.usage.ScansThisWeek++
	} else {
		s.usage.ScansThisWeek = 1
		s.usage.WeekStartDate = weekStart
	}
	s.usage.TotalScansAllTime++
	if s.tier == TierTrial {
		s.trial.TrialScansUsed++
	}
}

func (s *SubscriptionState) ResetWeeklyUsage(weekStart time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage.ScansThisWeek = 0
	s.usage.WeekStartDate = weekStart
}

// AddSession prepends a session and trims the history to max entries.
// The evicted tail is returned so callers can archive it.
func (s *SubscriptionState) AddSession(session DiagnosticSession, max int) []DiagnosticSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]DiagnosticSession{session}, s.history...)
	if max > 0 && len(s.history) > max {
		evicted := make([]DiagnosticSession, len(s.history)-max)
		copy(evicted, s.history[max:])
		s.history = s.history[:max]
		return evicted
	}
	return nil
}

func (s *SubscriptionState) Sessions() []DiagnosticSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DiagnosticSession, len(s.history))
	copy(out, s.history)
	return out
}

func (s *SubscriptionState) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

func (s *SubscriptionState) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make([]DiagnosticSession, 0)
}

// Blob returns a plain copy of the state for persistence.
func (s *SubscriptionState) Blob() *SubscriptionBlob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]DiagnosticSession, len(s.history))
	copy(history, s.history)
	return &SubscriptionBlob{
		Tier:         s.tier,
		IsSubscribed: s.isSubscribed,
		Usage:        s.usage,
		Trial:        s.trial,
		History:      history,
	}
}

// PutBlob replaces the state with a loaded snapshot.
func (s *SubscriptionState) PutBlob(b *SubscriptionBlob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Tier.Valid() {
		s.tier = b.Tier
	}
	s.isSubscribed = b.IsSubscribed
	s.usage = b.Usage
	s.trial = b.Trial
	s.history = b.History
	if s.history == nil {
		s.history = make([]DiagnosticSession, 0)
	}
}
