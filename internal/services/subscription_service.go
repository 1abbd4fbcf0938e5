package services

import (
	"math"
	"time"

	"fixd/internal/calendar"
	"fixd/internal/models"
	"fixd/internal/structures"
)

// SubscriptionServiceInterface gates scans against tier quotas and owns
// the diagnostic history. All methods are total: missing data yields
// safe defaults (false/0/empty), never an error.
type SubscriptionServiceInterface interface {
	Tier() models.Tier
	SetTier(tier models.Tier)
	StartTrial()
	EndTrial()
	CanScan() bool
	RemainingScans() int
	IncrementScanUsage()
	IsTrialExpired() bool
	TrialDaysRemaining() int
	ResetWeeklyUsage()
	Usage() models.UsageStats
	TrialStats() models.TrialStats
	AddToHistory(session models.DiagnosticSession) []models.DiagnosticSession
	History() []models.DiagnosticSession
	HistoryLen() int
	ClearHistory()
	Snapshot() *models.SubscriptionBlob
	Restore(blob *models.SubscriptionBlob)
}

type SubscriptionService struct {
	state *models.SubscriptionState
	conf  *structures.Config
	now   func() time.Time
}

func NewSubscriptionService(conf *structures.Config) SubscriptionServiceInterface {
	return NewSubscriptionServiceWithClock(conf, time.Now)
}

// NewSubscriptionServiceWithClock injects the clock; tests use it to
// pin week boundaries and trial windows.
func NewSubscriptionServiceWithClock(conf *structures.Config, now func() time.Time) SubscriptionServiceInterface {
	return &SubscriptionService{
		state: models.NewSubscriptionState(calendar.WeekStart(now())),
		conf:  conf,
		now:   now,
	}
}

func (s *SubscriptionService) Tier() models.Tier { return s.state.Tier() }

func (s *SubscriptionService) SetTier(tier models.Tier) { s.state.SetTier(tier) }

func (s *SubscriptionService) StartTrial() { s.state.StartTrial(s.now()) }

func (s *SubscriptionService) EndTrial() { s.state.EndTrial() }

func (s *SubscriptionService) weeklyLimit(tier models.Tier) int {
	if tier == models.TierPremium {
		return s.conf.Quota.PremiumWeekly
	}
	return s.conf.Quota.FreeWeekly
}

func (s *SubscriptionService) CanScan() bool {
	tier := s.state.Tier()

	if tier == models.TierTrial {
		if s.IsTrialExpired() {
			return false
		}
		return s.state.Trial().TrialScansUsed < s.conf.Quota.TrialTotal
	}

	usage := s.state.Usage()
	if !calendar.WeekStart(s.now()).Equal(usage.WeekStartDate) {
		// Stored counter belongs to a past week; the quota resets on
		// the next successful scan.
		return true
	}
	return usage.ScansThisWeek < s.weeklyLimit(tier)
}

func (s *SubscriptionService) RemainingScans() int {
	tier := s.state.Tier()

	if tier == models.TierTrial {
		if s.IsTrialExpired() {
			return 0
		}
		return max(0, s.conf.Quota.TrialTotal-s.state.Trial().TrialScansUsed)
	}

	limit := s.weeklyLimit(tier)
	usage := s.state.Usage()
	if !calendar.WeekStart(s.now()).Equal(usage.WeekStartDate) {
		return limit
	}
	return max(0, limit-usage.ScansThisWeek)
}

// IncrementScanUsage records a successful scan. Ceilings are not checked
// here; callers gate on CanScan first.
func (s *SubscriptionService) IncrementScanUsage() {
	s.state.RecordScan(calendar.WeekStart(s.now()))
}

func (s *SubscriptionService) IsTrialExpired() bool {
	trial := s.state.Trial()
	if trial.TrialStartDate == nil {
		return true
	}
	return calendar.DaysSince(*trial.TrialStartDate, s.now()) >= float64(s.conf.Trial.DurationDays)
}

func (s *SubscriptionService) TrialDaysRemaining() int {
	trial := s.state.Trial()
	if trial.TrialStartDate == nil {
		return 0
	}
	remaining := float64(s.conf.Trial.DurationDays) - calendar.DaysSince(*trial.TrialStartDate, s.now())
	return max(0, int(math.Ceil(remaining)))
}

func (s *SubscriptionService) ResetWeeklyUsage() {
	s.state.ResetWeeklyUsage(calendar.WeekStart(s.now()))
}

func (s *SubscriptionService) Usage() models.UsageStats { return s.state.Usage() }

func (s *SubscriptionService) TrialStats() models.TrialStats { return s.state.Trial() }

func (s *SubscriptionService) AddToHistory(session models.DiagnosticSession) []models.DiagnosticSession {
	return s.state.AddSession(session, s.conf.History.MaxSessions)
}

// History returns the stored sessions, newest first. Free-tier users get
// an empty list; the access rule lives here rather than in the UI.
func (s *SubscriptionService) History() []models.DiagnosticSession {
	if s.state.Tier() == models.TierFree {
		return []models.DiagnosticSession{}
	}
	return s.state.Sessions()
}

func (s *SubscriptionService) HistoryLen() int { return s.state.HistoryLen() }

func (s *SubscriptionService) ClearHistory() { s.state.ClearHistory() }

func (s *SubscriptionService) Snapshot() *models.SubscriptionBlob { return s.state.Blob() }

func (s *SubscriptionService) Restore(blob *models.SubscriptionBlob) { s.state.PutBlob(blob) }
