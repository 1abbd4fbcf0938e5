package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"fixd/internal/models"
	"fixd/internal/structures"
)

// --- minimal service mocks for the gauge callbacks ---

type metricsTestSubscription struct{}

func (m *metricsTestSubscription) Tier() models.Tier                            { return models.TierFree }
func (m *metricsTestSubscription) SetTier(_ models.Tier)                        {}
func (m *metricsTestSubscription) StartTrial()                                  {}
func (m *metricsTestSubscription) EndTrial()                                    {}
func (m *metricsTestSubscription) CanScan() bool                                { return true }
func (m *metricsTestSubscription) RemainingScans() int                          { return 0 }
func (m *metricsTestSubscription) IncrementScanUsage()                          {}
func (m *metricsTestSubscription) IsTrialExpired() bool                         { return true }
func (m *metricsTestSubscription) TrialDaysRemaining() int                      { return 0 }
func (m *metricsTestSubscription) ResetWeeklyUsage()                            {}
func (m *metricsTestSubscription) Usage() models.UsageStats                     { return models.UsageStats{} }
func (m *metricsTestSubscription) TrialStats() models.TrialStats                { return models.TrialStats{} }
func (m *metricsTestSubscription) History() []models.DiagnosticSession          { return nil }
func (m *metricsTestSubscription) HistoryLen() int                              { return 7 }
func (m *metricsTestSubscription) ClearHistory()                                {}
func (m *metricsTestSubscription) Snapshot() *models.SubscriptionBlob           { return nil }
func (m *metricsTestSubscription) Restore(_ *models.SubscriptionBlob)           {}
func (m *metricsTestSubscription) AddToHistory(_ models.DiagnosticSession) []models.DiagnosticSession {
	return nil
}

type metricsTestOutcome struct{}

func (m *metricsTestOutcome) AddSubmission(_ *models.RepairSubmission) error { return nil }
func (m *metricsTestOutcome) ScheduleFollowUp(_ string, _ int)               {}
func (m *metricsTestOutcome) PendingFollowUps() []models.PendingRepairSubmission {
	return nil
}
func (m *metricsTestOutcome) MarkFollowUpCompleted(_ string) int          { return 0 }
func (m *metricsTestOutcome) MyRepairs() []models.RepairSubmission        { return nil }
func (m *metricsTestOutcome) DrainPendingSubmissions() []models.RepairSubmission {
	return nil
}
func (m *metricsTestOutcome) ContributionEnabled() bool        { return true }
func (m *metricsTestOutcome) SetContributionEnabled(_ bool)    {}
func (m *metricsTestOutcome) DueCount() int                    { return 3 }
func (m *metricsTestOutcome) Snapshot() *models.OutcomeBlob    { return nil }
func (m *metricsTestOutcome) Restore(_ *models.OutcomeBlob)    {}
func (m *metricsTestOutcome) StatsFor(_, _ []string) models.WhatFixedItStats {
	return models.WhatFixedItStats{}
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestSubscription{}, &metricsTestOutcome{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/stats", 200)
	m.ObserveRequestDuration("/stats", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(time.Millisecond)
	m.IncScans()
	m.IncScansDenied()
	m.IncSubmissions()
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestSubscription{}, &metricsTestOutcome{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestSubscription{}, &metricsTestOutcome{})

	// These should not panic
	m.IncRequestsTotal("/stats", 200)
	m.IncRequestsTotal("/stats", 404)
	m.ObserveRequestDuration("/stats", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObservePersistenceDuration(100 * time.Millisecond)
	m.IncScans()
	m.IncScansDenied()
	m.IncSubmissions()
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
