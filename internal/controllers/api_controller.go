package controllers

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"fixd/internal/aggregate"
	"fixd/internal/models"
	"fixd/internal/persistence"
	"fixd/internal/providers"
	"fixd/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger       providers.Logger
	subscription services.SubscriptionServiceInterface
	outcome      services.OutcomeServiceInterface
	cache        providers.CacheProviderInterface
	metrics      providers.MetricsProviderInterface
	archive      *persistence.ColdArchive
}

func NewApiController(logger providers.Logger, subscription services.SubscriptionServiceInterface, outcome services.OutcomeServiceInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, archive *persistence.ColdArchive) *ApiController {
	return &ApiController{
		logger:       logger,
		subscription: subscription,
		outcome:      outcome,
		cache:        cache,
		metrics:      metrics,
		archive:      archive,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	gson, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

type allowanceResponse struct {
	CanScan            bool        `json:"canScan"`
	Remaining          int         `json:"remaining"`
	Tier               models.Tier `json:"tier"`
	TrialDaysRemaining int         `json:"trialDaysRemaining"`
}

// GetAllowance reports the quota decision without consuming anything.
func (ac *ApiController) GetAllowance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, allowanceResponse{
		CanScan:            ac.subscription.CanScan(),
		Remaining:          ac.subscription.RemainingScans(),
		Tier:               ac.subscription.Tier(),
		TrialDaysRemaining: ac.subscription.TrialDaysRemaining(),
	})
}

type scanResponse struct {
	Allowed   bool                      `json:"allowed"`
	Remaining int                       `json:"remaining"`
	Tier      models.Tier               `json:"tier"`
	Session   *models.DiagnosticSession `json:"session,omitempty"`
}

// RegisterScan is the producer side of the scan flow: the UI performs
// the model call itself and posts the finished session here. The gate
// runs first; a denied scan mutates nothing.
func (ac *ApiController) RegisterScan(w http.ResponseWriter, r *http.Request) {
	if !ac.subscription.CanScan() {
		ac.metrics.IncScansDenied()
		writeJSON(w, http.StatusPaymentRequired, scanResponse{
			Allowed:   false,
			Remaining: ac.subscription.RemainingScans(),
			Tier:      ac.subscription.Tier(),
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var session models.DiagnosticSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	ac.subscription.IncrementScanUsage()
	for _, evicted := range ac.subscription.AddToHistory(session) {
		ac.archive.Archive(evicted)
	}
	followUpDays := cast.ToInt(r.URL.Query().Get("followUpDays"))
	ac.outcome.ScheduleFollowUp(session.ID, followUpDays)
	ac.metrics.IncScans()

	writeJSON(w, http.StatusCreated, scanResponse{
		Allowed:   true,
		Remaining: ac.subscription.RemainingScans(),
		Tier:      ac.subscription.Tier(),
		Session:   &session,
	})
}

// GetHistory returns the diagnostic history, newest first. Free tier
// always gets an empty list.
func (ac *ApiController) GetHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.subscription.History())
}

// GetArchivedSession restores one evicted session from the cold archive.
func (ac *ApiController) GetArchivedSession(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	session, err := ac.archive.Restore(id)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type submissionResponse struct {
	ID       string `json:"id"`
	StatsKey string `json:"statsKey"`
}

// ReceiveSubmission accepts a repair-outcome report, completes the
// matching follow-ups and refreshes the cached stats for its key.
func (ac *ApiController) ReceiveSubmission(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var sub models.RepairSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.outcome.AddSubmission(&sub); err != nil {
		ac.logger.Warnf(providers.TypePost, "Rejected submission: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ac.metrics.IncSubmissions()

	key := aggregate.StatsKey(sub.DiagnosticData.Symptoms, sub.DiagnosticData.DTCCodes)
	stats := ac.outcome.StatsFor(sub.DiagnosticData.Symptoms, sub.DiagnosticData.DTCCodes)
	if gson, err := json.Marshal(stats); err == nil {
		ac.cache.Set(key, gson)
	}

	writeJSON(w, http.StatusCreated, submissionResponse{ID: sub.ID, StatsKey: key})
}

// GetStats serves the community stats for a symptom/DTC input, from
// cache when possible. An input with no submissions yields the
// zero-valued stats object, not an error.
func (ac *ApiController) GetStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	symptoms := query["symptom"]
	codes := query["code"]
	key := aggregate.StatsKey(symptoms, codes)
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return ac.outcome.StatsFor(symptoms, codes), nil
	})
}

// GetFollowUps lists the due follow-up prompts.
func (ac *ApiController) GetFollowUps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.outcome.PendingFollowUps())
}

type completeFollowUpRequest struct {
	DiagnosticID string `json:"diagnosticId"`
}

type completeFollowUpResponse struct {
	Completed int `json:"completed"`
}

// CompleteFollowUp retires every follow-up entry for a diagnostic id.
// An unknown id completes zero entries and still succeeds.
func (ac *ApiController) CompleteFollowUp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload completeFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	n := ac.outcome.MarkFollowUpCompleted(payload.DiagnosticID)
	writeJSON(w, http.StatusOK, completeFollowUpResponse{Completed: n})
}

// GetMyRepairs returns the user's own submitted reports.
func (ac *ApiController) GetMyRepairs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.outcome.MyRepairs())
}
