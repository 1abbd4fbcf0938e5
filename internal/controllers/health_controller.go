package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"fixd/internal/services"
)

type HealthController struct {
	subscription services.SubscriptionServiceInterface
	outcome      services.OutcomeServiceInterface
	startTime    time.Time
}

type healthResponse struct {
	Status          string  `json:"status"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	HistorySessions int     `json:"history_sessions"`
	FollowUpsDue    int     `json:"followups_due"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		HistorySessions: hc.subscription.HistoryLen(),
		FollowUpsDue:    hc.outcome.DueCount(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(subscription services.SubscriptionServiceInterface, outcome services.OutcomeServiceInterface) *HealthController {
	return &HealthController{
		subscription: subscription,
		outcome:      outcome,
		startTime:    time.Now(),
	}
}
