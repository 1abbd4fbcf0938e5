package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"

	"fixd/internal/billing"
	"fixd/internal/models"
	"fixd/internal/providers"
	"fixd/internal/services"
)

// AccountController handles settings and the billing boundary.
type AccountController struct {
	logger       providers.Logger
	subscription services.SubscriptionServiceInterface
	settings     *models.SettingsState
	billing      billing.EntitlementClient
}

func NewAccountController(logger providers.Logger, subscription services.SubscriptionServiceInterface, settings *models.SettingsState, client billing.EntitlementClient) *AccountController {
	return &AccountController{
		logger:       logger,
		subscription: subscription,
		settings:     settings,
		billing:      client,
	}
}

func (ctl *AccountController) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctl.settings.Get())
}

func (ctl *AccountController) PutSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	settings := models.DefaultSettings()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	v := validate.Struct(&settings)
	if !v.Validate() {
		http.Error(w, v.Errors.One(), http.StatusBadRequest)
		return
	}
	ctl.settings.Put(settings)
	writeJSON(w, http.StatusOK, settings)
}

type tierResponse struct {
	Tier models.Tier `json:"tier"`
}

type entitlementRequest struct {
	Entitlements []billing.Entitlement `json:"entitlements"`
}

// ReceiveEntitlements applies billing results forwarded by the UI after
// a purchase or restore performed against the store SDK directly.
func (ctl *AccountController) ReceiveEntitlements(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload entitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	tier := billing.ApplyEntitlements(payload.Entitlements, ctl.subscription)
	ctl.logger.Infof(providers.TypePost, "Entitlements applied, tier=%s", tier)
	writeJSON(w, http.StatusOK, tierResponse{Tier: tier})
}

func (ctl *AccountController) GetOfferings(w http.ResponseWriter, r *http.Request) {
	offerings, err := ctl.billing.Offerings(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, offerings)
}

type purchaseRequest struct {
	PackageID string `json:"packageId"`
}

func (ctl *AccountController) Purchase(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	entitlements, err := ctl.billing.Purchase(r.Context(), payload.PackageID)
	if err != nil {
		if errors.Is(err, billing.ErrUnknownPackage) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	tier := billing.ApplyEntitlements(entitlements, ctl.subscription)
	writeJSON(w, http.StatusOK, tierResponse{Tier: tier})
}

func (ctl *AccountController) RestorePurchases(w http.ResponseWriter, r *http.Request) {
	entitlements, err := ctl.billing.Restore(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	tier := billing.ApplyEntitlements(entitlements, ctl.subscription)
	writeJSON(w, http.StatusOK, tierResponse{Tier: tier})
}
