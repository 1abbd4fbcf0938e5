// Package billing is the boundary to the store-billing collaborator.
// The daemon never talks to a store SDK itself; the UI forwards
// entitlement results here and the daemon maps them onto the tier.
package billing

import (
	"context"

	"fixd/internal/models"
	"fixd/internal/services"
)

type PeriodType string

const (
	PeriodNormal PeriodType = "NORMAL"
	PeriodTrial  PeriodType = "TRIAL"
)

const EntitlementPremium = "premium"

// Package is one purchasable offering.
type Package struct {
	Identifier  string  `json:"identifier"`
	Title       string  `json:"title"`
	PriceString string  `json:"priceString"`
	Price       float64 `json:"price"`
}

// Entitlement is an active grant as reported by the billing provider.
type Entitlement struct {
	Name       string     `json:"name"`
	PeriodType PeriodType `json:"periodType"`
	Active     bool       `json:"active"`
}

// EntitlementClient is the external billing collaborator. Implementations
// wrap a real store SDK; the daemon ships with a static offline one.
type EntitlementClient interface {
	Purchase(ctx context.Context, packageID string) ([]Entitlement, error)
	Restore(ctx context.Context) ([]Entitlement, error)
	Offerings(ctx context.Context) ([]Package, error)
	HasEntitlement(ctx context.Context, name string) (bool, error)
}

// ApplyEntitlements maps billing results onto the subscription tier:
// an active premium trial starts the trial window, a normal premium
// grant sets the premium tier, and no grant reverts to free (ending an
// in-flight trial).
func ApplyEntitlements(entitlements []Entitlement, subscription services.SubscriptionServiceInterface) models.Tier {
	for _, e := range entitlements {
		if !e.Active || e.Name != EntitlementPremium {
			continue
		}
		if e.PeriodType == PeriodTrial {
			subscription.StartTrial()
		} else {
			subscription.SetTier(models.TierPremium)
		}
		return subscription.Tier()
	}
	if subscription.Tier() == models.TierTrial {
		subscription.EndTrial()
	} else {
		subscription.SetTier(models.TierFree)
	}
	return subscription.Tier()
}

// StaticClient is the offline EntitlementClient used when no billing
// backend is wired up. Offerings are fixed and purchases always grant
// the configured entitlements.
type StaticClient struct {
	Grants   []Entitlement
	Packages []Package
}

func NewStaticClient() *StaticClient {
	return &StaticClient{
		Packages: []Package{
			{Identifier: "premium_monthly", Title: "Premium Monthly", PriceString: "$7.99", Price: 7.99},
			{Identifier: "premium_annual", Title: "Premium Annual", PriceString: "$49.99", Price: 49.99},
		},
	}
}

func (c *StaticClient) Purchase(_ context.Context, packageID string) ([]Entitlement, error) {
	for _, p := range c.Packages {
		if p.Identifier == packageID {
			grant := Entitlement{Name: EntitlementPremium, PeriodType: PeriodNormal, Active: true}
			c.Grants = append(c.Grants, grant)
			return []Entitlement{grant}, nil
		}
	}
	return nil, ErrUnknownPackage
}

func (c *StaticClient) Restore(_ context.Context) ([]Entitlement, error) {
	out := make([]Entitlement, len(c.Grants))
	copy(out, c.Grants)
	return out, nil
}

func (c *StaticClient) Offerings(_ context.Context) ([]Package, error) {
	out := make([]Package, len(c.Packages))
	copy(out, c.Packages)
	return out, nil
}

func (c *StaticClient) HasEntitlement(_ context.Context, name string) (bool, error) {
	for _, g := range c.Grants {
		if g.Name == name && g.Active {
			return true, nil
		}
	}
	return false, nil
}
