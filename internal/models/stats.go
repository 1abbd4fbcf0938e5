package models

// CostDistribution buckets submissions by total repair cost. The buckets
// are mutually exclusive and exhaustive: <100, [100,500), [500,1000), >=1000.
type CostDistribution struct {
	Under100  int `json:"under100"`
	Under500  int `json:"under500"`
	Under1000 int `json:"under1000"`
	Over1000  int `json:"over1000"`
}

func (c CostDistribution) Total() int {
	return c.Under100 + c.Under500 + c.Under1000 + c.Over1000
}

// RepairSolution is one group of submissions sharing a labor description.
type RepairSolution struct {
	Description   string   `json:"description"`
	PartsUsed     []string `json:"partsUsed"`
	SuccessCount  int      `json:"successCount"`
	TotalAttempts int      `json:"totalAttempts"`
	SuccessRate   float64  `json:"successRate"`
	AverageCost   float64  `json:"averageCost"`
	DIYFriendly   bool     `json:"diyFriendly"`
	RecentReports int      `json:"recentReports"`
}

type VehicleBreakdown struct {
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Count       int     `json:"count"`
	SuccessRate float64 `json:"successRate"`
}

// WhatFixedItStats is the derived community view over a submission set.
// It has no identity of its own; it is recomputed from submissions and
// cached under a stats key.
type WhatFixedItStats struct {
	TotalReports int     `json:"totalReports"`
	SuccessRate  float64 `json:"successRate"`
	AverageCost  float64 `json:"averageCost"`
	AverageTime  float64 `json:"averageTime"`

	TopSolutions []RepairSolution `json:"topSolutions"`

	// Per-vehicle breakdown is not populated yet; kept in the shape so
	// cached entries stay forward compatible.
	VehicleSpecific []VehicleBreakdown `json:"vehicleSpecific"`

	CostDistribution CostDistribution `json:"costDistribution"`
}
