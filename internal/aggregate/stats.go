// Package aggregate computes the "What Fixed It" community statistics
// from repair submissions. Everything here is a pure function of its
// inputs and the evaluation instant.
package aggregate

import (
	"sort"
	"time"

	"fixd/internal/models"
)

const (
	// UnknownRepair substitutes for an empty labor description when
	// grouping solutions.
	UnknownRepair = "Unknown repair"

	topSolutionLimit = 5
	recentWindowDays = 30
)

// CalculateStats derives WhatFixedItStats from a submission list. The
// empty list yields the zero-valued stats object, never an error.
// Identical input always yields identical output for a fixed now.
func CalculateStats(submissions []models.RepairSubmission, now time.Time) models.WhatFixedItStats {
	stats := models.WhatFixedItStats{
		TopSolutions:    make([]models.RepairSolution, 0),
		VehicleSpecific: make([]models.VehicleBreakdown, 0),
	}
	if len(submissions) == 0 {
		return stats
	}

	stats.TotalReports = len(submissions)

	fixedCount := 0
	var totalCost, totalTime float64
	for i := range submissions {
		s := &submissions[i]
		if s.Outcome == models.OutcomeFixed {
			fixedCount++
		}
		totalCost += s.Repair.TotalCost
		totalTime += s.Repair.TimeSpent
		bucketCost(&stats.CostDistribution, s.Repair.TotalCost)
	}
	stats.SuccessRate = float64(fixedCount) / float64(len(submissions)) * 100
	stats.AverageCost = totalCost / float64(len(submissions))
	stats.AverageTime = totalTime / float64(len(submissions))
	stats.TopSolutions = topSolutions(submissions, now)

	return stats
}

// bucketCost places one cost into exactly one distribution bucket.
func bucketCost(d *models.CostDistribution, cost float64) {
	switch {
	case cost < 100:
		d.Under100++
	case cost < 500:
		d.Under500++
	case cost < 1000:
		d.Under1000++
	default:
		d.Over1000++
	}
}

// topSolutions groups submissions by labor description and ranks the
// groups by success rate. Ties break by attempts descending, then
// description ascending, so the ranking is deterministic.
func topSolutions(submissions []models.RepairSubmission, now time.Time) []models.RepairSolution {
	groups := make(map[string][]*models.RepairSubmission)
	order := make([]string, 0)
	for i := range submissions {
		key := submissions[i].Repair.LaborDescription
		if key == "" {
			key = UnknownRepair
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], &submissions[i])
	}

	recentCutoff := now.AddDate(0, 0, -recentWindowDays)
	solutions := make([]models.RepairSolution, 0, len(order))
	for _, description := range order {
		subs := groups[description]
		sol := models.RepairSolution{
			Description:   description,
			TotalAttempts: len(subs),
		}

		var cost float64
		diyCount := 0
		seenParts := make(map[string]struct{})
		parts := make([]string, 0)
		for _, s := range subs {
			if s.Outcome == models.OutcomeFixed {
				sol.SuccessCount++
			}
			cost += s.Repair.TotalCost
			if s.Repair.Type == models.RepairDIY {
				diyCount++
			}
			if !s.Timestamp.Before(recentCutoff) {
				sol.RecentReports++
			}
			for _, p := range s.Repair.PartsReplaced {
				if _, ok := seenParts[p.Name]; !ok {
					seenParts[p.Name] = struct{}{}
					parts = append(parts, p.Name)
				}
			}
		}
		sol.SuccessRate = float64(sol.SuccessCount) / float64(sol.TotalAttempts) * 100
		sol.AverageCost = cost / float64(len(subs))
		// Strict majority, not >= half.
		sol.DIYFriendly = diyCount*2 > len(subs)
		sol.PartsUsed = parts
		solutions = append(solutions, sol)
	}

	sort.SliceStable(solutions, func(i, j int) bool {
		if solutions[i].SuccessRate != solutions[j].SuccessRate {
			return solutions[i].SuccessRate > solutions[j].SuccessRate
		}
		if solutions[i].TotalAttempts != solutions[j].TotalAttempts {
			return solutions[i].TotalAttempts > solutions[j].TotalAttempts
		}
		return solutions[i].Description < solutions[j].Description
	})

	if len(solutions) > topSolutionLimit {
		solutions = solutions[:topSolutionLimit]
	}
	return solutions
}
