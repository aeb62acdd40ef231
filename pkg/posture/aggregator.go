// Package posture rolls per-entity results into an organization-wide
// 0-100 security score. Two aggregation modes exist: point deduction
// from findings and a weighted average of sub-scores. They produce
// materially different numbers for the same input and are never mixed;
// SecurityScore.Method records which one applied.
package posture

import (
	"fmt"
	"math"

	"github.com/shadowscan/shadowscan/internal/models"
)

const (
	baselineScore = 100

	highFindingPenalty   = 10
	mediumFindingPenalty = 5

	sprawlHeavyRatio   = 10.0
	sprawlHeavyPenalty = 5
	sprawlLightRatio   = 5.0
	sprawlLightPenalty = 2

	weightRecency    = 0.30
	weightPermission = 0.40
	weightIdentity   = 0.30
	subscoreScale    = 20.0
)

// categoryOrder fixes the breakdown ordering across runs.
var categoryOrder = []models.FindingCategory{
	models.CategoryUnusedAccount,
	models.CategoryOldAccessKey,
	models.CategoryForgottenPolicy,
	models.CategoryUnusedService,
	models.CategoryLegacyPolicy,
	models.CategoryExcessivePermissions,
}

var categoryRecommendations = map[models.FindingCategory]string{
	models.CategoryUnusedAccount:        "Disable or remove accounts with no recent activity",
	models.CategoryOldAccessKey:         "Rotate access keys older than 6 months",
	models.CategoryForgottenPolicy:      "Review policies that have not been updated in over a year",
	models.CategoryUnusedService:        "Remove grants for services the organization no longer uses",
	models.CategoryLegacyPolicy:         "Replace legacy policies with current equivalents",
	models.CategoryExcessivePermissions: "Reduce administrator and full-access policy attachments",
}

// Aggregator computes organization posture scores.
type Aggregator struct{}

// DeductionScore computes the posture score by deducting points from a
// 100 baseline per finding severity, plus a sprawl penalty when the
// finding-to-entity ratio is high. previousScore, when supplied and
// non-zero, yields a trend percentage; a zero previous score leaves the
// trend undefined rather than dividing by zero.
func (Aggregator) DeductionScore(findings []models.ShadowFinding, entities []models.Entity, previousScore *int) models.SecurityScore {
	score := baselineScore
	for _, f := range findings {
		switch f.Severity {
		case models.SeverityHigh, models.SeverityCritical:
			score -= highFindingPenalty
		case models.SeverityMedium:
			score -= mediumFindingPenalty
		}
	}

	if len(entities) > 0 {
		ratio := float64(len(findings)) / float64(len(entities))
		switch {
		case ratio > sprawlHeavyRatio:
			score -= sprawlHeavyPenalty
		case ratio > sprawlLightRatio:
			score -= sprawlLightPenalty
		}
	}

	score = clampScore(score)

	return models.SecurityScore{
		OverallScore:      score,
		RiskTier:          tierOf(score),
		Method:            models.ScoreMethodDeduction,
		CategoryBreakdown: breakdown(findings),
		Recommendations:   recommendations(findings),
		TrendPercent:      trendPercent(score, previousScore),
	}
}

// WeightedScore computes the posture score from the averaged sub-scores
// across all assessments. Zero assessments means a perfect score, not a
// division by zero.
func (Aggregator) WeightedScore(assessments []models.RiskAssessment, previousScore *int) models.SecurityScore {
	score := baselineScore
	if len(assessments) > 0 {
		var sumRecency, sumPermission, sumIdentity float64
		for _, a := range assessments {
			sumRecency += float64(a.Subscores.Recency)
			sumPermission += float64(a.Subscores.Permission)
			sumIdentity += float64(a.Subscores.Identity)
		}
		n := float64(len(assessments))
		weighted := weightRecency*(sumRecency/n) +
			weightPermission*(sumPermission/n) +
			weightIdentity*(sumIdentity/n)
		score = clampScore(int(math.Round(float64(baselineScore) - weighted*subscoreScale)))
	}

	return models.SecurityScore{
		OverallScore:    score,
		RiskTier:        tierOf(score),
		Method:          models.ScoreMethodWeighted,
		Recommendations: weightedRecommendations(assessments),
		TrendPercent:    trendPercent(score, previousScore),
	}
}

// tierOf maps a 0-100 posture score onto the risk tiers using the
// 80/60/40 cut points. Higher score means better posture.
func tierOf(score int) models.RiskLevel {
	switch {
	case score >= 80:
		return models.RiskLevelLow
	case score >= 60:
		return models.RiskLevelMedium
	case score >= 40:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelCritical
	}
}

func trendPercent(score int, previousScore *int) *float64 {
	if previousScore == nil || *previousScore == 0 {
		return nil
	}
	t := math.Round(float64(score-*previousScore)/float64(*previousScore)*100*10) / 10
	return &t
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > baselineScore {
		return baselineScore
	}
	return score
}

func breakdown(findings []models.ShadowFinding) []models.CategoryScore {
	byCategory := make(map[models.FindingCategory]*models.CategoryScore)
	for _, f := range findings {
		cs, ok := byCategory[f.Category]
		if !ok {
			cs = &models.CategoryScore{Category: string(f.Category)}
			byCategory[f.Category] = cs
		}
		switch f.Severity {
		case models.SeverityHigh, models.SeverityCritical:
			cs.Score += highFindingPenalty
		case models.SeverityMedium:
			cs.Score += mediumFindingPenalty
		}
		cs.Details = append(cs.Details, f.Details)
	}

	var out []models.CategoryScore
	for _, cat := range categoryOrder {
		if cs, ok := byCategory[cat]; ok {
			out = append(out, *cs)
		}
	}
	return out
}

func recommendations(findings []models.ShadowFinding) []string {
	present := make(map[models.FindingCategory]bool)
	for _, f := range findings {
		present[f.Category] = true
	}

	var out []string
	for _, cat := range categoryOrder {
		if present[cat] {
			out = append(out, categoryRecommendations[cat])
		}
	}
	return out
}

func weightedRecommendations(assessments []models.RiskAssessment) []string {
	var out []string
	critical := 0
	for _, a := range assessments {
		if a.RiskLevel == models.RiskLevelCritical {
			critical++
		}
	}
	if critical > 0 {
		out = append(out, fmt.Sprintf("Remediate %d critical-risk entities first", critical))
	}
	return out
}
