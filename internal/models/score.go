package models

// ScoreMethod names which aggregation formula produced a SecurityScore.
// The two methods are not numerically reconcilable and are never mixed.
type ScoreMethod string

const (
	ScoreMethodDeduction ScoreMethod = "deduction"
	ScoreMethodWeighted  ScoreMethod = "weighted"
)

// CategoryScore is the per-category slice of the posture breakdown.
type CategoryScore struct {
	Category string   `json:"category"`
	Score    int      `json:"score"`
	Details  []string `json:"details"`
}

// SecurityScore is the organization-wide posture score.
// TrendPercent is nil when no prior score was supplied or the prior
// score was zero.
type SecurityScore struct {
	OverallScore      int             `json:"overallScore"`
	RiskTier          RiskLevel       `json:"riskTier"`
	Method            ScoreMethod     `json:"method"`
	CategoryBreakdown []CategoryScore `json:"categoryBreakdown"`
	Recommendations   []string        `json:"recommendations"`
	TrendPercent      *float64        `json:"trendPercent,omitempty"`
}
