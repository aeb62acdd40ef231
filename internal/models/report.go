package models

import "time"

// Report is the complete result of one scoring run.
type Report struct {
	RunID           string           `json:"runId"`
	GeneratedAt     time.Time        `json:"generatedAt"`
	Providers       []Provider       `json:"providers"`
	EntityCount     int              `json:"entityCount"`
	Assessments     []RiskAssessment `json:"assessments"`
	Findings        []ShadowFinding  `json:"findings"`
	Posture         SecurityScore    `json:"posture"`
	WeightedPosture SecurityScore    `json:"weightedPosture"`
	Timeline        Timeline         `json:"timeline"`
}
