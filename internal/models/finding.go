package models

// Severity is the severity level of a finding or timeline event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityOrder returns a numeric priority for sorting (lower = more severe).
func SeverityOrder(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// RiskLevel is the four-level risk bucket derived from a numeric score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// RiskLevelOrder returns a numeric priority for sorting (lower = riskier).
func RiskLevelOrder(l RiskLevel) int {
	switch l {
	case RiskLevelCritical:
		return 0
	case RiskLevelHigh:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelLow:
		return 3
	default:
		return 4
	}
}

// FindingCategory names a shadow-permission pattern.
type FindingCategory string

const (
	CategoryUnusedAccount        FindingCategory = "unused_account"
	CategoryOldAccessKey         FindingCategory = "old_access_key"
	CategoryForgottenPolicy      FindingCategory = "forgotten_policy"
	CategoryUnusedService        FindingCategory = "unused_service"
	CategoryLegacyPolicy         FindingCategory = "legacy_policy"
	CategoryExcessivePermissions FindingCategory = "excessive_permissions"
)

// ShadowFinding is a single shadow-permission detection result.
// Details carries the triggering policy/key/entity name in quotes; the
// quoted token is the deduplication key alongside the category.
type ShadowFinding struct {
	Category    FindingCategory `json:"category"`
	Severity    Severity        `json:"severity"`
	Description string          `json:"description"`
	Details     string          `json:"details"`
}

// Subscores holds the three independent sub-scores of an assessment.
// Each is in [0,5] on the AWS scale.
type Subscores struct {
	Recency    int `json:"recency"`
	Permission int `json:"permission"`
	Identity   int `json:"identity"`
}

// Sum returns the combined sub-score total.
func (s Subscores) Sum() int {
	return s.Recency + s.Permission + s.Identity
}

// RiskAssessment is the per-entity scoring result for one run.
// Score is on the provider's own scale (AWS 0-15, Google wider); raw
// scores are never comparable across providers, only RiskLevel is.
type RiskAssessment struct {
	Entity         EntityRef       `json:"entity"`
	RiskLevel      RiskLevel       `json:"riskLevel"`
	Score          int             `json:"score"`
	Subscores      Subscores       `json:"subscores"`
	Factors        []string        `json:"factors"`
	ShadowFindings []ShadowFinding `json:"shadowFindings"`
}
