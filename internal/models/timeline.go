package models

import "time"

// EventType names a projected timeline event kind.
type EventType string

const (
	EventShadowRisk        EventType = "shadow_risk"
	EventPermissionExpiry  EventType = "permission_expiry"
	EventActivityThreshold EventType = "activity_threshold"
	EventMFAExpiry         EventType = "mfa_expiry"
)

// PermissionLevel classifies an entity's overall permission breadth.
type PermissionLevel string

const (
	PermissionAdmin      PermissionLevel = "admin"
	PermissionFullAccess PermissionLevel = "full-access"
	PermissionReadOnly   PermissionLevel = "read-only"
	PermissionCustom     PermissionLevel = "custom"
)

// FactorsSnapshot captures the facts an event projection was based on.
type FactorsSnapshot struct {
	NeverUsed       bool            `json:"neverUsed"`
	InactiveDays    int             `json:"inactiveDays"`
	PermissionLevel PermissionLevel `json:"permissionLevel"`
	HasMFA          bool            `json:"hasMfa"`
}

// TimelineEvent is a projected future risk-crossing for one entity.
type TimelineEvent struct {
	Entity          EntityRef       `json:"entity"`
	EventType       EventType       `json:"eventType"`
	Severity        Severity        `json:"severity"`
	EstimatedDate   time.Time       `json:"estimatedDate"`
	Confidence      int             `json:"confidence"`
	Description     string          `json:"description"`
	Details         string          `json:"details"`
	Recommendations []string        `json:"recommendations"`
	Factors         FactorsSnapshot `json:"factorsSnapshot"`
}

// TimelineSummary tallies projected events by severity and horizon.
type TimelineSummary struct {
	TotalEvents   int `json:"totalEvents"`
	CriticalCount int `json:"criticalCount"`
	HighCount     int `json:"highCount"`
	MediumCount   int `json:"mediumCount"`
	Within30Days  int `json:"within30Days"`
	Within90Days  int `json:"within90Days"`
	Within180Days int `json:"within180Days"`
}

// Timeline is the full projection payload: events sorted ascending by
// estimated date plus the rollup summary.
type Timeline struct {
	Summary TimelineSummary `json:"summary"`
	Events  []TimelineEvent `json:"events"`
}
