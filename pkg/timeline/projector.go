// Package timeline projects current inactivity, permission, and MFA
// facts forward into dated events estimating when a healthy entity is
// likely to degrade into a shadow risk.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/shadowscan/shadowscan/internal/models"
	"github.com/shadowscan/shadowscan/internal/patterns"
	"github.com/shadowscan/shadowscan/pkg/risk"
	"github.com/shadowscan/shadowscan/pkg/utils"
)

// Projection offsets in days. Roles get longer runways than users:
// an unowned human credential degrades faster than a service identity.
const (
	neverUsedUserOffset = 30
	neverUsedRoleOffset = 45

	dormantUserOffset = 7
	dormantRoleOffset = 14
	staleUserOffset   = 30
	staleRoleOffset   = 45
	agingUserOffset   = 60
	agingRoleOffset   = 90

	mfaOffset            = 60
	permissionUserOffset = 90
	permissionRoleOffset = 120
)

// Projection confidence values.
const (
	neverUsedUserConfidence = 95
	neverUsedRoleConfidence = 90
	dormantConfidence       = 90
	staleConfidence         = 75
	agingConfidence         = 60
	mfaConfidence           = 80
	permissionConfidence    = 85
)

// Projector extrapolates per-entity facts into future timeline events.
type Projector struct {
	cfg *patterns.Config
}

// NewProjector creates a Projector. A nil config uses the built-in defaults.
func NewProjector(cfg *patterns.Config) *Projector {
	if cfg == nil {
		cfg = patterns.Default()
	}
	return &Projector{cfg: cfg}
}

type projectionFacts struct {
	ref      models.EntityRef
	isRole   bool
	signal   *time.Time
	policies []models.Policy
	hasMFA   bool
	mfaKnown bool // roles have no MFA concept
}

// Project emits zero-to-many events per entity, merges them across all
// entities, and stable-sorts by estimated date so ties keep the
// original entity-then-event insertion order. Every estimated date is
// at or after now.
func (p *Projector) Project(entities []models.Entity, now time.Time) models.Timeline {
	var events []models.TimelineEvent
	for _, e := range entities {
		events = append(events, p.projectEntity(e, now)...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EstimatedDate.Before(events[j].EstimatedDate)
	})

	return models.Timeline{
		Summary: summarize(events, now),
		Events:  events,
	}
}

func (p *Projector) projectEntity(entity models.Entity, now time.Time) []models.TimelineEvent {
	var facts projectionFacts
	switch e := entity.(type) {
	case *models.UserEntity:
		facts = projectionFacts{
			ref:      e.Ref(),
			signal:   risk.UserActivitySignal(e),
			policies: e.Policies,
			hasMFA:   e.HasMFA,
			mfaKnown: true,
		}
	case *models.RoleEntity:
		facts = projectionFacts{
			ref:      e.Ref(),
			isRole:   true,
			signal:   e.LastUsedAt,
			policies: e.Policies,
		}
	case *models.GoogleUserEntity:
		facts = projectionFacts{
			ref:      e.Ref(),
			signal:   risk.GoogleLoginSignal(e),
			hasMFA:   e.EnrolledIn2SV,
			mfaKnown: true,
		}
	default:
		return nil
	}

	level := risk.PermissionLevelOf(p.cfg, facts.policies)
	snapshot := models.FactorsSnapshot{
		NeverUsed:       facts.signal == nil,
		PermissionLevel: level,
		HasMFA:          facts.hasMFA,
	}
	if facts.signal != nil {
		snapshot.InactiveDays = utils.ElapsedDays(*facts.signal, now)
	}

	var events []models.TimelineEvent
	if ev, ok := p.activityEvent(facts, snapshot, now); ok {
		events = append(events, ev)
	}
	if facts.mfaKnown && !facts.hasMFA {
		events = append(events, models.TimelineEvent{
			Entity:        facts.ref,
			EventType:     models.EventMFAExpiry,
			Severity:      models.SeverityHigh,
			EstimatedDate: now.AddDate(0, 0, mfaOffset),
			Confidence:    mfaConfidence,
			Description:   "account without MFA will become a standing credential risk",
			Details:       fmt.Sprintf("%q has no multi-factor authentication enrolled", facts.ref.Name),
			Recommendations: []string{
				"Enforce MFA enrollment for this account",
				"Block console access until MFA is configured",
			},
			Factors: snapshot,
		})
	}
	if level == models.PermissionAdmin || level == models.PermissionFullAccess {
		offset := permissionUserOffset
		if facts.isRole {
			offset = permissionRoleOffset
		}
		events = append(events, models.TimelineEvent{
			Entity:        facts.ref,
			EventType:     models.EventPermissionExpiry,
			Severity:      models.SeverityHigh,
			EstimatedDate: now.AddDate(0, 0, offset),
			Confidence:    permissionConfidence,
			Description:   "broad permissions are due for recertification",
			Details:       fmt.Sprintf("%q holds %s-level access", facts.ref.Name, level),
			Recommendations: []string{
				"Scope administrator access down to the actions actually used",
				"Apply a permission boundary",
			},
			Factors: snapshot,
		})
	}

	return events
}

func (p *Projector) activityEvent(facts projectionFacts, snapshot models.FactorsSnapshot, now time.Time) (models.TimelineEvent, bool) {
	ref := facts.ref

	if facts.signal == nil {
		offset, severity, confidence := neverUsedUserOffset, models.SeverityCritical, neverUsedUserConfidence
		if facts.isRole {
			offset, severity, confidence = neverUsedRoleOffset, models.SeverityHigh, neverUsedRoleConfidence
		}
		return models.TimelineEvent{
			Entity:        ref,
			EventType:     models.EventShadowRisk,
			Severity:      severity,
			EstimatedDate: now.AddDate(0, 0, offset),
			Confidence:    confidence,
			Description:   fmt.Sprintf("never-used %s will become a shadow risk", ref.Kind),
			Details:       fmt.Sprintf("%q has no recorded activity since creation", ref.Name),
			Recommendations: []string{
				"Confirm whether this identity is still required",
				"Remove or disable it before the projected date",
			},
			Factors: snapshot,
		}, true
	}

	days := snapshot.InactiveDays
	var offset, confidence int
	var severity models.Severity
	switch {
	case days > 180:
		offset, severity, confidence = dormantUserOffset, models.SeverityCritical, dormantConfidence
		if facts.isRole {
			offset = dormantRoleOffset
		}
	case days > 90:
		offset, severity, confidence = staleUserOffset, models.SeverityHigh, staleConfidence
		if facts.isRole {
			offset = staleRoleOffset
		}
	case days > 30:
		offset, severity, confidence = agingUserOffset, models.SeverityMedium, agingConfidence
		if facts.isRole {
			offset = agingRoleOffset
		}
	default:
		return models.TimelineEvent{}, false
	}

	return models.TimelineEvent{
		Entity:        ref,
		EventType:     models.EventActivityThreshold,
		Severity:      severity,
		EstimatedDate: now.AddDate(0, 0, offset),
		Confidence:    confidence,
		Description:   fmt.Sprintf("%s inactivity will cross the shadow threshold", ref.Kind),
		Details:       fmt.Sprintf("%q has been inactive for %d days", ref.Name, days),
		Recommendations: []string{
			"Confirm ownership of this identity",
			"Remove permissions that are no longer exercised",
		},
		Factors: snapshot,
	}, true
}

func summarize(events []models.TimelineEvent, now time.Time) models.TimelineSummary {
	summary := models.TimelineSummary{TotalEvents: len(events)}
	h30 := now.AddDate(0, 0, 30)
	h90 := now.AddDate(0, 0, 90)
	h180 := now.AddDate(0, 0, 180)

	for _, ev := range events {
		switch ev.Severity {
		case models.SeverityCritical:
			summary.CriticalCount++
		case models.SeverityHigh:
			summary.HighCount++
		case models.SeverityMedium:
			summary.MediumCount++
		}

		if !ev.EstimatedDate.After(h30) {
			summary.Within30Days++
		}
		if !ev.EstimatedDate.After(h90) {
			summary.Within90Days++
		}
		if !ev.EstimatedDate.After(h180) {
			summary.Within180Days++
		}
	}
	return summary
}
