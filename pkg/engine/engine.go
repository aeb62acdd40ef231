// Package engine runs a full scoring pass: per-entity risk and shadow
// detection fanned out across workers, then the aggregate posture score
// and the shadow timeline once every entity result is in. The engine is
// a pure function of the entity batch and the captured now; it performs
// no I/O and persists nothing.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shadowscan/shadowscan/internal/models"
	"github.com/shadowscan/shadowscan/internal/patterns"
	"github.com/shadowscan/shadowscan/pkg/posture"
	"github.com/shadowscan/shadowscan/pkg/risk"
	"github.com/shadowscan/shadowscan/pkg/shadow"
	"github.com/shadowscan/shadowscan/pkg/timeline"
)

const defaultWorkers = 8

// Options configure one scoring run.
type Options struct {
	// Now is captured once per run and passed to every scorer call so a
	// single run produces internally consistent dates. Zero means the
	// real clock at run start.
	Now time.Time
	// PreviousScore, when set, produces the posture trend percentage.
	PreviousScore *int
	// Workers bounds the per-entity fan-out. Zero means the default.
	Workers int
}

// Engine wires the scorer, detector, aggregator, and projector against
// one shared pattern set.
type Engine struct {
	scorer     *risk.Scorer
	detector   *shadow.Detector
	projector  *timeline.Projector
	aggregator posture.Aggregator
}

// New creates an Engine. A nil config uses the built-in pattern defaults.
func New(cfg *patterns.Config) *Engine {
	if cfg == nil {
		cfg = patterns.Default()
	}
	return &Engine{
		scorer:    risk.NewScorer(cfg),
		detector:  shadow.NewDetector(cfg),
		projector: timeline.NewProjector(cfg),
	}
}

// Run scores every entity, detects shadow findings, and produces the
// full report. Entities are scored independently in parallel; no
// entity's scoring blocks on another's. Any unknown entity variant
// rejects the whole batch.
func (e *Engine) Run(entities []models.Entity, opts Options) (*models.Report, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(entities) && len(entities) > 0 {
		workers = len(entities)
	}

	assessments := make([]models.RiskAssessment, len(entities))
	errs := make([]error, len(entities))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				assessment, err := e.scorer.Score(entities[idx], now)
				if err != nil {
					errs[idx] = err
					continue
				}
				assessment.ShadowFindings = e.detector.Detect(entities[idx], now)
				assessments[idx] = assessment
			}
		}()
	}
	for idx := range entities {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("rejecting batch: %w", err)
		}
	}

	// Organization-level findings: concatenate in entity order, then
	// collapse duplicates. Per-entity findings stay complete on each
	// assessment.
	var allFindings []models.ShadowFinding
	for _, a := range assessments {
		allFindings = append(allFindings, a.ShadowFindings...)
	}
	orgFindings := shadow.Dedupe(allFindings)

	return &models.Report{
		RunID:           uuid.NewString(),
		GeneratedAt:     now,
		Providers:       providersOf(entities),
		EntityCount:     len(entities),
		Assessments:     assessments,
		Findings:        orgFindings,
		Posture:         e.aggregator.DeductionScore(orgFindings, entities, opts.PreviousScore),
		WeightedPosture: e.aggregator.WeightedScore(assessments, opts.PreviousScore),
		Timeline:        e.projector.Project(entities, now),
	}, nil
}

func providersOf(entities []models.Entity) []models.Provider {
	seen := make(map[models.Provider]bool)
	var out []models.Provider
	for _, e := range entities {
		p := e.Ref().Provider
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
