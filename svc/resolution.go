package svc

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"epistemic-agents-core/svc/models"
)

// ResolutionStrategy attempts to reconcile one epistemic conflict. It
// never mutates the conflict's beliefs; revised beliefs come back inside
// the resolution.
type ResolutionStrategy interface {
	ResolveConflict(conflict *models.EpistemicConflict) (models.ConflictResolution, error)
}

const (
	// Confidence deltas scale with the opponent's evidence advantage,
	// capped at maxCountAdvantage elements. Losing ground costs more than
	// gaining it.
	confidenceDecreaseRate = 0.1
	confidenceIncreaseRate = 0.05
	maxCountAdvantage      = 5

	// resolutionJitter is the half-width of the uniform noise added to
	// each delta so exchanges between evenly matched agents don't tie
	// deterministically.
	resolutionJitter = 0.025

	// DefaultRevisionThreshold is the delta magnitude a side must exceed
	// to count as having revised.
	DefaultRevisionThreshold = 0.1
)

// JustificationExchangeStrategy reconciles conflicting beliefs by
// simulating an exchange of justifications: each side compares how much
// evidence the other holds and yields ground proportionally. This is a
// volume proxy, not a semantic comparison of the evidence; a stronger
// implementation would delegate relative strength to the judgment oracle.
type JustificationExchangeStrategy struct {
	revisionThreshold float64
	rng               *rand.Rand
	logger            *zap.Logger
}

// NewJustificationExchangeStrategy builds a strategy with the default
// revision threshold. The random source drives the tie-breaking jitter;
// pass a seeded source for reproducible outcomes, or nil to seed from the
// clock.
func NewJustificationExchangeStrategy(rng *rand.Rand, logger *zap.Logger) *JustificationExchangeStrategy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JustificationExchangeStrategy{
		revisionThreshold: DefaultRevisionThreshold,
		rng:               rng,
		logger:            logger,
	}
}

// WithRevisionThreshold overrides the delta magnitude that counts as a
// revision.
func (s *JustificationExchangeStrategy) WithRevisionThreshold(threshold float64) *JustificationExchangeStrategy {
	adjusted := *s
	adjusted.revisionThreshold = threshold
	return &adjusted
}

// confidenceDelta is the confidence change for a side holding ownCount
// evidence elements against an opponent holding otherCount. A larger
// opposing justification pushes confidence down; a larger own
// justification nudges it up, more gently.
func (s *JustificationExchangeStrategy) confidenceDelta(ownCount, otherCount int) float64 {
	relativeStrength := otherCount - ownCount
	var delta float64
	switch {
	case relativeStrength > 0:
		scale := math.Min(float64(relativeStrength), maxCountAdvantage) / maxCountAdvantage
		delta = -confidenceDecreaseRate * scale
	case relativeStrength < 0:
		scale := math.Min(float64(-relativeStrength), maxCountAdvantage) / maxCountAdvantage
		delta = confidenceIncreaseRate * scale
	}
	return delta + (s.rng.Float64()*2-1)*resolutionJitter
}

// ResolveConflict computes each side's confidence delta from the relative
// size of the justifications, classifies the outcome against the revision
// threshold, and returns revised beliefs for whichever sides moved. A
// resolution where neither side moved enough is a normal persistent
// result, not an error.
func (s *JustificationExchangeStrategy) ResolveConflict(conflict *models.EpistemicConflict) (models.ConflictResolution, error) {
	ownCount := conflict.Belief.Justification.Size()
	otherCount := conflict.ContradictoryBelief.Justification.Size()

	deltaFirst := s.confidenceDelta(ownCount, otherCount)
	deltaSecond := s.confidenceDelta(otherCount, ownCount)

	firstRevised := math.Abs(deltaFirst) > s.revisionThreshold
	secondRevised := math.Abs(deltaSecond) > s.revisionThreshold

	counterClaims := conflict.ContradictoryBelief.Justification.Filter(func(el models.JustificationElement) bool {
		return el.ContradictsProposition(conflict.Belief.Proposition)
	})

	resolution := models.ConflictResolution{
		Timestamp: time.Now(),
		Reason: fmt.Sprintf(
			"justification exchange: %d vs %d elements (%d direct counter-claims), deltas %+.3f / %+.3f",
			ownCount, otherCount, len(counterClaims), deltaFirst, deltaSecond),
	}

	switch {
	case firstRevised && secondRevised:
		resolution.Type = models.MutualRevision
		resolution.Success = true
	case firstRevised:
		resolution.Type = models.FirstAgentRevision
		resolution.Success = true
	case secondRevised:
		resolution.Type = models.SecondAgentRevision
		resolution.Success = true
	default:
		resolution.Type = models.PersistentDisagreement
		resolution.Success = false
	}

	if firstRevised {
		revised := conflict.Belief.WithConfidence(conflict.Belief.Confidence + deltaFirst)
		resolution.RevisedBelief = &revised
	}
	if secondRevised {
		revised := conflict.ContradictoryBelief.WithConfidence(conflict.ContradictoryBelief.Confidence + deltaSecond)
		resolution.RevisedOtherBelief = &revised
	}

	s.logger.Debug("conflict resolution computed",
		zap.String("conflict_id", conflict.ID),
		zap.String("type", string(resolution.Type)),
		zap.Float64("delta_first", deltaFirst),
		zap.Float64("delta_second", deltaSecond))

	return resolution, nil
}
