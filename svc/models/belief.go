package models

import (
	"time"

	"github.com/google/uuid"
)

// Belief is a proposition held with a graded confidence, backed by a
// justification. Beliefs are immutable: every revision method returns a new
// instance carrying forward the same ID with an incremented version.
type Belief struct {
	ID            string        `json:"id"`
	AgentID       string        `json:"agent_id"`
	Proposition   Proposition   `json:"proposition"`
	Confidence    float64       `json:"confidence"`
	Justification Justification `json:"justification"`
	Version       int           `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
}

// NewBelief constructs a belief with the confidence clamped to [0,1].
func NewBelief(agentID string, proposition Proposition, confidence float64, justification Justification) Belief {
	return Belief{
		ID:            "bi_" + uuid.New().String(),
		AgentID:       agentID,
		Proposition:   proposition,
		Confidence:    ClampConfidence(confidence),
		Justification: justification,
		Version:       1,
		Timestamp:     time.Now(),
	}
}

// ClampConfidence bounds a confidence value to [0,1]. Out-of-range values
// are clamped, never rejected.
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// WithConfidence returns a revision of the belief holding the new
// confidence, clamped to [0,1].
func (b Belief) WithConfidence(confidence float64) Belief {
	revised := b
	revised.Confidence = ClampConfidence(confidence)
	revised.Version++
	revised.Timestamp = time.Now()
	return revised
}

// WithAdditionalJustification returns a revision with the elements appended
// to the belief's justification.
func (b Belief) WithAdditionalJustification(elements ...JustificationElement) Belief {
	revised := b
	revised.Justification = b.Justification.WithElements(elements...)
	revised.Version++
	revised.Timestamp = time.Now()
	return revised
}

// BeliefUpdate carries the optional pieces of a combined revision.
type BeliefUpdate struct {
	Confidence  *float64
	NewElements []JustificationElement
}

// WithUpdates applies a confidence change and/or new justification elements
// in a single revision.
func (b Belief) WithUpdates(update BeliefUpdate) Belief {
	revised := b
	if update.Confidence != nil {
		revised.Confidence = ClampConfidence(*update.Confidence)
	}
	if len(update.NewElements) > 0 {
		revised.Justification = b.Justification.WithElements(update.NewElements...)
	}
	revised.Version++
	revised.Timestamp = time.Now()
	return revised
}

// Negation returns a new belief over the negated proposition with the same
// confidence and a cloned justification. This is a structural convenience
// for building contradiction scenarios, not an inference step.
func (b Belief) Negation() Belief {
	return NewBelief(b.AgentID, b.Proposition.Negate(), b.Confidence, b.Justification.Clone())
}

// Contradicts reports whether the two beliefs are held over directly
// contradictory propositions. String-level, not semantic, and symmetric.
func (b Belief) Contradicts(other Belief) bool {
	return b.Proposition.ContradictsProposition(other.Proposition)
}

// IsStrongerThan compares beliefs by confidence only.
func (b Belief) IsStrongerThan(other Belief) bool {
	return b.Confidence > other.Confidence
}

// Age is the wall-clock time elapsed since the belief was last revised.
func (b Belief) Age() time.Duration {
	return time.Since(b.Timestamp)
}
