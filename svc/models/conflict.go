package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConflictStatus is the lifecycle state of an epistemic conflict.
// Transitions only move forward; a closed conflict is never reopened.
type ConflictStatus string

const (
	// ConflictDetected is the initial state of a raised conflict.
	ConflictDetected ConflictStatus = "detected"
	// ConflictInProgress marks a conflict while a strategy works on it.
	ConflictInProgress ConflictStatus = "in_progress"
	// ConflictResolved marks a conflict closed by a successful resolution.
	ConflictResolved ConflictStatus = "resolved"
	// ConflictPersistent marks a conflict that resolution could not close.
	ConflictPersistent ConflictStatus = "persistent"
)

var statusRank = map[ConflictStatus]int{
	ConflictDetected:   0,
	ConflictInProgress: 1,
	ConflictResolved:   2,
	ConflictPersistent: 2,
}

// ResolutionType classifies the outcome of a resolution attempt.
type ResolutionType string

const (
	// FirstAgentRevision means only the first agent revised its confidence.
	FirstAgentRevision ResolutionType = "first_agent_revision"
	// SecondAgentRevision means only the second agent revised its confidence.
	SecondAgentRevision ResolutionType = "second_agent_revision"
	// MutualRevision means both agents revised their confidences.
	MutualRevision ResolutionType = "mutual_revision"
	// FrameDifference means the agents attribute the disagreement to frame
	// incompatibility rather than to the evidence itself.
	FrameDifference ResolutionType = "frame_difference"
	// PersistentDisagreement means neither side moved enough to close the
	// conflict.
	PersistentDisagreement ResolutionType = "persistent"
)

// ConflictResolution records the outcome of one resolution attempt,
// including the revised beliefs for whichever sides moved.
type ConflictResolution struct {
	Type               ResolutionType `json:"type"`
	Reason             string         `json:"reason"`
	Success            bool           `json:"success"`
	RevisedBelief      *Belief        `json:"revised_belief,omitempty"`
	RevisedOtherBelief *Belief        `json:"revised_other_belief,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
}

// EpistemicConflict is a detected contradiction between two agents' beliefs
// over negated propositions. It holds no back-reference to the agents
// beyond their ids; ownership stays with whichever component detected it.
type EpistemicConflict struct {
	ID                  string              `json:"id"`
	AgentID             string              `json:"agent_id"`
	OtherAgentID        string              `json:"other_agent_id"`
	Proposition         Proposition         `json:"proposition"`
	Belief              Belief              `json:"belief"`
	ContradictoryBelief Belief              `json:"contradictory_belief"`
	Status              ConflictStatus      `json:"status"`
	Resolution          *ConflictResolution `json:"resolution,omitempty"`
	Timestamp           time.Time           `json:"timestamp"`
}

// NewEpistemicConflict raises a conflict between two contradictory beliefs.
// The proposition recorded is the first agent's.
func NewEpistemicConflict(agentID, otherAgentID string, belief, contradictory Belief) *EpistemicConflict {
	return &EpistemicConflict{
		ID:                  "cf_" + uuid.New().String(),
		AgentID:             agentID,
		OtherAgentID:        otherAgentID,
		Proposition:         belief.Proposition,
		Belief:              belief,
		ContradictoryBelief: contradictory,
		Status:              ConflictDetected,
		Timestamp:           time.Now(),
	}
}

// Advance moves the conflict to the next lifecycle state. Backward and
// repeated transitions are rejected.
func (c *EpistemicConflict) Advance(next ConflictStatus) error {
	nextRank, ok := statusRank[next]
	if !ok {
		return fmt.Errorf("unknown conflict status %q", next)
	}
	if nextRank <= statusRank[c.Status] {
		return fmt.Errorf("invalid conflict transition %s -> %s", c.Status, next)
	}
	c.Status = next
	return nil
}

// Close records the resolution and moves the conflict to its terminal
// state: resolved on success, persistent otherwise.
func (c *EpistemicConflict) Close(resolution ConflictResolution) error {
	next := ConflictResolved
	if !resolution.Success {
		next = ConflictPersistent
	}
	if err := c.Advance(next); err != nil {
		return err
	}
	c.Resolution = &resolution
	return nil
}
