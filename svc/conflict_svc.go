package svc

import (
	"fmt"

	"go.uber.org/zap"

	"epistemic-agents-core/db"
	"epistemic-agents-core/svc/models"
)

// ConflictService detects contradictions between two agents' stored
// beliefs and drives detected conflicts through resolution. Conflicts are
// stored under the first agent's id.
type ConflictService struct {
	kvStore            *db.KeyValueStore
	strategy           ResolutionStrategy
	detectionThreshold float64
	logger             *zap.Logger
}

// NewConflictService initializes a conflict service. detectionThreshold is
// the minimum confidence both sides must hold before a contradiction is
// worth raising.
func NewConflictService(kvStore *db.KeyValueStore, strategy ResolutionStrategy, detectionThreshold float64, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{
		kvStore:            kvStore,
		strategy:           strategy,
		detectionThreshold: detectionThreshold,
		logger:             logger,
	}
}

// DetectConflicts scans both agents' beliefs pairwise and raises a
// conflict for every negation-equivalent pair held above the detection
// threshold on both sides.
func (csvc *ConflictService) DetectConflicts(agentID, otherAgentID string) ([]*models.EpistemicConflict, error) {
	own, err := csvc.listBeliefs(agentID)
	if err != nil {
		return nil, err
	}
	other, err := csvc.listBeliefs(otherAgentID)
	if err != nil {
		return nil, err
	}

	var conflicts []*models.EpistemicConflict
	for _, belief := range own {
		if belief.Confidence < csvc.detectionThreshold {
			continue
		}
		for _, contradictory := range other {
			if contradictory.Confidence < csvc.detectionThreshold {
				continue
			}
			if !belief.Contradicts(contradictory) {
				continue
			}
			conflict := models.NewEpistemicConflict(agentID, otherAgentID, belief, contradictory)
			if err := csvc.storeConflict(conflict); err != nil {
				return nil, err
			}
			csvc.logger.Info("epistemic conflict detected",
				zap.String("conflict_id", conflict.ID),
				zap.String("proposition", string(conflict.Proposition)),
				zap.Float64("confidence", belief.Confidence),
				zap.Float64("contradictory_confidence", contradictory.Confidence))
			conflicts = append(conflicts, conflict)
		}
	}
	return conflicts, nil
}

// ResolveConflict runs the strategy on a detected conflict, persists any
// revised beliefs, and closes the conflict: resolved on success,
// persistent otherwise. The lifecycle only moves forward.
func (csvc *ConflictService) ResolveConflict(conflict *models.EpistemicConflict) (*models.ConflictResolution, error) {
	if err := conflict.Advance(models.ConflictInProgress); err != nil {
		return nil, err
	}

	resolution, err := csvc.strategy.ResolveConflict(conflict)
	if err != nil {
		return nil, fmt.Errorf("resolution strategy failed: %w", err)
	}

	if resolution.RevisedBelief != nil {
		if err := csvc.storeBelief(*resolution.RevisedBelief); err != nil {
			return nil, err
		}
	}
	if resolution.RevisedOtherBelief != nil {
		if err := csvc.storeBelief(*resolution.RevisedOtherBelief); err != nil {
			return nil, err
		}
	}

	if err := conflict.Close(resolution); err != nil {
		return nil, err
	}
	if err := csvc.storeConflict(conflict); err != nil {
		return nil, err
	}

	csvc.logger.Info("conflict closed",
		zap.String("conflict_id", conflict.ID),
		zap.String("status", string(conflict.Status)),
		zap.String("resolution_type", string(resolution.Type)))

	return &resolution, nil
}

// GetConflict retrieves the stored state of a conflict.
func (csvc *ConflictService) GetConflict(agentID, conflictID string) (*models.EpistemicConflict, error) {
	var conflict models.EpistemicConflict
	if err := csvc.kvStore.Retrieve(agentID, conflictID, &conflict); err != nil {
		return nil, fmt.Errorf("failed to retrieve conflict %s: %w", conflictID, err)
	}
	return &conflict, nil
}

// ListConflicts returns the conflicts raised by the given agent.
func (csvc *ConflictService) ListConflicts(agentID string) ([]*models.EpistemicConflict, error) {
	keys := csvc.kvStore.ListKeys(agentID, "cf_")
	conflicts := make([]*models.EpistemicConflict, 0, len(keys))
	for _, key := range keys {
		conflict, err := csvc.GetConflict(agentID, key)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts, nil
}

func (csvc *ConflictService) listBeliefs(agentID string) ([]models.Belief, error) {
	keys := csvc.kvStore.ListKeys(agentID, "bi_")
	beliefs := make([]models.Belief, 0, len(keys))
	for _, key := range keys {
		var belief models.Belief
		if err := csvc.kvStore.Retrieve(agentID, key, &belief); err != nil {
			return nil, fmt.Errorf("failed to retrieve belief %s: %w", key, err)
		}
		beliefs = append(beliefs, belief)
	}
	return beliefs, nil
}

func (csvc *ConflictService) storeBelief(belief models.Belief) error {
	return csvc.kvStore.Store(belief.AgentID, belief.ID, belief, belief.Version)
}

// Conflicts are stored at version 1 and overwritten in place: the status
// field already encodes the lifecycle, and it never moves backward.
func (csvc *ConflictService) storeConflict(conflict *models.EpistemicConflict) error {
	return csvc.kvStore.Store(conflict.AgentID, conflict.ID, conflict, 1)
}
