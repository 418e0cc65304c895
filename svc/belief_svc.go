package svc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"epistemic-agents-core/db"
	"epistemic-agents-core/epistemology"
	"epistemic-agents-core/svc/models"
)

// BeliefService forms and revises an agent's beliefs under its current
// frame. Beliefs are stored per agent in the KV store; the frame and
// oracle turn evidence into confidence.
type BeliefService struct {
	kvStore *db.KeyValueStore
	frame   *epistemology.Frame
	oracle  epistemology.JudgmentOracle
	logger  *zap.Logger
}

// NewBeliefService initializes and returns a new BeliefService.
func NewBeliefService(kvStore *db.KeyValueStore, frame *epistemology.Frame, oracle epistemology.JudgmentOracle, logger *zap.Logger) *BeliefService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BeliefService{
		kvStore: kvStore,
		frame:   frame,
		oracle:  oracle,
		logger:  logger,
	}
}

// Frame returns the frame the service currently evaluates evidence under.
func (bsvc *BeliefService) Frame() *epistemology.Frame {
	return bsvc.frame
}

// CreateBelief forms a new belief from the given evidence, scoring its
// initial confidence under the current frame.
func (bsvc *BeliefService) CreateBelief(ctx context.Context, input *models.CreateBeliefInput) (*models.CreateBeliefOutput, error) {
	confidence := bsvc.frame.InitialConfidence(ctx, input.Proposition, input.Elements, bsvc.oracle)
	belief := models.NewBelief(input.AgentID, input.Proposition, confidence, models.NewJustification(input.Elements...))

	if err := bsvc.storeBelief(belief); err != nil {
		return nil, fmt.Errorf("failed to store belief: %w", err)
	}

	bsvc.logger.Debug("belief created",
		zap.String("agent_id", input.AgentID),
		zap.String("belief_id", belief.ID),
		zap.String("proposition", string(belief.Proposition)),
		zap.Float64("confidence", belief.Confidence))

	return &models.CreateBeliefOutput{Belief: belief}, nil
}

// ReviseBelief folds new evidence into an existing belief, sequentially,
// and appends the evidence to its justification. DryRun computes the
// revision without persisting it.
func (bsvc *BeliefService) ReviseBelief(ctx context.Context, input *models.ReviseBeliefInput) (*models.ReviseBeliefOutput, error) {
	belief, err := bsvc.retrieveBelief(input.AgentID, input.BeliefID)
	if err != nil {
		return nil, err
	}

	confidence := bsvc.frame.UpdateConfidence(ctx, belief.Proposition, belief.Confidence, input.Elements, bsvc.oracle)
	revised := belief.WithUpdates(models.BeliefUpdate{
		Confidence:  &confidence,
		NewElements: input.Elements,
	})

	if !input.DryRun {
		if err := bsvc.storeBelief(revised); err != nil {
			return nil, fmt.Errorf("failed to store revised belief: %w", err)
		}
	}

	bsvc.logger.Debug("belief revised",
		zap.String("belief_id", revised.ID),
		zap.Float64("old_confidence", belief.Confidence),
		zap.Float64("new_confidence", revised.Confidence),
		zap.Int("new_elements", len(input.Elements)))

	return &models.ReviseBeliefOutput{Belief: revised}, nil
}

// AdoptExternalJustification evaluates another agent's justification for a
// belief's proposition from this agent's frame, discounted by frame
// compatibility, and folds the external evidence into the belief.
func (bsvc *BeliefService) AdoptExternalJustification(ctx context.Context, input *models.AdoptExternalJustificationInput) (*models.AdoptExternalJustificationOutput, error) {
	belief, err := bsvc.retrieveBelief(input.AgentID, input.BeliefID)
	if err != nil {
		return nil, err
	}
	sourceFrame, err := epistemology.NewByName(input.SourceFrame)
	if err != nil {
		return nil, err
	}

	external := bsvc.frame.EvaluateExternalJustification(ctx, belief.Proposition, input.External, sourceFrame, bsvc.oracle)
	weight := bsvc.frame.Param(epistemology.ParamCompatibilityWeight)
	confidence := (1-weight)*belief.Confidence + weight*external

	element := models.NewExternalElement(input.SourceAgentID, string(belief.Proposition), input.External, sourceFrame.ID)
	revised := belief.WithUpdates(models.BeliefUpdate{
		Confidence:  &confidence,
		NewElements: []models.JustificationElement{element},
	})

	if err := bsvc.storeBelief(revised); err != nil {
		return nil, fmt.Errorf("failed to store revised belief: %w", err)
	}
	return &models.AdoptExternalJustificationOutput{Belief: revised}, nil
}

// SwitchFrame replaces the service's frame and rescores every stored
// belief of the agent purely from its accumulated evidence under the new
// perspective. The initial-confidence cap does not apply here.
func (bsvc *BeliefService) SwitchFrame(ctx context.Context, agentID string, frame *epistemology.Frame) (*models.RecomputeBeliefsOutput, error) {
	bsvc.frame = frame
	bsvc.logger.Info("frame switched",
		zap.String("agent_id", agentID),
		zap.String("frame", string(frame.Kind)))
	return bsvc.RecomputeBeliefs(ctx, &models.RecomputeBeliefsInput{AgentID: agentID})
}

// RecomputeBeliefs rescores all of the agent's beliefs under the current
// frame.
func (bsvc *BeliefService) RecomputeBeliefs(ctx context.Context, input *models.RecomputeBeliefsInput) (*models.RecomputeBeliefsOutput, error) {
	listed, err := bsvc.ListBeliefs(&models.ListBeliefsInput{AgentID: input.AgentID})
	if err != nil {
		return nil, err
	}

	recomputed := make([]models.Belief, 0, len(listed.Beliefs))
	for _, belief := range listed.Beliefs {
		confidence := bsvc.frame.RecomputeConfidence(ctx, belief.Proposition, belief.Justification, bsvc.oracle)
		revised := belief.WithConfidence(confidence)
		if err := bsvc.storeBelief(revised); err != nil {
			return nil, fmt.Errorf("failed to store recomputed belief: %w", err)
		}
		recomputed = append(recomputed, revised)
	}
	return &models.RecomputeBeliefsOutput{Beliefs: recomputed}, nil
}

// ProcessPerception interprets a perception under the current frame,
// extracts the propositions it considers salient, and creates or revises
// a belief for each with the interpreted payload as observation evidence.
func (bsvc *BeliefService) ProcessPerception(ctx context.Context, input *models.ProcessPerceptionInput) (*models.ProcessPerceptionOutput, error) {
	interpreted := bsvc.frame.InterpretPerception(ctx, input.Perception, bsvc.oracle)
	propositions := bsvc.frame.RelevantPropositions(ctx, interpreted.Data, bsvc.oracle)

	touched := make([]models.Belief, 0, len(propositions))
	for _, proposition := range propositions {
		element := models.NewObservationElement(interpreted.Source, interpreted.Data)

		existing, err := bsvc.findBeliefByProposition(input.AgentID, proposition)
		if err != nil {
			out, err := bsvc.CreateBelief(ctx, &models.CreateBeliefInput{
				AgentID:     input.AgentID,
				Proposition: proposition,
				Elements:    []models.JustificationElement{element},
			})
			if err != nil {
				return nil, err
			}
			touched = append(touched, out.Belief)
			continue
		}

		out, err := bsvc.ReviseBelief(ctx, &models.ReviseBeliefInput{
			AgentID:  input.AgentID,
			BeliefID: existing.ID,
			Elements: []models.JustificationElement{element},
		})
		if err != nil {
			return nil, err
		}
		touched = append(touched, out.Belief)
	}

	return &models.ProcessPerceptionOutput{Perception: interpreted, Beliefs: touched}, nil
}

// GetBelief retrieves the latest version of a belief.
func (bsvc *BeliefService) GetBelief(input *models.GetBeliefInput) (*models.GetBeliefOutput, error) {
	belief, err := bsvc.retrieveBelief(input.AgentID, input.BeliefID)
	if err != nil {
		return nil, err
	}
	return &models.GetBeliefOutput{Belief: belief}, nil
}

// ListBeliefs returns the agent's stored beliefs, optionally filtered by
// id.
func (bsvc *BeliefService) ListBeliefs(input *models.ListBeliefsInput) (*models.ListBeliefsOutput, error) {
	keys := bsvc.kvStore.ListKeys(input.AgentID, "bi_")

	wanted := make(map[string]bool, len(input.BeliefIDs))
	for _, id := range input.BeliefIDs {
		wanted[id] = true
	}

	beliefs := make([]models.Belief, 0, len(keys))
	for _, key := range keys {
		if len(wanted) > 0 && !wanted[key] {
			continue
		}
		belief, err := bsvc.retrieveBelief(input.AgentID, key)
		if err != nil {
			return nil, err
		}
		beliefs = append(beliefs, belief)
	}
	return &models.ListBeliefsOutput{Beliefs: beliefs}, nil
}

func (bsvc *BeliefService) findBeliefByProposition(agentID string, proposition models.Proposition) (models.Belief, error) {
	listed, err := bsvc.ListBeliefs(&models.ListBeliefsInput{AgentID: agentID})
	if err != nil {
		return models.Belief{}, err
	}
	for _, belief := range listed.Beliefs {
		if belief.Proposition == proposition {
			return belief, nil
		}
	}
	return models.Belief{}, fmt.Errorf("belief on %q: %w", proposition, db.ErrNotFound)
}

func (bsvc *BeliefService) storeBelief(belief models.Belief) error {
	return bsvc.kvStore.Store(belief.AgentID, belief.ID, belief, belief.Version)
}

func (bsvc *BeliefService) retrieveBelief(agentID, beliefID string) (models.Belief, error) {
	var belief models.Belief
	if err := bsvc.kvStore.Retrieve(agentID, beliefID, &belief); err != nil {
		return models.Belief{}, fmt.Errorf("failed to retrieve belief %s: %w", beliefID, err)
	}
	return belief, nil
}
