package epistemology

import (
	"context"

	"epistemic-agents-core/svc/models"
)

// NeutralScore is the default judgment substituted whenever the oracle
// fails or returns something unusable. A failed judgment degrades to
// neutral influence; it never aborts a belief update.
const NeutralScore = 0.5

// JudgmentOracle supplies the scalar judgments frames need to turn
// evidence into confidence. Implementations live outside the engine
// (typically LLM-backed); the engine depends only on these numeric
// contracts. All scores are in [0,1].
type JudgmentOracle interface {
	// EvidenceStrength judges how strongly an element supports a
	// proposition: 1.0 strongly supports, 0.0 strongly contradicts,
	// 0.5 neutral or irrelevant.
	EvidenceStrength(ctx context.Context, element models.JustificationElement, proposition models.Proposition) (float64, error)

	// EvidenceSaliency judges how much attention the frame pays to the
	// element.
	EvidenceSaliency(ctx context.Context, element models.JustificationElement, frame *Frame) (float64, error)

	// SourceTrust judges how trustworthy an evidence source is under the
	// frame.
	SourceTrust(ctx context.Context, sourceID string, frame *Frame) (float64, error)

	// InterpretPerceptionData reinterprets a raw payload under the frame's
	// bias.
	InterpretPerceptionData(ctx context.Context, payload string, frame *Frame) (string, error)

	// ExtractRelevantPropositions pulls out the propositions in a payload
	// that are salient to the frame.
	ExtractRelevantPropositions(ctx context.Context, payload string, frame *Frame) ([]models.Proposition, error)
}

// scoreOr folds the oracle's fail-soft policy into one place: any error
// yields the neutral default, and in-range results pass through clamped.
func scoreOr(score float64, err error) float64 {
	if err != nil {
		return NeutralScore
	}
	return models.ClampConfidence(score)
}
