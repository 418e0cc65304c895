// Package epistemology implements the frame engine: the policy objects
// that weight and combine justification evidence into confidence values,
// and the compatibility judgments between frames. One shared algorithm set
// serves every frame variant; variants differ only in their constant
// tables (see variants.go).
package epistemology

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"epistemic-agents-core/svc/models"
)

// ErrUnknownFrame is returned when a frame variant name is not recognized.
var ErrUnknownFrame = errors.New("unknown frame variant")

// Frame parameter keys. Values are weights and rates in the frame's
// parameter table; unknown keys are rejected by configuration loading.
const (
	ParamToolResultWeight     = "tool_result_weight"
	ParamObservationWeight    = "observation_weight"
	ParamTestimonyWeight      = "testimony_weight"
	ParamInferenceWeight      = "inference_weight"
	ParamExternalWeight       = "external_weight"
	ParamConfidenceIncrease   = "confidence_increase_rate"
	ParamConfidenceDecrease   = "confidence_decrease_rate"
	ParamMinSampleSize        = "min_sample_size_for_high_confidence"
	ParamMaxInitialConfidence = "max_initial_confidence"
	ParamCompatibilityWeight  = "frame_compatibility_weight"
	// ParamSourceTrustWeight is the alpha of the justification-source
	// update: how far testimony pulls confidence toward source trust.
	ParamSourceTrustWeight = "source_trust_weight"
)

// Frame is a named cognitive perspective: a parameter table plus a
// compatibility row. Frames are value-like and never mutate after
// construction; WithParameters returns a fresh instance.
type Frame struct {
	ID          string
	Kind        FrameKind
	Name        string
	Description string
	Params      map[string]float64
}

// New constructs a frame of the given variant with its default parameters.
func New(kind FrameKind) (*Frame, error) {
	variant, ok := variants[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrame, kind)
	}
	params := make(map[string]float64, len(baseParameters))
	for k, v := range baseParameters {
		params[k] = v
	}
	for k, v := range variant.overrides {
		params[k] = v
	}
	return &Frame{
		ID:          "fr_" + uuid.New().String(),
		Kind:        kind,
		Name:        variant.name,
		Description: variant.description,
		Params:      params,
	}, nil
}

// NewByName constructs a frame from a variant name, as stored in
// configuration or received from another agent.
func NewByName(name string) (*Frame, error) {
	return New(FrameKind(name))
}

// Param looks up a parameter value; missing keys read as zero.
func (f *Frame) Param(key string) float64 {
	return f.Params[key]
}

// WithParameters returns a new frame of the same variant with the
// overrides shallow-merged over the current parameters.
func (f *Frame) WithParameters(overrides map[string]float64) *Frame {
	params := make(map[string]float64, len(f.Params))
	for k, v := range f.Params {
		params[k] = v
	}
	for k, v := range overrides {
		params[k] = v
	}
	merged := *f
	merged.Params = params
	return &merged
}

// Compatibility is the fixed discount this frame applies to another
// frame's judgments. Looked up per directed variant pair; unrecognized
// variants get a low default. Self-compatibility is always the highest
// entry in a row.
func (f *Frame) Compatibility(other *Frame) float64 {
	if other == nil {
		return defaultCompatibility
	}
	if row, ok := compatibility[f.Kind]; ok {
		if score, ok := row[other.Kind]; ok {
			return score
		}
	}
	return defaultCompatibility
}

// InterpretPerception replaces the perception's payload with the oracle's
// frame-conditioned reinterpretation. On oracle failure the perception
// passes through unchanged.
func (f *Frame) InterpretPerception(ctx context.Context, p models.Perception, oracle JudgmentOracle) models.Perception {
	data, err := oracle.InterpretPerceptionData(ctx, p.Data, f)
	if err != nil {
		return p
	}
	return p.WithData(data)
}

// RelevantPropositions extracts the propositions in a payload that this
// frame considers salient. On oracle failure the result is empty.
func (f *Frame) RelevantPropositions(ctx context.Context, payload string, oracle JudgmentOracle) []models.Proposition {
	props, err := oracle.ExtractRelevantPropositions(ctx, payload, f)
	if err != nil {
		return nil
	}
	return props
}

// elementScore is one element's trust-adjusted strength and its saliency
// weight, as judged by the oracle under this frame.
type elementScore struct {
	strength float64
	saliency float64
}

// scoreElements fans out the oracle judgments for every element
// concurrently and collects them positionally. Each element's score is
// independent of the others, so ordering is irrelevant here; failed
// judgments degrade to the neutral default.
func (f *Frame) scoreElements(ctx context.Context, proposition models.Proposition, elements []models.JustificationElement, oracle JudgmentOracle) []elementScore {
	scores := make([]elementScore, len(elements))
	var wg sync.WaitGroup
	for i, el := range elements {
		wg.Add(1)
		go func(i int, el models.JustificationElement) {
			defer wg.Done()
			strength := scoreOr(oracle.EvidenceStrength(ctx, el, proposition))
			saliency := scoreOr(oracle.EvidenceSaliency(ctx, el, f))
			if el.Kind == models.KindTestimony || el.Kind == models.KindExternal {
				strength *= scoreOr(oracle.SourceTrust(ctx, el.Source, f))
			}
			scores[i] = elementScore{strength: strength, saliency: saliency}
		}(i, el)
	}
	wg.Wait()
	return scores
}

// weightedAverage reduces element scores to a saliency-weighted mean.
// Zero total saliency falls back to the neutral prior.
func weightedAverage(scores []elementScore) float64 {
	var weighted, total float64
	for _, s := range scores {
		weighted += s.strength * s.saliency
		total += s.saliency
	}
	if total == 0 {
		return NeutralScore
	}
	return weighted / total
}

// InitialConfidence computes the confidence for a newly formed belief from
// its evidence. Empty evidence yields the neutral prior; otherwise the
// saliency-weighted strength average, capped at max_initial_confidence.
func (f *Frame) InitialConfidence(ctx context.Context, proposition models.Proposition, elements []models.JustificationElement, oracle JudgmentOracle) float64 {
	if len(elements) == 0 {
		return NeutralScore
	}
	confidence := weightedAverage(f.scoreElements(ctx, proposition, elements, oracle))
	if limit := f.Param(ParamMaxInitialConfidence); confidence > limit {
		confidence = limit
	}
	return models.ClampConfidence(confidence)
}

// RecomputeConfidence reassesses a standing belief purely from its
// accumulated evidence, without the initial-confidence cap. Used when an
// agent switches frames and every belief must be rescored under the new
// perspective.
func (f *Frame) RecomputeConfidence(ctx context.Context, proposition models.Proposition, justification models.Justification, oracle JudgmentOracle) float64 {
	if len(justification.Elements) == 0 {
		return NeutralScore
	}
	return models.ClampConfidence(weightedAverage(f.scoreElements(ctx, proposition, justification.Elements, oracle)))
}

// UpdateConfidence folds new evidence into the current confidence, one
// element at a time. Order is a hard requirement: each element acts on the
// confidence left by the previous one, so the fold is strictly sequential.
//
// Testimony and external evidence follow the justification-source model,
// pulling confidence toward how trustworthy the source is judged to be:
//
//	conf' = (1-alpha)*conf + alpha*trust
//
// This assumes the testimony supports the proposition; it does not yet
// distinguish supporting from contradicting testimony. Everything else
// follows the frame-weighted model, a convex combination of the current
// confidence and the evidence strength, weighted by this frame's saliency:
//
//	conf' = (1-w)*conf + w*strength
func (f *Frame) UpdateConfidence(ctx context.Context, proposition models.Proposition, current float64, newElements []models.JustificationElement, oracle JudgmentOracle) float64 {
	confidence := current
	for _, el := range newElements {
		switch el.Kind {
		case models.KindTestimony, models.KindExternal:
			alpha := f.Param(ParamSourceTrustWeight)
			trust := scoreOr(oracle.SourceTrust(ctx, el.Source, f))
			confidence = (1-alpha)*confidence + alpha*trust
		default:
			w := scoreOr(oracle.EvidenceSaliency(ctx, el, f))
			strength := scoreOr(oracle.EvidenceStrength(ctx, el, proposition))
			confidence = (1-w)*confidence + w*strength
		}
	}
	return models.ClampConfidence(confidence)
}

// EvaluateExternalJustification scores another agent's justification for a
// proposition from this frame's perspective, then discounts the result by
// the fixed compatibility between the two frames. The source frame's own
// weights are never consulted.
func (f *Frame) EvaluateExternalJustification(ctx context.Context, proposition models.Proposition, external models.Justification, sourceFrame *Frame, oracle JudgmentOracle) float64 {
	raw := NeutralScore
	if len(external.Elements) > 0 {
		raw = weightedAverage(f.scoreElements(ctx, proposition, external.Elements, oracle))
	}
	return models.ClampConfidence(raw * f.Compatibility(sourceFrame))
}
