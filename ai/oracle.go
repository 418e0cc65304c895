// Package ai implements the evidence-judgment oracle on top of the OpenAI
// chat-completion API. Every numeric judgment is requested as a bare
// decimal in [0,1] and validated before use; anything malformed is
// reported as an error so the frame layer can substitute its neutral
// default.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"epistemic-agents-core/epistemology"
	"epistemic-agents-core/svc/models"
)

type LLMModel string

const (
	GPT_LATEST LLMModel = openai.GPT4oMini
)

const scoreInstruction = `Respond with a single decimal number between 0 and 1 and nothing else. No explanation, no units, no punctuation.`

// OracleConfig controls the client and its request throttling.
type OracleConfig struct {
	APIKey            string
	Model             string
	RequestsPerSecond float64
	Burst             int
}

// Oracle is the OpenAI-backed JudgmentOracle.
type Oracle struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ epistemology.JudgmentOracle = (*Oracle)(nil)

// NewOracle builds an oracle from config. Model and throttling fall back
// to sensible defaults when unset.
func NewOracle(cfg OracleConfig, logger *zap.Logger) *Oracle {
	model := cfg.Model
	if model == "" {
		model = string(GPT_LATEST)
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	return &Oracle{
		client:  openai.NewClient(cfg.APIKey),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

func (o *Oracle) complete(ctx context.Context, system, user string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}
	response, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return response.Choices[0].Message.Content, nil
}

// score runs a completion and validates the reply as a bare number in
// [0,1]. Malformed or out-of-range replies are failures, not values.
func (o *Oracle) score(ctx context.Context, system, user string) (float64, error) {
	reply, err := o.complete(ctx, system, user)
	if err != nil {
		return 0, err
	}
	value, err := ParseScore(reply)
	if err != nil {
		o.logger.Warn("oracle returned an unusable score", zap.String("reply", reply), zap.Error(err))
		return 0, err
	}
	return value, nil
}

// ParseScore validates an oracle reply as a bare decimal in [0,1].
func ParseScore(reply string) (float64, error) {
	trimmed := strings.TrimSpace(reply)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("not a bare number: %q", reply)
	}
	if math.IsNaN(value) || value < 0 || value > 1 {
		return 0, fmt.Errorf("score %v out of range [0,1]", value)
	}
	return value, nil
}

func describeElement(el models.JustificationElement) string {
	switch el.Kind {
	case models.KindInference:
		return fmt.Sprintf("%s evidence from %s (rule %s, premises %v): %s", el.Kind, el.Source, el.InferenceRule, el.Premises, el.Content)
	case models.KindExternal:
		return fmt.Sprintf("%s evidence from %s (assembled under frame %s, %d elements): %s", el.Kind, el.Source, el.SourceFrameID, el.External.Size(), el.Content)
	default:
		return fmt.Sprintf("%s evidence from %s: %s", el.Kind, el.Source, el.Content)
	}
}

func describeFrame(frame *epistemology.Frame) string {
	return fmt.Sprintf("the %s perspective (%s)", frame.Name, frame.Description)
}

// EvidenceStrength judges how strongly the element supports the
// proposition: 1.0 strongly supports, 0.0 strongly contradicts, 0.5
// neutral or irrelevant.
func (o *Oracle) EvidenceStrength(ctx context.Context, element models.JustificationElement, proposition models.Proposition) (float64, error) {
	system := fmt.Sprintf(`You judge how strongly a piece of evidence supports a proposition.
1.0 means the evidence strongly supports the proposition, 0.0 means it strongly contradicts it, 0.5 means it is neutral, ambiguous, or irrelevant.
%s`, scoreInstruction)
	user := fmt.Sprintf("Proposition: %s\nEvidence: %s", proposition, describeElement(element))
	return o.score(ctx, system, user)
}

// EvidenceSaliency judges the element's relevance from the frame's
// perspective.
func (o *Oracle) EvidenceSaliency(ctx context.Context, element models.JustificationElement, frame *epistemology.Frame) (float64, error) {
	system := fmt.Sprintf(`You judge how relevant a piece of evidence is from a particular cognitive perspective.
1.0 means the perspective pays full attention to this evidence, 0.0 means it ignores it entirely.
%s`, scoreInstruction)
	user := fmt.Sprintf("Perspective: %s\nEvidence: %s", describeFrame(frame), describeElement(element))
	return o.score(ctx, system, user)
}

// SourceTrust judges the trustworthiness of an evidence source under the
// frame.
func (o *Oracle) SourceTrust(ctx context.Context, sourceID string, frame *epistemology.Frame) (float64, error) {
	system := fmt.Sprintf(`You judge how trustworthy an evidence source is from a particular cognitive perspective.
1.0 means fully trusted, 0.0 means not trusted at all.
%s`, scoreInstruction)
	user := fmt.Sprintf("Perspective: %s\nSource: %s", describeFrame(frame), sourceID)
	return o.score(ctx, system, user)
}

// InterpretPerceptionData reinterprets a raw payload under the frame's
// bias. Callers fall back to the original payload on error.
func (o *Oracle) InterpretPerceptionData(ctx context.Context, payload string, frame *epistemology.Frame) (string, error) {
	system := `You reinterpret raw perception data from a particular cognitive perspective.
Rewrite the payload to emphasize what that perspective attends to. Respond with the reinterpreted payload only.`
	user := fmt.Sprintf("Perspective: %s\nPayload: %s", describeFrame(frame), payload)
	reply, err := o.complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("empty interpretation")
	}
	return reply, nil
}

// ExtractRelevantPropositions pulls the propositions in a payload that the
// frame considers salient. Callers fall back to an empty sequence on
// error.
func (o *Oracle) ExtractRelevantPropositions(ctx context.Context, payload string, frame *epistemology.Frame) ([]models.Proposition, error) {
	system := `You extract propositions from perception data that are salient to a particular cognitive perspective.
Return ONLY a JSON object with a "propositions" field containing an array of short proposition strings.
Example: {"propositions": ["the build is green", "the deploy window is open"]}`
	user := fmt.Sprintf("Perspective: %s\nPayload: %s", describeFrame(frame), payload)
	reply, err := o.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSON(reply)
	if jsonStr == "" {
		return nil, fmt.Errorf("no valid JSON found in the response")
	}
	var parsed struct {
		Propositions []string `json:"propositions"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse propositions response: %w", err)
	}

	props := make([]models.Proposition, 0, len(parsed.Propositions))
	for _, p := range parsed.Propositions {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			props = append(props, models.Proposition(trimmed))
		}
	}
	return props, nil
}

// extractJSON pulls the first {...} block out of a completion that may
// wrap its JSON in prose.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	candidate := s[start : end+1]
	re := regexp.MustCompile(`^\s*\{[\s\S]*\}\s*$`)
	if !re.MatchString(candidate) {
		return ""
	}
	return candidate
}
