package models

import (
	"time"

	"github.com/google/uuid"
)

// JustificationKind classifies the origin of a piece of evidence.
type JustificationKind string

const (
	// KindToolResult is evidence produced by executing a tool.
	KindToolResult JustificationKind = "tool_result"
	// KindTestimony is evidence reported by another agent.
	KindTestimony JustificationKind = "testimony"
	// KindObservation is evidence perceived directly from the environment.
	KindObservation JustificationKind = "observation"
	// KindInference is evidence derived from other propositions via a rule.
	KindInference JustificationKind = "inference"
	// KindExternal is a whole justification received from another agent,
	// evaluated under that agent's frame.
	KindExternal JustificationKind = "external"
)

// JustificationElement is one typed unit of evidence. Elements are never
// mutated after construction; updates always produce new elements.
type JustificationElement struct {
	ID        string            `json:"id"`
	Kind      JustificationKind `json:"kind"`
	Source    string            `json:"source"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`

	// Inference elements only.
	Premises      []Proposition `json:"premises,omitempty"`
	InferenceRule string        `json:"inference_rule,omitempty"`

	// External elements only.
	External      *Justification `json:"external,omitempty"`
	SourceFrameID string         `json:"source_frame_id,omitempty"`
}

func newJustificationElement(kind JustificationKind, source, content string) JustificationElement {
	return JustificationElement{
		ID:        "ji_" + uuid.New().String(),
		Kind:      kind,
		Source:    source,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewToolResultElement creates evidence from a tool execution result.
func NewToolResultElement(source, content string) JustificationElement {
	return newJustificationElement(KindToolResult, source, content)
}

// NewObservationElement creates evidence from a direct observation.
func NewObservationElement(source, content string) JustificationElement {
	return newJustificationElement(KindObservation, source, content)
}

// NewTestimonyElement creates evidence from another agent's report.
func NewTestimonyElement(source, content string) JustificationElement {
	return newJustificationElement(KindTestimony, source, content)
}

// NewInferenceElement creates evidence derived from premises by a rule.
func NewInferenceElement(source, content string, premises []Proposition, rule string) JustificationElement {
	el := newJustificationElement(KindInference, source, content)
	el.Premises = append([]Proposition(nil), premises...)
	el.InferenceRule = rule
	return el
}

// NewExternalElement wraps a justification received from another agent,
// recording the frame it was originally assembled under.
func NewExternalElement(source, content string, external Justification, sourceFrameID string) JustificationElement {
	el := newJustificationElement(KindExternal, source, content)
	cloned := external.Clone()
	el.External = &cloned
	el.SourceFrameID = sourceFrameID
	return el
}

// Clone returns a deep copy of the element.
func (e JustificationElement) Clone() JustificationElement {
	clone := e
	clone.Premises = append([]Proposition(nil), e.Premises...)
	if e.External != nil {
		ext := e.External.Clone()
		clone.External = &ext
	}
	return clone
}

// ContradictsProposition reports whether this element directly contradicts
// the proposition: its content is the syntactically negated proposition
// string. Only inference, testimony and external evidence can carry a
// counter-claim; tool results and observations never trip this check.
func (e JustificationElement) ContradictsProposition(p Proposition) bool {
	switch e.Kind {
	case KindInference, KindTestimony, KindExternal:
		return e.Content == string(p.Negate())
	default:
		return false
	}
}

// Justification is the ordered collection of evidence supporting a belief.
// The element list only grows, or is replaced wholesale via Merge; it never
// shrinks in place. Element identity is by ID, content equality is not
// checked.
type Justification struct {
	Elements  []JustificationElement `json:"elements"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// NewJustification builds a justification over the given elements.
func NewJustification(elements ...JustificationElement) Justification {
	return Justification{
		Elements:  append([]JustificationElement(nil), elements...),
		UpdatedAt: time.Now(),
	}
}

// WithElements returns a new justification with the elements appended.
func (j Justification) WithElements(elements ...JustificationElement) Justification {
	combined := make([]JustificationElement, 0, len(j.Elements)+len(elements))
	combined = append(combined, j.Elements...)
	combined = append(combined, elements...)
	return Justification{Elements: combined, UpdatedAt: time.Now()}
}

// Merge concatenates two justifications, preserving element order: all of
// this justification's elements followed by all of other's. Neither input
// is modified.
func (j Justification) Merge(other Justification) Justification {
	return j.WithElements(other.Elements...)
}

// Filter returns the elements matching the predicate, in order.
func (j Justification) Filter(pred func(JustificationElement) bool) []JustificationElement {
	var matched []JustificationElement
	for _, el := range j.Elements {
		if pred(el) {
			matched = append(matched, el)
		}
	}
	return matched
}

// FilterByKind returns the elements of the given kind, in order.
func (j Justification) FilterByKind(kind JustificationKind) []JustificationElement {
	return j.Filter(func(el JustificationElement) bool { return el.Kind == kind })
}

// FilterBySource returns the elements originating from the given source.
func (j Justification) FilterBySource(source string) []JustificationElement {
	return j.Filter(func(el JustificationElement) bool { return el.Source == source })
}

// Size returns the number of evidence elements.
func (j Justification) Size() int {
	return len(j.Elements)
}

// Clone returns a deep copy of the justification.
func (j Justification) Clone() Justification {
	elements := make([]JustificationElement, len(j.Elements))
	for i, el := range j.Elements {
		elements[i] = el.Clone()
	}
	return Justification{Elements: elements, UpdatedAt: j.UpdatedAt}
}
