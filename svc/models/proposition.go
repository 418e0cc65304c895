package models

import "strings"

// NegationMarker is the reserved prefix that turns a proposition into its
// negated form. Negation is purely syntactic; propositions are otherwise
// opaque identifiers.
const NegationMarker = "not:"

// Proposition identifies a statement an agent can hold a belief about.
type Proposition string

// IsNegated reports whether the proposition is in negation-marker form.
func (p Proposition) IsNegated() bool {
	return strings.HasPrefix(string(p), NegationMarker)
}

// Negate toggles the proposition between asserted and negated form.
// Negating twice returns the original proposition.
func (p Proposition) Negate() Proposition {
	if p.IsNegated() {
		return Proposition(strings.TrimPrefix(string(p), NegationMarker))
	}
	return Proposition(NegationMarker + string(p))
}

// ContradictsProposition reports whether two propositions are direct
// contradictions, i.e. one is exactly the negation-marker form of the other.
func (p Proposition) ContradictsProposition(other Proposition) bool {
	return p.Negate() == other
}
