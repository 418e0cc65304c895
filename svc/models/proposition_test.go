package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegateTogglesMarker(t *testing.T) {
	p := Proposition("the door is locked")

	negated := p.Negate()
	assert.Equal(t, Proposition("not:the door is locked"), negated)
	assert.True(t, negated.IsNegated())
	assert.False(t, p.IsNegated())
}

func TestNegateIsInvolution(t *testing.T) {
	cases := []Proposition{
		"the door is locked",
		"not:the door is locked",
		"",
		"not:",
	}
	for _, p := range cases {
		assert.Equal(t, p, p.Negate().Negate(), "double negation of %q", p)
	}
}

func TestContradictsProposition(t *testing.T) {
	p := Proposition("the build is green")
	notP := p.Negate()

	assert.True(t, p.ContradictsProposition(notP))
	assert.True(t, notP.ContradictsProposition(p))
	assert.False(t, p.ContradictsProposition(p))
	assert.False(t, p.ContradictsProposition("the build is red"))
}
