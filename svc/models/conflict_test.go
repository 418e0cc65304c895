package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConflict() *EpistemicConflict {
	belief := NewBelief("agent-a", "p", 0.8, NewJustification())
	contradictory := NewBelief("agent-b", "not:p", 0.7, NewJustification())
	return NewEpistemicConflict("agent-a", "agent-b", belief, contradictory)
}

func TestNewConflictStartsDetected(t *testing.T) {
	c := newTestConflict()

	assert.Equal(t, ConflictDetected, c.Status)
	assert.Equal(t, Proposition("p"), c.Proposition)
	assert.Nil(t, c.Resolution)
}

func TestConflictTransitionsOnlyForward(t *testing.T) {
	c := newTestConflict()

	require.NoError(t, c.Advance(ConflictInProgress))
	require.NoError(t, c.Advance(ConflictResolved))

	// Terminal states never reopen.
	assert.Error(t, c.Advance(ConflictInProgress))
	assert.Error(t, c.Advance(ConflictDetected))
	assert.Error(t, c.Advance(ConflictPersistent))
	assert.Equal(t, ConflictResolved, c.Status)
}

func TestConflictRejectsSkippedAndRepeatedStates(t *testing.T) {
	c := newTestConflict()

	require.NoError(t, c.Advance(ConflictInProgress))
	assert.Error(t, c.Advance(ConflictInProgress))
	assert.Error(t, c.Advance("bogus"))
}

func TestCloseRecordsResolution(t *testing.T) {
	c := newTestConflict()
	require.NoError(t, c.Advance(ConflictInProgress))

	require.NoError(t, c.Close(ConflictResolution{
		Type:      MutualRevision,
		Success:   true,
		Timestamp: time.Now(),
	}))

	assert.Equal(t, ConflictResolved, c.Status)
	require.NotNil(t, c.Resolution)
	assert.Equal(t, MutualRevision, c.Resolution.Type)
}

func TestCloseFailedResolutionIsPersistent(t *testing.T) {
	c := newTestConflict()
	require.NoError(t, c.Advance(ConflictInProgress))

	require.NoError(t, c.Close(ConflictResolution{
		Type:      PersistentDisagreement,
		Success:   false,
		Timestamp: time.Now(),
	}))

	assert.Equal(t, ConflictPersistent, c.Status)
}
