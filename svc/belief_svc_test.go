package svc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"epistemic-agents-core/db"
	"epistemic-agents-core/epistemology"
	"epistemic-agents-core/svc/models"
)

// MockOracle stands in for the LLM-backed judgment oracle.
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) EvidenceStrength(ctx context.Context, element models.JustificationElement, proposition models.Proposition) (float64, error) {
	args := m.Called(ctx, element, proposition)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockOracle) EvidenceSaliency(ctx context.Context, element models.JustificationElement, frame *epistemology.Frame) (float64, error) {
	args := m.Called(ctx, element, frame)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockOracle) SourceTrust(ctx context.Context, sourceID string, frame *epistemology.Frame) (float64, error) {
	args := m.Called(ctx, sourceID, frame)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockOracle) InterpretPerceptionData(ctx context.Context, payload string, frame *epistemology.Frame) (string, error) {
	args := m.Called(ctx, payload, frame)
	return args.String(0), args.Error(1)
}

func (m *MockOracle) ExtractRelevantPropositions(ctx context.Context, payload string, frame *epistemology.Frame) ([]models.Proposition, error) {
	args := m.Called(ctx, payload, frame)
	return args.Get(0).([]models.Proposition), args.Error(1)
}

func newBeliefFixture(t *testing.T, kind epistemology.FrameKind) (*BeliefService, *MockOracle) {
	t.Helper()
	frame, err := epistemology.New(kind)
	require.NoError(t, err)
	oracle := new(MockOracle)
	bsvc := NewBeliefService(db.NewKeyValueStore(zap.NewNop()), frame, oracle, zap.NewNop())
	return bsvc, oracle
}

func TestCreateBeliefScoresInitialConfidence(t *testing.T) {
	bsvc, oracle := newBeliefFixture(t, epistemology.Efficiency)
	oracle.On("EvidenceStrength", mock.Anything, mock.Anything, mock.Anything).Return(0.9, nil)
	oracle.On("EvidenceSaliency", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)

	out, err := bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{
		AgentID:     "agent-a",
		Proposition: "the build is green",
		Elements:    []models.JustificationElement{models.NewToolResultElement("ci", "exit 0")},
	})
	require.NoError(t, err)

	// 0.9 weighted average, capped at the frame's max initial confidence.
	assert.Equal(t, 0.8, out.Belief.Confidence)
	assert.Equal(t, 1, out.Belief.Version)
	assert.Equal(t, 1, out.Belief.Justification.Size())

	stored, err := bsvc.GetBelief(&models.GetBeliefInput{AgentID: "agent-a", BeliefID: out.Belief.ID})
	require.NoError(t, err)
	assert.Equal(t, out.Belief.Confidence, stored.Belief.Confidence)
}

func TestCreateBeliefWithoutEvidenceIsNeutral(t *testing.T) {
	bsvc, _ := newBeliefFixture(t, epistemology.Efficiency)

	out, err := bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{
		AgentID:     "agent-a",
		Proposition: "the build is green",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, out.Belief.Confidence)
}

func TestReviseBeliefFoldsNewEvidence(t *testing.T) {
	bsvc, oracle := newBeliefFixture(t, epistemology.Efficiency)
	oracle.On("EvidenceStrength", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)
	oracle.On("EvidenceSaliency", mock.Anything, mock.Anything, mock.Anything).Return(0.8, nil)

	created, err := bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{
		AgentID:     "agent-a",
		Proposition: "the build is green",
	})
	require.NoError(t, err)

	out, err := bsvc.ReviseBelief(context.Background(), &models.ReviseBeliefInput{
		AgentID:  "agent-a",
		BeliefID: created.Belief.ID,
		Elements: []models.JustificationElement{models.NewObservationElement("dashboard", "all checks passed")},
	})
	require.NoError(t, err)

	// (1-0.8)*0.5 + 0.8*1.0
	assert.InDelta(t, 0.9, out.Belief.Confidence, 1e-9)
	assert.Equal(t, created.Belief.ID, out.Belief.ID)
	assert.Equal(t, 2, out.Belief.Version)
	assert.Equal(t, 1, out.Belief.Justification.Size())
}

func TestReviseBeliefDryRunDoesNotPersist(t *testing.T) {
	bsvc, oracle := newBeliefFixture(t, epistemology.Efficiency)
	oracle.On("EvidenceStrength", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)
	oracle.On("EvidenceSaliency", mock.Anything, mock.Anything, mock.Anything).Return(0.8, nil)

	created, err := bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{
		AgentID:     "agent-a",
		Proposition: "the build is green",
	})
	require.NoError(t, err)

	_, err = bsvc.ReviseBelief(context.Background(), &models.ReviseBeliefInput{
		AgentID:  "agent-a",
		BeliefID: created.Belief.ID,
		Elements: []models.JustificationElement{models.NewObservationElement("dashboard", "all checks passed")},
		DryRun:   true,
	})
	require.NoError(t, err)

	stored, err := bsvc.GetBelief(&models.GetBeliefInput{AgentID: "agent-a", BeliefID: created.Belief.ID})
	require.NoError(t, err)
	assert.Equal(t, 0.5, stored.Belief.Confidence)
	assert.Equal(t, 1, stored.Belief.Version)
}

func TestReviseBeliefUnknownIDFails(t *testing.T) {
	bsvc, _ := newBeliefFixture(t, epistemology.Efficiency)

	_, err := bsvc.ReviseBelief(context.Background(), &models.ReviseBeliefInput{
		AgentID:  "agent-a",
		BeliefID: "bi_missing",
	})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSwitchFrameRecomputesWithoutInitialCap(t *testing.T) {
	bsvc, oracle := newBeliefFixture(t, epistemology.Efficiency)
	oracle.On("EvidenceStrength", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)
	oracle.On("EvidenceSaliency", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)

	created, err := bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{
		AgentID:     "agent-a",
		Proposition: "the build is green",
		Elements:    []models.JustificationElement{models.NewToolResultElement("ci", "exit 0")},
	})
	require.NoError(t, err)
	require.Equal(t, 0.8, created.Belief.Confidence)

	thoroughness, err := epistemology.New(epistemology.Thoroughness)
	require.NoError(t, err)

	out, err := bsvc.SwitchFrame(context.Background(), "agent-a", thoroughness)
	require.NoError(t, err)

	require.Len(t, out.Beliefs, 1)
	assert.Equal(t, 1.0, out.Beliefs[0].Confidence)
	assert.Equal(t, 2, out.Beliefs[0].Version)
	assert.Equal(t, epistemology.Thoroughness, bsvc.Frame().Kind)
}

func TestProcessPerceptionCreatesThenRevisesBeliefs(t *testing.T) {
	bsvc, oracle := newBeliefFixture(t, epistemology.Efficiency)
	oracle.On("InterpretPerceptionData", mock.Anything, mock.Anything, mock.Anything).Return("interpreted: door open", nil)
	oracle.On("ExtractRelevantPropositions", mock.Anything, mock.Anything, mock.Anything).
		Return([]models.Proposition{"the door is open"}, nil)
	oracle.On("EvidenceStrength", mock.Anything, mock.Anything, mock.Anything).Return(0.7, nil)
	oracle.On("EvidenceSaliency", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)

	perception := models.NewPerception("agent-a", "camera-2", "a door stands ajar")
	out, err := bsvc.ProcessPerception(context.Background(), &models.ProcessPerceptionInput{
		AgentID:    "agent-a",
		Perception: perception,
	})
	require.NoError(t, err)

	assert.Equal(t, "interpreted: door open", out.Perception.Data)
	assert.Equal(t, perception.ID, out.Perception.ID)
	require.Len(t, out.Beliefs, 1)
	assert.Equal(t, models.Proposition("the door is open"), out.Beliefs[0].Proposition)
	assert.InDelta(t, 0.7, out.Beliefs[0].Confidence, 1e-9)

	// A second perception on the same proposition revises instead of
	// duplicating.
	again, err := bsvc.ProcessPerception(context.Background(), &models.ProcessPerceptionInput{
		AgentID:    "agent-a",
		Perception: models.NewPerception("agent-a", "camera-2", "still ajar"),
	})
	require.NoError(t, err)
	require.Len(t, again.Beliefs, 1)
	assert.Equal(t, out.Beliefs[0].ID, again.Beliefs[0].ID)
	assert.Equal(t, 2, again.Beliefs[0].Version)
	assert.Equal(t, 2, again.Beliefs[0].Justification.Size())
}

func TestAdoptExternalJustificationDiscountsByCompatibility(t *testing.T) {
	bsvc, oracle := newBeliefFixture(t, epistemology.Efficiency)
	oracle.On("EvidenceStrength", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)
	oracle.On("EvidenceSaliency", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)

	created, err := bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{
		AgentID:     "agent-a",
		Proposition: "the build is green",
	})
	require.NoError(t, err)

	external := models.NewJustification(models.NewToolResultElement("ci", "exit 0"))
	out, err := bsvc.AdoptExternalJustification(context.Background(), &models.AdoptExternalJustificationInput{
		AgentID:       "agent-a",
		BeliefID:      created.Belief.ID,
		External:      external,
		SourceAgentID: "agent-b",
		SourceFrame:   "thoroughness",
	})
	require.NoError(t, err)

	// External evaluation: 1.0 * compat(efficiency, thoroughness) = 0.4,
	// blended at the frame compatibility weight: 0.5*0.5 + 0.5*0.4.
	assert.InDelta(t, 0.45, out.Belief.Confidence, 1e-9)
	require.Equal(t, 1, out.Belief.Justification.Size())
	assert.Equal(t, models.KindExternal, out.Belief.Justification.Elements[0].Kind)

	_, err = bsvc.AdoptExternalJustification(context.Background(), &models.AdoptExternalJustificationInput{
		AgentID:     "agent-a",
		BeliefID:    created.Belief.ID,
		External:    external,
		SourceFrame: "daydreaming",
	})
	assert.ErrorIs(t, err, epistemology.ErrUnknownFrame)
}

func TestListBeliefsFiltersByID(t *testing.T) {
	bsvc, _ := newBeliefFixture(t, epistemology.Efficiency)

	first, err := bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{AgentID: "agent-a", Proposition: "p"})
	require.NoError(t, err)
	_, err = bsvc.CreateBelief(context.Background(), &models.CreateBeliefInput{AgentID: "agent-a", Proposition: "q"})
	require.NoError(t, err)

	all, err := bsvc.ListBeliefs(&models.ListBeliefsInput{AgentID: "agent-a"})
	require.NoError(t, err)
	assert.Len(t, all.Beliefs, 2)

	filtered, err := bsvc.ListBeliefs(&models.ListBeliefsInput{AgentID: "agent-a", BeliefIDs: []string{first.Belief.ID}})
	require.NoError(t, err)
	require.Len(t, filtered.Beliefs, 1)
	assert.Equal(t, first.Belief.ID, filtered.Beliefs[0].ID)
}
