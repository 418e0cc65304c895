package models

type CreateBeliefInput struct {
	AgentID     string
	Proposition Proposition
	Elements    []JustificationElement
}

type ReviseBeliefInput struct {
	AgentID  string
	BeliefID string
	Elements []JustificationElement
	DryRun   bool
}

type GetBeliefInput struct {
	AgentID  string
	BeliefID string
}

type ListBeliefsInput struct {
	AgentID   string
	BeliefIDs []string
}

type RecomputeBeliefsInput struct {
	AgentID string
}

type ProcessPerceptionInput struct {
	AgentID    string
	Perception Perception
}

type AdoptExternalJustificationInput struct {
	AgentID       string
	BeliefID      string
	External      Justification
	SourceAgentID string
	SourceFrame   string
}
