package models

type CreateBeliefOutput struct {
	Belief Belief
}

type ReviseBeliefOutput struct {
	Belief Belief
}

type GetBeliefOutput struct {
	Belief Belief
}

type ListBeliefsOutput struct {
	Beliefs []Belief
}

type RecomputeBeliefsOutput struct {
	Beliefs []Belief
}

type ProcessPerceptionOutput struct {
	Perception Perception
	Beliefs    []Belief
}

type AdoptExternalJustificationOutput struct {
	Belief Belief
}
