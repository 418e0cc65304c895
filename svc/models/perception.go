package models

import (
	"time"

	"github.com/google/uuid"
)

// Perception is a raw payload an agent received from its environment,
// before or after frame-conditioned interpretation. The engine treats the
// payload as opaque; only the oracle assigns it meaning.
type Perception struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	Source    string    `json:"source"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPerception wraps a raw payload from the given source.
func NewPerception(agentID, source, data string) Perception {
	return Perception{
		ID:        "pc_" + uuid.New().String(),
		AgentID:   agentID,
		Source:    source,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// WithData returns the perception with its payload replaced, structure
// otherwise unchanged.
func (p Perception) WithData(data string) Perception {
	interpreted := p
	interpreted.Data = data
	return interpreted
}
