// Package ids defines the opaque 128-bit identifiers shared across the
// agent and controller: agents, tasks, and events are each identified by a
// randomly generated UUID.
package ids

import "github.com/google/uuid"

// AgentID identifies one managed host running an agent process.
type AgentID uuid.UUID

// TaskID identifies one task within an agent's task map.
type TaskID uuid.UUID

// EventID identifies one immutable execution-history event.
type EventID uuid.UUID

// NewAgentID generates a new random AgentID.
func NewAgentID() AgentID { return AgentID(uuid.New()) }

// NewTaskID generates a new random TaskID.
func NewTaskID() TaskID { return TaskID(uuid.New()) }

// NewEventID generates a new random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

func (a AgentID) String() string { return uuid.UUID(a).String() }
func (t TaskID) String() string  { return uuid.UUID(t).String() }
func (e EventID) String() string { return uuid.UUID(e).String() }

func (a AgentID) MarshalText() ([]byte, error) { return uuid.UUID(a).MarshalText() }
func (t TaskID) MarshalText() ([]byte, error)  { return uuid.UUID(t).MarshalText() }
func (e EventID) MarshalText() ([]byte, error) { return uuid.UUID(e).MarshalText() }

func (a *AgentID) UnmarshalText(data []byte) error { return (*uuid.UUID)(a).UnmarshalText(data) }
func (t *TaskID) UnmarshalText(data []byte) error  { return (*uuid.UUID)(t).UnmarshalText(data) }
func (e *EventID) UnmarshalText(data []byte) error { return (*uuid.UUID)(e).UnmarshalText(data) }

// ParseAgentID parses a canonical UUID string into an AgentID.
func ParseAgentID(s string) (AgentID, error) {
	u, err := uuid.Parse(s)
	return AgentID(u), err
}

// ParseTaskID parses a canonical UUID string into a TaskID.
func ParseTaskID(s string) (TaskID, error) {
	u, err := uuid.Parse(s)
	return TaskID(u), err
}
