package pool

import "github.com/wippyai/mpi-runtime/handle"

// EventType distinguishes pool lifecycle notifications.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventReleased
)

func (t EventType) String() string {
	if t == EventAllocated {
		return "allocated"
	}
	return "released"
}

// Event represents a pool lifecycle event.
type Event struct {
	Handle handle.Handle
	Kind   handle.Kind
	Type   EventType
}

// Observer receives notifications about pool lifecycle events.
// Observers run inside the caller's critical section and must not call back
// into the pool.
type Observer interface {
	OnPoolEvent(Event)
}
