package host

// Handle identifies a live value in a Heap.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for reference lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetained
	EventReleased
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a reference lifecycle event.
type Event struct {
	Value  Value
	Handle Handle
	Refs   uint32
	Type   EventType
}

// Observer receives notifications about reference lifecycle events.
type Observer interface {
	OnHeapEvent(Event)
}
