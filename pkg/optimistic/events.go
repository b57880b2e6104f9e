package optimistic

// Notification events dispatched on the target at each state transition.
// They exist for host-side observers; nothing in the engine depends on
// anyone listening.
const (
	EventApplied  = "optimistic:applied"
	EventError    = "optimistic:error"
	EventReverted = "optimistic:reverted"
)

// EventDetail is the payload attached to notification events. Failure is
// populated only for EventError.
type EventDetail struct {
	Config  *Config
	Failure *Detail
}
