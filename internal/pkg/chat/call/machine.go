package call

// State is the lifecycle position of a call within one conversation.
type State string

const (
	StateIdle       State = "idle"
	StateDialing    State = "dialing"
	StateRinging    State = "ringing"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateEnded      State = "ended"
)

// Event is a call-control action.
type Event string

const (
	EventInvite  Event = "invite"
	EventRing    Event = "ring"
	EventAccept  Event = "accept"
	EventDecline Event = "decline"
	EventEnd     Event = "end"
)

// transitions is the full set of legal (state, event) -> state moves.
// Anything absent here is illegal and rejected by Next.
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventInvite: StateDialing,
		EventRing:   StateRinging,
	},
	StateDialing: {
		EventAccept:  StateConnecting,
		EventDecline: StateEnded,
		EventEnd:     StateEnded,
	},
	StateRinging: {
		EventAccept:  StateConnecting,
		EventDecline: StateEnded,
		EventEnd:     StateEnded,
	},
	StateConnecting: {
		EventEnd: StateEnded,
	},
	StateConnected: {
		EventEnd: StateEnded,
	},
}

// Next returns the resulting state for an event, or false if the event is
// not legal from the current state.
func Next(s State, e Event) (State, bool) {
	moves, ok := transitions[s]
	if !ok {
		return s, false
	}
	next, ok := moves[e]
	if !ok {
		return s, false
	}
	return next, true
}
