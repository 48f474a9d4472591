package call

import (
	"sync"
	"time"

	apperrors "youchat/pkg/errors"
)

// Tracker keeps one active call per conversation and enforces the transition
// table server-side rather than trusting each client's local view. It also
// buffers negotiation payloads that arrive before the callee has accepted,
// so early ICE candidates are replayed instead of dropped.
type Tracker struct {
	mu    sync.Mutex
	calls map[string]*activeCall
}

type activeCall struct {
	CallerID       string
	MediaType      string
	State          State
	Participants   map[string]struct{}
	pendingSignals []QueuedSignal
	StartedAt      time.Time
}

// QueuedSignal is a negotiation payload buffered before accept, tagged with
// the session that sent it so replay can skip the originator.
type QueuedSignal struct {
	SessionID string
	Payload   []byte
}

func NewTracker() *Tracker {
	return &Tracker{calls: make(map[string]*activeCall)}
}

// Invite starts a call in the conversation. A second invite while a call is
// in progress is rejected outright.
func (t *Tracker) Invite(conversationID, callerID, mediaType string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.calls[conversationID]; exists {
		return apperrors.FailedPrecondition("a call is already in progress in this conversation")
	}
	next, _ := Next(StateIdle, EventInvite)
	t.calls[conversationID] = &activeCall{
		CallerID:     callerID,
		MediaType:    mediaType,
		State:        next,
		Participants: map[string]struct{}{callerID: {}},
		StartedAt:    time.Now().UTC(),
	}
	return nil
}

// Accept moves the call to connecting and returns any negotiation payloads
// queued while the call was still ringing, in arrival order.
func (t *Tracker) Accept(conversationID, calleeID string) ([]QueuedSignal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, exists := t.calls[conversationID]
	if !exists {
		return nil, apperrors.NotFound("no call to accept in this conversation")
	}
	next, ok := Next(c.State, EventAccept)
	if !ok {
		return nil, apperrors.FailedPrecondition("call cannot be accepted in its current state")
	}
	c.State = next
	c.Participants[calleeID] = struct{}{}
	queued := c.pendingSignals
	c.pendingSignals = nil
	return queued, nil
}

// Connected marks negotiation complete. Tolerant of a missing call: the other
// side may have ended it concurrently.
func (t *Tracker) Connected(conversationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, exists := t.calls[conversationID]; exists && c.State == StateConnecting {
		c.State = StateConnected
	}
}

// Decline terminates a not-yet-accepted call. Clearing an already-gone call
// is a no-op so both sides can race to terminate.
func (t *Tracker) Decline(conversationID string) {
	t.end(conversationID)
}

// End terminates the call from either side, in any state.
func (t *Tracker) End(conversationID string) {
	t.end(conversationID)
}

func (t *Tracker) end(conversationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.calls, conversationID)
}

// QueueOrPass decides what to do with a raw negotiation payload. While the
// call is still being set up the payload is buffered for replay on accept;
// once connecting or later it passes straight through. With no active call
// it also passes through, leaving interpretation to the endpoints.
func (t *Tracker) QueueOrPass(conversationID, sessionID string, payload []byte) (queued bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, exists := t.calls[conversationID]
	if !exists {
		return false
	}
	if c.State == StateDialing || c.State == StateRinging {
		cp := append([]byte(nil), payload...)
		c.pendingSignals = append(c.pendingSignals, QueuedSignal{SessionID: sessionID, Payload: cp})
		return true
	}
	return false
}

// Active reports whether a call is in progress, who started it and with what
// media. Late room joiners use it to learn of the ongoing call.
func (t *Tracker) Active(conversationID string) (callerID, mediaType string, active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, exists := t.calls[conversationID]
	if !exists {
		return "", "", false
	}
	return c.CallerID, c.MediaType, true
}

// DropParticipant handles a connection going away mid-call: every
// conversation where the user was a call participant is terminated, and the
// affected conversation ids are returned so the caller can relay an end
// event to the remaining side.
func (t *Tracker) DropParticipant(userID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ended []string
	for convID, c := range t.calls {
		if _, in := c.Participants[userID]; in {
			delete(t.calls, convID)
			ended = append(ended, convID)
		}
	}
	return ended
}
