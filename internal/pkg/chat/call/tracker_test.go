package call

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "youchat/pkg/errors"
)

func TestTracker_InviteRejectsConcurrentCall(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.Invite("conv1", "alice", "video"))

	callerID, mediaType, active := tr.Active("conv1")
	assert.True(t, active)
	assert.Equal(t, "alice", callerID)
	assert.Equal(t, "video", mediaType)

	err := tr.Invite("conv1", "bob", "audio")
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))

	// A different conversation is unaffected.
	assert.NoError(t, tr.Invite("conv2", "bob", "audio"))
}

func TestTracker_AcceptFlushesQueuedSignals(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Invite("conv1", "alice", "audio"))

	// Candidates arriving before accept are held back, in order, tagged with
	// the session that sent them so the flush can skip the originator.
	assert.True(t, tr.QueueOrPass("conv1", "sess-alice", []byte("candidate-1")))
	assert.True(t, tr.QueueOrPass("conv1", "sess-alice", []byte("candidate-2")))

	queued, err := tr.Accept("conv1", "bob")
	require.NoError(t, err)
	require.Len(t, queued, 2)
	assert.Equal(t, "candidate-1", string(queued[0].Payload))
	assert.Equal(t, "sess-alice", queued[0].SessionID)
	assert.Equal(t, "candidate-2", string(queued[1].Payload))
	assert.Equal(t, "sess-alice", queued[1].SessionID)

	// Once connecting, signals pass straight through.
	assert.False(t, tr.QueueOrPass("conv1", "sess-alice", []byte("offer")))
}

func TestTracker_AcceptWithoutCall(t *testing.T) {
	tr := NewTracker()

	_, err := tr.Accept("conv1", "bob")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestTracker_AcceptTwiceFails(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Invite("conv1", "alice", "audio"))

	_, err := tr.Accept("conv1", "bob")
	require.NoError(t, err)

	_, err = tr.Accept("conv1", "carol")
	assert.Equal(t, apperrors.CodeFailedPrecondition, apperrors.CodeOf(err))
}

func TestTracker_DeclineAndEndClearTheCall(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.Invite("conv1", "alice", "audio"))
	tr.Decline("conv1")
	_, _, active := tr.Active("conv1")
	assert.False(t, active)

	require.NoError(t, tr.Invite("conv1", "alice", "audio"))
	tr.End("conv1")
	_, _, active = tr.Active("conv1")
	assert.False(t, active)

	// Both sides racing to terminate is fine.
	tr.End("conv1")
	tr.Decline("conv1")
}

func TestTracker_SignalsWithoutCallPassThrough(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.QueueOrPass("conv1", "sess-x", []byte("stray")))
}

func TestTracker_DropParticipantEndsTheirCalls(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Invite("conv1", "alice", "audio"))
	require.NoError(t, tr.Invite("conv2", "bob", "video"))
	_, err := tr.Accept("conv2", "alice")
	require.NoError(t, err)

	ended := tr.DropParticipant("alice")
	assert.ElementsMatch(t, []string{"conv1", "conv2"}, ended)

	_, _, active := tr.Active("conv1")
	assert.False(t, active)
	_, _, active = tr.Active("conv2")
	assert.False(t, active)

	// Dropping someone with no calls ends nothing.
	assert.Empty(t, tr.DropParticipant("carol"))
}
