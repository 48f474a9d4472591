package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain reads everything buffered on the connection's outbound channel.
func drain(c *Connection) []string {
	var out []string
	for {
		select {
		case msg := <-c.send:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func attach(r *Router, userID string) *Connection {
	conn := NewConnection(userID, nil)
	r.mu.Lock()
	r.sessions[conn.ID] = conn
	set := r.userSessions[conn.UserID]
	if set == nil {
		set = make(map[string]struct{})
		r.userSessions[conn.UserID] = set
	}
	set[conn.ID] = struct{}{}
	r.sessionRooms[conn.ID] = make(map[string]struct{})
	r.mu.Unlock()
	return conn
}

func TestRouter_PresenceTracksMultipleDevices(t *testing.T) {
	r := NewRouter()

	assert.False(t, r.IsOnline("alice"))

	phone := attach(r, "alice")
	laptop := attach(r, "alice")
	assert.True(t, r.IsOnline("alice"))
	assert.Equal(t, 1, r.OnlineCount())

	// Losing one device keeps the user online.
	r.Detach(phone)
	assert.True(t, r.IsOnline("alice"))

	r.Detach(laptop)
	assert.False(t, r.IsOnline("alice"))
	assert.Equal(t, 0, r.OnlineCount())
}

func TestRouter_BroadcastReachesEverySubscriber(t *testing.T) {
	r := NewRouter()
	alice := attach(r, "alice")
	bob := attach(r, "bob")
	carol := attach(r, "carol")

	r.Join("conv1", alice)
	r.Join("conv1", bob)

	delivered := r.Broadcast("conv1", []byte("hello"))
	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"hello"}, drain(alice))
	assert.Equal(t, []string{"hello"}, drain(bob))
	assert.Empty(t, drain(carol))
}

func TestRouter_BroadcastExceptSkipsTheSender(t *testing.T) {
	r := NewRouter()
	alice := attach(r, "alice")
	bob := attach(r, "bob")
	r.Join("conv1", alice)
	r.Join("conv1", bob)

	delivered := r.BroadcastExcept("conv1", []byte("signal"), alice.ID)
	assert.Equal(t, 1, delivered)
	assert.Empty(t, drain(alice))
	assert.Equal(t, []string{"signal"}, drain(bob))
}

func TestRouter_LeaveStopsDelivery(t *testing.T) {
	r := NewRouter()
	alice := attach(r, "alice")
	r.Join("conv1", alice)
	r.Leave("conv1", alice)

	assert.Equal(t, 0, r.Broadcast("conv1", []byte("x")))
}

func TestRouter_DetachRemovesFromAllRooms(t *testing.T) {
	r := NewRouter()
	alice := attach(r, "alice")
	bob := attach(r, "bob")
	r.Join("conv1", alice)
	r.Join("conv2", alice)
	r.Join("conv1", bob)

	r.Detach(alice)

	assert.Equal(t, 1, r.Broadcast("conv1", []byte("x")))
	assert.Equal(t, 0, r.Broadcast("conv2", []byte("x")))
	assert.Empty(t, drain(alice))
}

func TestRouter_JoinAfterDetachIsIgnored(t *testing.T) {
	r := NewRouter()
	alice := attach(r, "alice")
	r.Detach(alice)

	r.Join("conv1", alice)
	assert.Equal(t, 0, r.Broadcast("conv1", []byte("x")))
}

func TestRouter_NotifyUserHitsAllDevices(t *testing.T) {
	r := NewRouter()
	phone := attach(r, "alice")
	laptop := attach(r, "alice")
	attach(r, "bob")

	require.True(t, r.NotifyUser("alice", []byte("ping")))
	assert.Equal(t, []string{"ping"}, drain(phone))
	assert.Equal(t, []string{"ping"}, drain(laptop))

	assert.False(t, r.NotifyUser("ghost", []byte("ping")))
}

func TestRouter_LateJoinerMissesEarlierBroadcasts(t *testing.T) {
	r := NewRouter()
	alice := attach(r, "alice")
	r.Join("conv1", alice)
	r.Broadcast("conv1", []byte("early"))

	bob := attach(r, "bob")
	r.Join("conv1", bob)
	assert.Empty(t, drain(bob))
}
