package usecase

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

func newFriendStore() *state.Store {
	doc := state.NewDocument()
	doc.Users = append(doc.Users,
		&state.User{ID: "alice", Name: "Alice", Email: "alice@example.com", Roles: []string{"user"}},
		&state.User{ID: "bob", Name: "Bob", Email: "bob@example.com", Roles: []string{"user"}},
		&state.User{ID: "carol", Name: "Carol", Email: "carol@example.com", Roles: []string{"user"}},
	)
	return state.NewStore(doc, zerolog.Nop())
}

func TestRequestFriend(t *testing.T) {
	t.Run("creates a pending request by email", func(t *testing.T) {
		store := newFriendStore()
		uc := NewRequestFriendUseCase(store)

		req, err := uc.Execute(RequestFriendInput{FromID: "alice", TargetEmail: " BOB@example.com "})
		require.NoError(t, err)
		assert.Equal(t, "alice", req.FromID)
		assert.Equal(t, "bob", req.ToID)
		assert.Equal(t, state.FriendRequestPending, req.Status)
	})

	t.Run("self request is rejected", func(t *testing.T) {
		store := newFriendStore()
		uc := NewRequestFriendUseCase(store)

		_, err := uc.Execute(RequestFriendInput{FromID: "alice", TargetID: "alice"})
		assert.ErrorIs(t, err, apperrors.ErrSelfFriendRequest)
	})

	t.Run("duplicate pending request conflicts in either direction", func(t *testing.T) {
		store := newFriendStore()
		uc := NewRequestFriendUseCase(store)

		_, err := uc.Execute(RequestFriendInput{FromID: "alice", TargetID: "bob"})
		require.NoError(t, err)

		_, err = uc.Execute(RequestFriendInput{FromID: "alice", TargetID: "bob"})
		assert.ErrorIs(t, err, apperrors.ErrPendingRequestExists)

		_, err = uc.Execute(RequestFriendInput{FromID: "bob", TargetID: "alice"})
		assert.ErrorIs(t, err, apperrors.ErrPendingRequestExists)
	})

	t.Run("already friends conflicts", func(t *testing.T) {
		store := newFriendStore()
		require.NoError(t, store.Update(func(d *state.Document) error {
			d.Users[0].Friends = []string{"bob"}
			d.Users[1].Friends = []string{"alice"}
			return nil
		}))
		uc := NewRequestFriendUseCase(store)

		_, err := uc.Execute(RequestFriendInput{FromID: "alice", TargetID: "bob"})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyFriends)
	})

	t.Run("unknown target fails not-found", func(t *testing.T) {
		store := newFriendStore()
		uc := NewRequestFriendUseCase(store)

		_, err := uc.Execute(RequestFriendInput{FromID: "alice", TargetEmail: "ghost@example.com"})
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}

func TestRespondFriend(t *testing.T) {
	pend := func(t *testing.T, store *state.Store) *state.FriendRequest {
		t.Helper()
		req, err := NewRequestFriendUseCase(store).Execute(RequestFriendInput{FromID: "alice", TargetID: "bob"})
		require.NoError(t, err)
		return req
	}

	t.Run("accept makes friendship symmetric and opens one direct conversation", func(t *testing.T) {
		store := newFriendStore()
		req := pend(t, store)

		result, err := NewRespondFriendUseCase(store).Execute(RespondFriendInput{
			RequestID: req.ID, ResponderID: "bob", Action: ActionAccept,
		})
		require.NoError(t, err)
		assert.Equal(t, state.FriendRequestAccepted, result.Request.Status)
		require.NotNil(t, result.Conversation)
		assert.False(t, result.Conversation.IsGroup)
		assert.ElementsMatch(t, []string{"alice", "bob"}, result.Conversation.Members)
		assert.Equal(t, state.SystemUserID, result.Conversation.CreatedBy)

		alice, _ := store.UserByID("alice")
		bob, _ := store.UserByID("bob")
		assert.True(t, alice.HasFriend("bob"))
		assert.True(t, bob.HasFriend("alice"))

		// A direct conversation between the pair is unique.
		count := 0
		store.View(func(d *state.Document) {
			for _, c := range d.Conversations {
				if !c.IsGroup && c.HasMember("alice") && c.HasMember("bob") {
					count++
				}
			}
		})
		assert.Equal(t, 1, count)
	})

	t.Run("accept reuses an existing direct conversation", func(t *testing.T) {
		store := newFriendStore()
		require.NoError(t, store.Update(func(d *state.Document) error {
			d.Conversations = append(d.Conversations, &state.Conversation{
				ID: "direct1", IsGroup: false, Members: []string{"alice", "bob"}, CreatedBy: "alice",
			})
			return nil
		}))
		req := pend(t, store)

		result, err := NewRespondFriendUseCase(store).Execute(RespondFriendInput{
			RequestID: req.ID, ResponderID: "bob", Action: ActionAccept,
		})
		require.NoError(t, err)
		assert.Equal(t, "direct1", result.Conversation.ID)
	})

	t.Run("only the addressee may respond", func(t *testing.T) {
		store := newFriendStore()
		req := pend(t, store)

		_, err := NewRespondFriendUseCase(store).Execute(RespondFriendInput{
			RequestID: req.ID, ResponderID: "carol", Action: ActionAccept,
		})
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

		_, err = NewRespondFriendUseCase(store).Execute(RespondFriendInput{
			RequestID: req.ID, ResponderID: "alice", Action: ActionAccept,
		})
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})

	t.Run("a handled request cannot be re-handled", func(t *testing.T) {
		store := newFriendStore()
		req := pend(t, store)
		uc := NewRespondFriendUseCase(store)

		_, err := uc.Execute(RespondFriendInput{RequestID: req.ID, ResponderID: "bob", Action: ActionDecline})
		require.NoError(t, err)

		_, err = uc.Execute(RespondFriendInput{RequestID: req.ID, ResponderID: "bob", Action: ActionAccept})
		assert.ErrorIs(t, err, apperrors.ErrRequestHandled)
	})

	t.Run("decline leaves relationships untouched", func(t *testing.T) {
		store := newFriendStore()
		req := pend(t, store)

		result, err := NewRespondFriendUseCase(store).Execute(RespondFriendInput{
			RequestID: req.ID, ResponderID: "bob", Action: ActionDecline,
		})
		require.NoError(t, err)
		assert.Equal(t, state.FriendRequestDeclined, result.Request.Status)
		assert.Nil(t, result.Conversation)

		alice, _ := store.UserByID("alice")
		assert.False(t, alice.HasFriend("bob"))
	})

	t.Run("a failed party lookup leaves the request pending", func(t *testing.T) {
		store := newFriendStore()
		req := pend(t, store)
		require.NoError(t, store.Update(func(d *state.Document) error {
			d.Users = d.Users[1:] // alice gone
			return nil
		}))

		_, err := NewRespondFriendUseCase(store).Execute(RespondFriendInput{
			RequestID: req.ID, ResponderID: "bob", Action: ActionAccept,
		})
		assert.ErrorIs(t, err, apperrors.ErrUnknownSubject)

		store.View(func(d *state.Document) {
			assert.Equal(t, state.FriendRequestPending, d.FriendRequests[0].Status)
			assert.Nil(t, d.FriendRequests[0].HandledAt)
		})
	})

	t.Run("unknown request id fails not-found", func(t *testing.T) {
		store := newFriendStore()
		_, err := NewRespondFriendUseCase(store).Execute(RespondFriendInput{
			RequestID: "missing", ResponderID: "bob", Action: ActionAccept,
		})
		assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
	})
}

func TestListFriends(t *testing.T) {
	store := newFriendStore()
	requestUC := NewRequestFriendUseCase(store)

	incoming, err := requestUC.Execute(RequestFriendInput{FromID: "carol", TargetID: "alice"})
	require.NoError(t, err)
	_, err = requestUC.Execute(RequestFriendInput{FromID: "alice", TargetID: "bob"})
	require.NoError(t, err)

	overview, err := NewListFriendsUseCase(store).Execute("alice")
	require.NoError(t, err)
	assert.Empty(t, overview.Friends)
	require.Len(t, overview.Incoming, 1)
	require.Len(t, overview.Outgoing, 1)
	assert.Equal(t, "carol", overview.Incoming[0].User.ID)
	assert.Equal(t, incoming.ID, overview.Incoming[0].Request.ID)
	assert.Equal(t, "bob", overview.Outgoing[0].User.ID)
}
