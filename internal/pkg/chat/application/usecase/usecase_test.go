package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
	"youchat/pkg/security"
)

func newChatStore() *state.Store {
	doc := state.NewDocument()
	doc.Users = append(doc.Users,
		&state.User{ID: "alice", Name: "Alice", Email: "alice@example.com", Roles: []string{"user"}},
		&state.User{ID: "bob", Name: "Bob", Email: "bob@example.com", Roles: []string{"user"}},
		&state.User{ID: "carol", Name: "Carol", Email: "carol@example.com", Roles: []string{"user"}},
		&state.User{ID: "root", Name: "Root", Email: "root@example.com", Roles: []string{"admin"}},
	)
	doc.Conversations = append(doc.Conversations, &state.Conversation{
		ID: "group1", Name: "general", IsGroup: true,
		Members: []string{"alice", "bob", "carol"}, CreatedBy: "alice",
	})
	return state.NewStore(doc, zerolog.Nop())
}

func TestSendMessage(t *testing.T) {
	t.Run("member sends sanitized text", func(t *testing.T) {
		store := newChatStore()
		uc := NewSendMessageUseCase(store)

		msg, err := uc.Execute(SendMessageInput{
			ConversationID: "group1",
			SenderID:       "bob",
			Content:        "  <script>alert(1)</script>hello  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "alert(1)hello", msg.Content)
		assert.Equal(t, state.MessageTypeText, msg.Type)
		assert.NotEmpty(t, msg.ID)
	})

	t.Run("non-member is rejected and nothing is stored", func(t *testing.T) {
		store := newChatStore()
		uc := NewSendMessageUseCase(store)

		_, err := uc.Execute(SendMessageInput{
			ConversationID: "group1",
			SenderID:       "stranger",
			Content:        "hi",
		})
		assert.ErrorIs(t, err, apperrors.ErrNotConversationMember)
		assert.Empty(t, store.MessagesFor("group1", 0))
	})

	t.Run("unknown conversation is rejected", func(t *testing.T) {
		store := newChatStore()
		uc := NewSendMessageUseCase(store)

		_, err := uc.Execute(SendMessageInput{
			ConversationID: "nope",
			SenderID:       "bob",
			Content:        "hi",
		})
		assert.ErrorIs(t, err, apperrors.ErrNotConversationMember)
	})

	t.Run("content that sanitizes to empty is rejected", func(t *testing.T) {
		store := newChatStore()
		uc := NewSendMessageUseCase(store)

		_, err := uc.Execute(SendMessageInput{
			ConversationID: "group1",
			SenderID:       "bob",
			Content:        "  <b></b>  ",
		})
		assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
	})

	t.Run("overlong content is capped", func(t *testing.T) {
		store := newChatStore()
		uc := NewSendMessageUseCase(store)

		msg, err := uc.Execute(SendMessageInput{
			ConversationID: "group1",
			SenderID:       "bob",
			Content:        strings.Repeat("a", security.MaxMessageLength+500),
		})
		require.NoError(t, err)
		assert.Len(t, msg.Content, security.MaxMessageLength)
	})

	t.Run("system sender bypasses membership", func(t *testing.T) {
		store := newChatStore()
		uc := NewSendMessageUseCase(store)

		_, err := uc.Execute(SendMessageInput{
			ConversationID: "group1",
			SenderID:       state.SystemUserID,
			Content:        "group created",
		})
		assert.NoError(t, err)
	})

	t.Run("file message requires a matching upload record", func(t *testing.T) {
		store := newChatStore()
		require.NoError(t, store.Update(func(d *state.Document) error {
			d.Files = append(d.Files, &state.FileRecord{
				ID: "f1", ConversationID: "group1", UploaderID: "bob",
				OriginalName: "pic.png", MimeType: "image/png", Size: 10,
			})
			return nil
		}))
		uc := NewSendMessageUseCase(store)

		fid := "f1"
		msg, err := uc.Execute(SendMessageInput{
			ConversationID: "group1",
			SenderID:       "bob",
			Type:           state.MessageTypeFile,
			Content:        "pic.png",
			FileID:         &fid,
		})
		require.NoError(t, err)
		assert.Equal(t, state.MessageTypeFile, msg.Type)

		other := "f-other"
		_, err = uc.Execute(SendMessageInput{
			ConversationID: "group1",
			SenderID:       "bob",
			Type:           state.MessageTypeFile,
			FileID:         &other,
		})
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})
}

func TestJoinConversation(t *testing.T) {
	store := newChatStore()
	uc := NewJoinConversationUseCase(store)

	assert.NoError(t, uc.Execute(JoinConversationInput{ConversationID: "group1", UserID: "bob"}))
	assert.ErrorIs(t, uc.Execute(JoinConversationInput{ConversationID: "group1", UserID: "stranger"}), apperrors.ErrNotConversationMember)
	assert.ErrorIs(t, uc.Execute(JoinConversationInput{ConversationID: "missing", UserID: "bob"}), apperrors.ErrConversationNotFound)

	// Membership is checked live: removal takes effect on the next attempt.
	require.NoError(t, store.Update(func(d *state.Document) error {
		d.Conversations[0].Members = []string{"alice", "carol"}
		return nil
	}))
	assert.ErrorIs(t, uc.Execute(JoinConversationInput{ConversationID: "group1", UserID: "bob"}), apperrors.ErrNotConversationMember)
}

func TestCreateConversation(t *testing.T) {
	t.Run("direct conversations are unique per pair", func(t *testing.T) {
		store := newChatStore()
		uc := NewCreateConversationUseCase(store)

		first, err := uc.Execute(CreateConversationInput{
			CreatorID: "alice", MemberIDs: []string{"bob"},
		})
		require.NoError(t, err)
		assert.True(t, first.Created)
		assert.Len(t, first.Conversation.Members, 2)

		second, err := uc.Execute(CreateConversationInput{
			CreatorID: "bob", MemberIDs: []string{"alice"},
		})
		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
	})

	t.Run("direct chat needs exactly two members", func(t *testing.T) {
		store := newChatStore()
		uc := NewCreateConversationUseCase(store)

		_, err := uc.Execute(CreateConversationInput{CreatorID: "alice"})
		assert.Error(t, err)

		_, err = uc.Execute(CreateConversationInput{
			CreatorID: "alice", MemberIDs: []string{"bob", "carol"},
		})
		assert.Error(t, err)
	})

	t.Run("group requires a name and includes the creator", func(t *testing.T) {
		store := newChatStore()
		uc := NewCreateConversationUseCase(store)

		_, err := uc.Execute(CreateConversationInput{CreatorID: "alice", IsGroup: true})
		assert.Error(t, err)

		res, err := uc.Execute(CreateConversationInput{
			CreatorID: "alice", IsGroup: true, Name: "team", MemberIDs: []string{"bob", "bob", "alice"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, res.Conversation.Members)
	})
}

func TestGetMessages(t *testing.T) {
	store := newChatStore()
	require.NoError(t, store.Update(func(d *state.Document) error {
		for i := 0; i < HistoryWindow+50; i++ {
			d.Messages = append(d.Messages, &state.Message{
				ID:             fmt.Sprintf("m%d", i),
				ConversationID: "group1",
				SenderID:       "alice",
				Type:           state.MessageTypeText,
				Content:        "x",
			})
		}
		return nil
	}))
	uc := NewGetMessagesUseCase(store)

	msgs, err := uc.Execute(GetMessagesInput{ConversationID: "group1", UserID: "bob"})
	require.NoError(t, err)
	require.Len(t, msgs, HistoryWindow)
	assert.Equal(t, "m50", msgs[0].ID)
	assert.Equal(t, fmt.Sprintf("m%d", HistoryWindow+49), msgs[len(msgs)-1].ID)

	// Non-members cannot tell a forbidden conversation from a missing one.
	_, err = uc.Execute(GetMessagesInput{ConversationID: "group1", UserID: "stranger"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	_, err = uc.Execute(GetMessagesInput{ConversationID: "missing", UserID: "bob"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestAddMembers(t *testing.T) {
	t.Run("member adds known users without duplicates", func(t *testing.T) {
		store := newChatStore()
		uc := NewAddMembersUseCase(store)

		conv, err := uc.Execute(AddMembersInput{
			ConversationID: "group1",
			ActorID:        "bob",
			MemberIDs:      []string{"root", "ghost", "bob"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob", "carol", "root"}, conv.Members)
	})

	t.Run("admin may add without being a member", func(t *testing.T) {
		store := newChatStore()
		uc := NewAddMembersUseCase(store)

		_, err := uc.Execute(AddMembersInput{
			ConversationID: "group1",
			ActorID:        "root",
			MemberIDs:      []string{"root"},
		})
		assert.NoError(t, err)
	})

	t.Run("outsider is rejected", func(t *testing.T) {
		store := newChatStore()
		uc := NewAddMembersUseCase(store)

		// Make carol an outsider first.
		require.NoError(t, store.Update(func(d *state.Document) error {
			d.Conversations[0].Members = []string{"alice", "bob"}
			return nil
		}))
		_, err := uc.Execute(AddMembersInput{
			ConversationID: "group1",
			ActorID:        "carol",
			MemberIDs:      []string{"carol"},
		})
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})
}

func TestLeaveConversation(t *testing.T) {
	t.Run("owner leaving dissolves the group", func(t *testing.T) {
		store := newChatStore()
		require.NoError(t, store.Update(func(d *state.Document) error {
			d.Messages = append(d.Messages, &state.Message{ID: "m1", ConversationID: "group1", SenderID: "bob"})
			return nil
		}))
		uc := NewLeaveConversationUseCase(store)

		result, err := uc.Execute(LeaveConversationInput{ConversationID: "group1", ActorID: "alice"})
		require.NoError(t, err)
		assert.True(t, result.Dissolved)

		_, ok := store.ConversationByID("group1")
		assert.False(t, ok)
		assert.Empty(t, store.MessagesFor("group1", 0))

		// Joining the dissolved group now fails as not-found.
		joinErr := NewJoinConversationUseCase(store).Execute(JoinConversationInput{ConversationID: "group1", UserID: "bob"})
		assert.ErrorIs(t, joinErr, apperrors.ErrConversationNotFound)
	})

	t.Run("regular member leaving keeps the group", func(t *testing.T) {
		store := newChatStore()
		uc := NewLeaveConversationUseCase(store)

		result, err := uc.Execute(LeaveConversationInput{ConversationID: "group1", ActorID: "bob"})
		require.NoError(t, err)
		assert.False(t, result.Dissolved)
		assert.Equal(t, []string{"alice", "carol"}, result.Conversation.Members)
	})

	t.Run("direct chats cannot be left", func(t *testing.T) {
		store := newChatStore()
		createRes, err := NewCreateConversationUseCase(store).Execute(CreateConversationInput{
			CreatorID: "alice", MemberIDs: []string{"bob"},
		})
		require.NoError(t, err)

		_, err = NewLeaveConversationUseCase(store).Execute(LeaveConversationInput{
			ConversationID: createRes.Conversation.ID, ActorID: "alice",
		})
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	})

	t.Run("non-member cannot leave", func(t *testing.T) {
		store := newChatStore()
		_, err := NewLeaveConversationUseCase(store).Execute(LeaveConversationInput{
			ConversationID: "group1", ActorID: "stranger",
		})
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})
}

func TestDeleteConversation(t *testing.T) {
	t.Run("owner deletes and gets the member list back", func(t *testing.T) {
		store := newChatStore()
		members, err := NewDeleteConversationUseCase(store).Execute(DeleteConversationInput{
			ConversationID: "group1", ActorID: "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob", "carol"}, members)

		_, ok := store.ConversationByID("group1")
		assert.False(t, ok)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		store := newChatStore()
		_, err := NewDeleteConversationUseCase(store).Execute(DeleteConversationInput{
			ConversationID: "group1", ActorID: "bob",
		})
		assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
	})
}
