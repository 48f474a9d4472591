package usecase

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

func newFileStore() *state.Store {
	doc := state.NewDocument()
	doc.Users = append(doc.Users,
		&state.User{ID: "alice", Name: "Alice", Email: "alice@example.com", Roles: []string{"user"}},
		&state.User{ID: "bob", Name: "Bob", Email: "bob@example.com", Roles: []string{"user"}},
		&state.User{ID: "carol", Name: "Carol", Email: "carol@example.com", Roles: []string{"user"}},
	)
	doc.Conversations = append(doc.Conversations, &state.Conversation{
		ID: "conv1", IsGroup: true, Name: "team", Members: []string{"alice", "bob"}, CreatedBy: "alice",
	})
	return state.NewStore(doc, zerolog.Nop())
}

func TestStoreFile(t *testing.T) {
	t.Run("records an allowed upload", func(t *testing.T) {
		store := newFileStore()
		uc := NewStoreFileUseCase(store)

		record, err := uc.Execute(StoreFileInput{
			ConversationID: "conv1",
			UploaderID:     "alice",
			Path:           "/uploads/abc.png",
			OriginalName:   "photo.png",
			MimeType:       "image/png",
			Size:           2048,
		})
		require.NoError(t, err)
		assert.Equal(t, "conv1", record.ConversationID)
		assert.Equal(t, "alice", record.UploaderID)
		assert.NotEmpty(t, record.ID)

		store.View(func(d *state.Document) {
			require.Len(t, d.Files, 1)
		})
	})

	t.Run("disallowed type is a correctable validation error", func(t *testing.T) {
		store := newFileStore()
		uc := NewStoreFileUseCase(store)

		_, err := uc.Execute(StoreFileInput{
			ConversationID: "conv1",
			UploaderID:     "alice",
			Path:           "/uploads/tool.exe",
			OriginalName:   "tool.exe",
			MimeType:       "application/x-msdownload",
			Size:           2048,
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

		store.View(func(d *state.Document) {
			assert.Empty(t, d.Files)
		})
	})

	t.Run("non-member cannot upload", func(t *testing.T) {
		store := newFileStore()
		uc := NewStoreFileUseCase(store)

		_, err := uc.Execute(StoreFileInput{
			ConversationID: "conv1",
			UploaderID:     "carol",
			Path:           "/uploads/abc.pdf",
			OriginalName:   "doc.pdf",
			MimeType:       "application/pdf",
			Size:           2048,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotConversationMember)
	})
}

func TestGetFile(t *testing.T) {
	seed := func(t *testing.T, store *state.Store) *state.FileRecord {
		t.Helper()
		record, err := NewStoreFileUseCase(store).Execute(StoreFileInput{
			ConversationID: "conv1",
			UploaderID:     "alice",
			Path:           "/uploads/abc.pdf",
			OriginalName:   "doc.pdf",
			MimeType:       "application/pdf",
			Size:           2048,
		})
		require.NoError(t, err)
		return record
	}

	t.Run("member resolves the record", func(t *testing.T) {
		store := newFileStore()
		record := seed(t, store)

		got, err := NewGetFileUseCase(store).Execute(record.ID, "bob")
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, "/uploads/abc.pdf", got.Path)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		store := newFileStore()
		record := seed(t, store)

		_, err := NewGetFileUseCase(store).Execute(record.ID, "carol")
		assert.ErrorIs(t, err, apperrors.ErrNotConversationMember)
	})

	t.Run("unknown id fails not-found", func(t *testing.T) {
		store := newFileStore()

		_, err := NewGetFileUseCase(store).Execute("missing", "alice")
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}
