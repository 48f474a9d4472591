package usecase

import (
	"time"

	"github.com/google/uuid"

	"youchat/internal/pkg/state"
	"youchat/pkg/security"

	apperrors "youchat/pkg/errors"
)

// StoreFileInput records a validated upload against a conversation. Path is
// where the bytes already landed on disk.
type StoreFileInput struct {
	ConversationID string
	UploaderID     string
	Path           string
	OriginalName   string
	MimeType       string
	Size           int64
}

type StoreFileUseCase struct {
	Store *state.Store
}

func NewStoreFileUseCase(store *state.Store) *StoreFileUseCase {
	return &StoreFileUseCase{Store: store}
}

func (uc *StoreFileUseCase) Execute(in StoreFileInput) (*state.FileRecord, error) {
	if err := security.ValidateUpload(in.MimeType, in.Size); err != nil {
		return nil, err
	}
	var record state.FileRecord
	err := uc.Store.Update(func(d *state.Document) error {
		var conv *state.Conversation
		for _, c := range d.Conversations {
			if c.ID == in.ConversationID {
				conv = c
				break
			}
		}
		if conv == nil || !conv.HasMember(in.UploaderID) {
			return apperrors.ErrNotConversationMember
		}
		record = state.FileRecord{
			ID:             uuid.NewString(),
			ConversationID: in.ConversationID,
			UploaderID:     in.UploaderID,
			Path:           in.Path,
			OriginalName:   security.SanitizeInput(in.OriginalName),
			MimeType:       in.MimeType,
			Size:           in.Size,
			CreatedAt:      time.Now().UTC(),
		}
		cp := record
		d.Files = append(d.Files, &cp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}
