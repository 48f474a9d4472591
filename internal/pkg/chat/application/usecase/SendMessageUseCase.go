package usecase

import (
	"time"

	"github.com/google/uuid"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
	"youchat/pkg/security"
)

// SendMessageInput carries the data needed to post a new message.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Type           state.MessageType
	Content        string
	FileID         *string
}

// SendMessageUseCase validates and stores a message. Membership is checked
// against the live conversation record at send time; text content is
// sanitized and capped; file messages must reference a validated upload owned
// by a member of the same conversation. The stored message is immutable.
type SendMessageUseCase struct {
	Store *state.Store
}

func NewSendMessageUseCase(store *state.Store) *SendMessageUseCase {
	return &SendMessageUseCase{Store: store}
}

// Execute appends the message to the conversation log and requests a
// persistence write. Broadcasting is the caller's concern.
func (uc *SendMessageUseCase) Execute(in SendMessageInput) (*state.Message, error) {
	if in.ConversationID == "" || in.SenderID == "" {
		return nil, apperrors.InvalidArg("conversationId and senderId are required")
	}
	if in.Type == "" {
		in.Type = state.MessageTypeText
	}

	var msg *state.Message
	err := uc.Store.Update(func(d *state.Document) error {
		var conv *state.Conversation
		for _, c := range d.Conversations {
			if c.ID == in.ConversationID {
				conv = c
				break
			}
		}
		if conv == nil {
			return apperrors.ErrNotConversationMember
		}
		if in.SenderID != state.SystemUserID && !conv.HasMember(in.SenderID) {
			return apperrors.ErrNotConversationMember
		}

		content := in.Content
		switch in.Type {
		case state.MessageTypeText:
			content = security.SanitizeInput(content)
			if content == "" {
				return apperrors.ErrEmptyMessage
			}
		case state.MessageTypeFile:
			if in.FileID == nil || *in.FileID == "" {
				return apperrors.InvalidArg("file messages require a fileId")
			}
			var rec *state.FileRecord
			for _, f := range d.Files {
				if f.ID == *in.FileID {
					rec = f
					break
				}
			}
			if rec == nil || rec.ConversationID != in.ConversationID || !conv.HasMember(rec.UploaderID) {
				return apperrors.InvalidArg("fileId does not reference a valid upload for this conversation")
			}
		default:
			return apperrors.InvalidArg("unsupported message type")
		}

		m := &state.Message{
			ID:             uuid.NewString(),
			ConversationID: in.ConversationID,
			SenderID:       in.SenderID,
			Type:           in.Type,
			Content:        content,
			FileID:         in.FileID,
			CreatedAt:      time.Now().UTC(),
		}
		d.Messages = append(d.Messages, m)

		cp := *m
		msg = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}
