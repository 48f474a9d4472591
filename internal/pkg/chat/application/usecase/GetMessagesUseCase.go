package usecase

import (
	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// HistoryWindow bounds how many recent messages a history fetch returns.
const HistoryWindow = 200

// GetMessagesInput identifies the conversation and the requesting user.
type GetMessagesInput struct {
	ConversationID string
	UserID         string
}

// GetMessagesUseCase returns the most recent window of a conversation's
// messages in insertion order. Non-members learn nothing, not even whether
// the conversation exists.
type GetMessagesUseCase struct {
	Store *state.Store
}

func NewGetMessagesUseCase(store *state.Store) *GetMessagesUseCase {
	return &GetMessagesUseCase{Store: store}
}

func (uc *GetMessagesUseCase) Execute(in GetMessagesInput) ([]state.Message, error) {
	if in.ConversationID == "" {
		return nil, apperrors.InvalidArg("conversationId is required")
	}
	conv, ok := uc.Store.ConversationByID(in.ConversationID)
	if !ok || !conv.HasMember(in.UserID) {
		return nil, apperrors.NotFound("conversation does not exist or you lack permission")
	}
	return uc.Store.MessagesFor(in.ConversationID, HistoryWindow), nil
}
