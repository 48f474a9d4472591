package usecase

import (
	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// JoinConversationInput validates a request to attach a connection to a
// conversation's broadcast group.
type JoinConversationInput struct {
	ConversationID string
	UserID         string
}

// JoinConversationUseCase authorizes joining a broadcast group. The check runs
// against the live conversation record every time: being added to or removed
// from a group between attempts changes the outcome, and the system never
// pushes membership changes into already-open subscriptions.
type JoinConversationUseCase struct {
	Store *state.Store
}

func NewJoinConversationUseCase(store *state.Store) *JoinConversationUseCase {
	return &JoinConversationUseCase{Store: store}
}

func (uc *JoinConversationUseCase) Execute(in JoinConversationInput) error {
	if in.ConversationID == "" || in.UserID == "" {
		return apperrors.InvalidArg("conversationId and userId are required")
	}
	conv, ok := uc.Store.ConversationByID(in.ConversationID)
	if !ok {
		return apperrors.ErrConversationNotFound
	}
	if !conv.HasMember(in.UserID) {
		return apperrors.ErrNotConversationMember
	}
	return nil
}
