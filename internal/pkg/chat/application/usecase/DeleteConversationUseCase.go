package usecase

import (
	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// DeleteConversationInput deletes a group conversation. Only the creator may
// do this; direct chats cannot be deleted.
type DeleteConversationInput struct {
	ConversationID string
	ActorID        string
}

type DeleteConversationUseCase struct {
	Store *state.Store
}

func NewDeleteConversationUseCase(store *state.Store) *DeleteConversationUseCase {
	return &DeleteConversationUseCase{Store: store}
}

// Execute returns the members of the deleted conversation so callers can
// notify them.
func (uc *DeleteConversationUseCase) Execute(in DeleteConversationInput) ([]string, error) {
	var members []string
	err := uc.Store.Update(func(d *state.Document) error {
		for i, c := range d.Conversations {
			if c.ID != in.ConversationID {
				continue
			}
			if !c.IsGroup {
				return apperrors.InvalidArg("direct chats cannot be deleted")
			}
			if c.CreatedBy != in.ActorID {
				return apperrors.Forbidden("only the group owner can delete it")
			}
			members = append([]string(nil), c.Members...)
			removeConversation(d, i, c.ID)
			return nil
		}
		return apperrors.ErrConversationNotFound
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}
