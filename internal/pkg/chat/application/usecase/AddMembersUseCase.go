package usecase

import (
	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// AddMembersInput adds users to a group conversation. Unknown ids are
// silently dropped; already-present members are not duplicated.
type AddMembersInput struct {
	ConversationID string
	ActorID        string
	MemberIDs      []string
}

type AddMembersUseCase struct {
	Store *state.Store
}

func NewAddMembersUseCase(store *state.Store) *AddMembersUseCase {
	return &AddMembersUseCase{Store: store}
}

func (uc *AddMembersUseCase) Execute(in AddMembersInput) (*state.Conversation, error) {
	if len(in.MemberIDs) == 0 {
		return nil, apperrors.InvalidArg("please specify members to add")
	}

	var updated *state.Conversation
	err := uc.Store.Update(func(d *state.Document) error {
		var conv *state.Conversation
		for _, c := range d.Conversations {
			if c.ID == in.ConversationID {
				conv = c
				break
			}
		}
		if conv == nil {
			return apperrors.ErrConversationNotFound
		}
		if !conv.IsGroup {
			return apperrors.InvalidArg("direct chats do not support adding members")
		}

		var actor *state.User
		for _, u := range d.Users {
			if u.ID == in.ActorID {
				actor = u
				break
			}
		}
		if actor == nil || (!conv.HasMember(in.ActorID) && !actor.IsAdmin()) {
			return apperrors.Forbidden("you are not allowed to add members to this conversation")
		}

		known := make(map[string]struct{}, len(d.Users))
		for _, u := range d.Users {
			known[u.ID] = struct{}{}
		}
		for _, id := range in.MemberIDs {
			if _, ok := known[id]; !ok {
				continue
			}
			if !conv.HasMember(id) {
				conv.Members = append(conv.Members, id)
			}
		}

		cp := *conv
		cp.Members = append([]string(nil), conv.Members...)
		updated = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
