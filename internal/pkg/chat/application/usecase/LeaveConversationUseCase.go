package usecase

import (
	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// LeaveConversationInput removes the actor from a group conversation.
type LeaveConversationInput struct {
	ConversationID string
	ActorID        string
}

// LeaveConversationResult reports what happened: when the group owner leaves,
// the whole group is dissolved and removed.
type LeaveConversationResult struct {
	Conversation *state.Conversation // post-leave state; nil when dissolved
	Dissolved    bool
}

type LeaveConversationUseCase struct {
	Store *state.Store
}

func NewLeaveConversationUseCase(store *state.Store) *LeaveConversationUseCase {
	return &LeaveConversationUseCase{Store: store}
}

func (uc *LeaveConversationUseCase) Execute(in LeaveConversationInput) (*LeaveConversationResult, error) {
	var result LeaveConversationResult
	err := uc.Store.Update(func(d *state.Document) error {
		idx := -1
		var conv *state.Conversation
		for i, c := range d.Conversations {
			if c.ID == in.ConversationID {
				idx = i
				conv = c
				break
			}
		}
		if conv == nil {
			return apperrors.ErrConversationNotFound
		}
		if !conv.IsGroup {
			return apperrors.InvalidArg("direct chats do not support leaving")
		}
		if !conv.HasMember(in.ActorID) {
			return apperrors.Forbidden("you are not a member of this group")
		}

		if conv.CreatedBy == in.ActorID {
			removeConversation(d, idx, conv.ID)
			result = LeaveConversationResult{Dissolved: true}
			return nil
		}

		members := conv.Members[:0]
		for _, id := range conv.Members {
			if id != in.ActorID {
				members = append(members, id)
			}
		}
		conv.Members = members

		cp := *conv
		cp.Members = append([]string(nil), conv.Members...)
		result = LeaveConversationResult{Conversation: &cp}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// removeConversation drops the conversation and everything scoped to it.
func removeConversation(d *state.Document, idx int, convID string) {
	d.Conversations = append(d.Conversations[:idx], d.Conversations[idx+1:]...)
	msgs := d.Messages[:0]
	for _, m := range d.Messages {
		if m.ConversationID != convID {
			msgs = append(msgs, m)
		}
	}
	d.Messages = msgs
	files := d.Files[:0]
	for _, f := range d.Files {
		if f.ConversationID != convID {
			files = append(files, f)
		}
	}
	d.Files = files
}
