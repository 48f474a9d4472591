package usecase

import (
	"youchat/internal/pkg/state"
)

// ListConversationsUseCase returns every conversation the user is currently a
// member of.
type ListConversationsUseCase struct {
	Store *state.Store
}

func NewListConversationsUseCase(store *state.Store) *ListConversationsUseCase {
	return &ListConversationsUseCase{Store: store}
}

func (uc *ListConversationsUseCase) Execute(userID string) []state.Conversation {
	var out []state.Conversation
	uc.Store.View(func(d *state.Document) {
		for _, c := range d.Conversations {
			if c.HasMember(userID) {
				cp := *c
				cp.Members = append([]string(nil), c.Members...)
				out = append(out, cp)
			}
		}
	})
	return out
}
