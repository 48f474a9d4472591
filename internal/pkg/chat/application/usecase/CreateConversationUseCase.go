package usecase

import (
	"time"

	"github.com/google/uuid"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
	"youchat/pkg/security"
)

// CreateConversationInput opens a new group or direct conversation. The
// creator is always included in the member set.
type CreateConversationInput struct {
	CreatorID string
	Name      string
	MemberIDs []string
	IsGroup   bool
}

// CreateConversationResult reports the conversation and whether it already
// existed (direct conversations are unique per member pair; asking again
// returns the existing one instead of erroring).
type CreateConversationResult struct {
	Conversation *state.Conversation
	Created      bool
}

type CreateConversationUseCase struct {
	Store *state.Store
}

func NewCreateConversationUseCase(store *state.Store) *CreateConversationUseCase {
	return &CreateConversationUseCase{Store: store}
}

func (uc *CreateConversationUseCase) Execute(in CreateConversationInput) (*CreateConversationResult, error) {
	if in.CreatorID == "" {
		return nil, apperrors.InvalidArg("creator is required")
	}
	cleanName := security.SanitizeInput(in.Name)
	if in.IsGroup && cleanName == "" {
		return nil, apperrors.InvalidArg("conversation name cannot be empty")
	}

	members := dedupe(append([]string{in.CreatorID}, in.MemberIDs...))

	if !in.IsGroup {
		if len(in.MemberIDs) == 0 {
			return nil, apperrors.InvalidArg("direct chat requires a target user id")
		}
		if len(members) != 2 {
			return nil, apperrors.InvalidArg("direct chat must have exactly two members")
		}
	}

	var result CreateConversationResult
	err := uc.Store.Update(func(d *state.Document) error {
		if !in.IsGroup {
			if existing := findDirect(d, members[0], members[1]); existing != nil {
				cp := *existing
				cp.Members = append([]string(nil), existing.Members...)
				result = CreateConversationResult{Conversation: &cp, Created: false}
				return nil
			}
		}
		conv := &state.Conversation{
			ID:        uuid.NewString(),
			Name:      cleanName,
			IsGroup:   in.IsGroup,
			Members:   members,
			CreatedBy: in.CreatorID,
			CreatedAt: time.Now().UTC(),
		}
		d.Conversations = append(d.Conversations, conv)

		cp := *conv
		cp.Members = append([]string(nil), conv.Members...)
		result = CreateConversationResult{Conversation: &cp, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func findDirect(d *state.Document, a, b string) *state.Conversation {
	for _, c := range d.Conversations {
		if !c.IsGroup && len(c.Members) == 2 && c.HasMember(a) && c.HasMember(b) {
			return c
		}
	}
	return nil
}
