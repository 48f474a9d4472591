package usecase

import (
	"time"

	"github.com/google/uuid"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// RespondAction is what the addressee does with a pending request.
type RespondAction string

const (
	ActionAccept  RespondAction = "accept"
	ActionDecline RespondAction = "decline"
)

type RespondFriendInput struct {
	RequestID   string
	ResponderID string
	Action      RespondAction
}

// RespondFriendResult carries the handled request plus, on acceptance, the
// direct conversation between the pair (existing or freshly created).
type RespondFriendResult struct {
	Request      *state.FriendRequest
	Conversation *state.Conversation
}

type RespondFriendUseCase struct {
	Store *state.Store
}

func NewRespondFriendUseCase(store *state.Store) *RespondFriendUseCase {
	return &RespondFriendUseCase{Store: store}
}

func (uc *RespondFriendUseCase) Execute(in RespondFriendInput) (*RespondFriendResult, error) {
	if in.Action != ActionAccept && in.Action != ActionDecline {
		return nil, apperrors.InvalidArg("action must be accept or decline")
	}
	var result RespondFriendResult
	err := uc.Store.Update(func(d *state.Document) error {
		var req *state.FriendRequest
		for _, r := range d.FriendRequests {
			if r.ID == in.RequestID {
				req = r
				break
			}
		}
		if req == nil {
			return apperrors.ErrRequestNotFound
		}
		if req.ToID != in.ResponderID {
			return apperrors.Forbidden("only the addressee can respond to a request")
		}
		if req.Status != state.FriendRequestPending {
			return apperrors.ErrRequestHandled
		}

		now := time.Now().UTC()
		if in.Action == ActionDecline {
			req.Status = state.FriendRequestDeclined
			req.HandledAt = &now
			cp := *req
			result.Request = &cp
			return nil
		}

		// Resolve both parties before touching the request so a failed lookup
		// leaves it pending.
		from := findUser(d, req.FromID)
		to := findUser(d, req.ToID)
		if from == nil || to == nil {
			return apperrors.ErrUnknownSubject
		}
		req.Status = state.FriendRequestAccepted
		req.HandledAt = &now
		addFriend(from, to.ID, now)
		addFriend(to, from.ID, now)
		conv := ensureDirectConversation(d, from.ID, to.ID, now)

		reqCopy := *req
		handled := now
		reqCopy.HandledAt = &handled
		result.Request = &reqCopy
		convCopy := *conv
		convCopy.Members = append([]string(nil), conv.Members...)
		result.Conversation = &convCopy
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// addFriend is idempotent; re-adding an existing relation changes nothing.
func addFriend(u *state.User, friendID string, now time.Time) {
	if u.HasFriend(friendID) {
		return
	}
	u.Friends = append(u.Friends, friendID)
	u.UpdatedAt = now
}

func ensureDirectConversation(d *state.Document, a, b string, now time.Time) *state.Conversation {
	for _, c := range d.Conversations {
		if c.IsGroup {
			continue
		}
		if c.HasMember(a) && c.HasMember(b) {
			return c
		}
	}
	conv := &state.Conversation{
		ID:        uuid.NewString(),
		Name:      "",
		IsGroup:   false,
		Members:   []string{a, b},
		CreatedBy: state.SystemUserID,
		CreatedAt: now,
	}
	d.Conversations = append(d.Conversations, conv)
	return conv
}
