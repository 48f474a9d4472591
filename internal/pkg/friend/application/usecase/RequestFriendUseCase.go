package usecase

import (
	"time"

	"github.com/google/uuid"

	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// RequestFriendInput creates a pending friend request. The target can be
// addressed by id or by email; email wins when both are set.
type RequestFriendInput struct {
	FromID      string
	TargetID    string
	TargetEmail string
}

type RequestFriendUseCase struct {
	Store *state.Store
}

func NewRequestFriendUseCase(store *state.Store) *RequestFriendUseCase {
	return &RequestFriendUseCase{Store: store}
}

func (uc *RequestFriendUseCase) Execute(in RequestFriendInput) (*state.FriendRequest, error) {
	var created state.FriendRequest
	err := uc.Store.Update(func(d *state.Document) error {
		from := findUser(d, in.FromID)
		if from == nil {
			return apperrors.ErrUnknownSubject
		}

		var target *state.User
		if in.TargetEmail != "" {
			email := state.NormalizeEmail(in.TargetEmail)
			for _, u := range d.Users {
				if state.NormalizeEmail(u.Email) == email {
					target = u
					break
				}
			}
		} else {
			target = findUser(d, in.TargetID)
		}
		if target == nil {
			return apperrors.NotFound("no user matches that address")
		}
		if target.ID == from.ID {
			return apperrors.ErrSelfFriendRequest
		}
		if from.HasFriend(target.ID) {
			return apperrors.ErrAlreadyFriends
		}
		for _, r := range d.FriendRequests {
			if r.Status != state.FriendRequestPending {
				continue
			}
			if (r.FromID == from.ID && r.ToID == target.ID) ||
				(r.FromID == target.ID && r.ToID == from.ID) {
				return apperrors.ErrPendingRequestExists
			}
		}

		created = state.FriendRequest{
			ID:        uuid.NewString(),
			FromID:    from.ID,
			ToID:      target.ID,
			Status:    state.FriendRequestPending,
			CreatedAt: time.Now().UTC(),
		}
		cp := created
		d.FriendRequests = append(d.FriendRequests, &cp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func findUser(d *state.Document, id string) *state.User {
	if id == "" {
		return nil
	}
	for _, u := range d.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}
