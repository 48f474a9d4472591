package usecase

import (
	"youchat/internal/pkg/state"
	apperrors "youchat/pkg/errors"
)

// FriendsOverview is everything a client needs to render its contact view:
// the resolved friend list plus both directions of pending requests,
// decorated with the counterpart's summary.
type FriendsOverview struct {
	Friends  []state.UserSummary `json:"friends"`
	Incoming []PendingRequest    `json:"incoming"`
	Outgoing []PendingRequest    `json:"outgoing"`
}

type PendingRequest struct {
	Request state.FriendRequest `json:"request"`
	User    state.UserSummary   `json:"user"`
}

type ListFriendsUseCase struct {
	Store *state.Store
}

func NewListFriendsUseCase(store *state.Store) *ListFriendsUseCase {
	return &ListFriendsUseCase{Store: store}
}

func (uc *ListFriendsUseCase) Execute(userID string) (*FriendsOverview, error) {
	overview := FriendsOverview{
		Friends:  []state.UserSummary{},
		Incoming: []PendingRequest{},
		Outgoing: []PendingRequest{},
	}
	var err error
	uc.Store.View(func(d *state.Document) {
		me := findUser(d, userID)
		if me == nil {
			err = apperrors.ErrUnknownSubject
			return
		}
		for _, fid := range me.Friends {
			if f := findUser(d, fid); f != nil {
				overview.Friends = append(overview.Friends, f.Summary())
			}
		}
		for _, r := range d.FriendRequests {
			if r.Status != state.FriendRequestPending {
				continue
			}
			switch userID {
			case r.ToID:
				if counterpart := findUser(d, r.FromID); counterpart != nil {
					overview.Incoming = append(overview.Incoming, PendingRequest{Request: *r, User: counterpart.Summary()})
				}
			case r.FromID:
				if counterpart := findUser(d, r.ToID); counterpart != nil {
					overview.Outgoing = append(overview.Outgoing, PendingRequest{Request: *r, User: counterpart.Summary()})
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}
