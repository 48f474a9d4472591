package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/friend/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"

	apperrors "youchat/pkg/errors"
)

// friendsUpdate tells a party that their friend or request lists changed and
// should be refetched.
type friendsUpdate struct {
	Type string `json:"type"`
}

func notifyParties(router *realtime.Router, userIDs ...string) {
	payload, err := json.Marshal(friendsUpdate{Type: "friends:update"})
	if err != nil {
		return
	}
	for _, id := range userIDs {
		router.NotifyUser(id, payload)
	}
}

// RequestFriendController opens a pending friend request (one controller per endpoint).
type RequestFriendController struct {
	UC     *usecase.RequestFriendUseCase
	router *realtime.Router
}

func NewRequestFriendController(store *state.Store, router *realtime.Router) *RequestFriendController {
	return &RequestFriendController{UC: usecase.NewRequestFriendUseCase(store), router: router}
}

type requestFriendRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func (ctl *RequestFriendController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		var req requestFriendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		request, err := ctl.UC.Execute(usecase.RequestFriendInput{
			FromID:      u.ID,
			TargetID:    req.UserID,
			TargetEmail: req.Email,
		})
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		notifyParties(ctl.router, request.FromID, request.ToID)
		c.JSON(http.StatusCreated, gin.H{"request": request})
	}
}
