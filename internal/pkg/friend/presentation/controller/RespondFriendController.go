package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/friend/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"

	apperrors "youchat/pkg/errors"
)

// RespondFriendController handles accepting or declining a pending request.
type RespondFriendController struct {
	UC     *usecase.RespondFriendUseCase
	router *realtime.Router
}

func NewRespondFriendController(store *state.Store, router *realtime.Router) *RespondFriendController {
	return &RespondFriendController{UC: usecase.NewRespondFriendUseCase(store), router: router}
}

type respondFriendRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	Action    string `json:"action" binding:"required"`
}

func (ctl *RespondFriendController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		var req respondFriendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		result, err := ctl.UC.Execute(usecase.RespondFriendInput{
			RequestID:   req.RequestID,
			ResponderID: u.ID,
			Action:      usecase.RespondAction(req.Action),
		})
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		notifyParties(ctl.router, result.Request.FromID, result.Request.ToID)
		c.JSON(http.StatusOK, gin.H{
			"request":      result.Request,
			"conversation": result.Conversation,
		})
	}
}
