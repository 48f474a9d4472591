package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"
)

// AddMembersController adds users to a group conversation.
type AddMembersController struct {
	UC     *usecase.AddMembersUseCase
	router *realtime.Router
}

func NewAddMembersController(store *state.Store, router *realtime.Router) *AddMembersController {
	return &AddMembersController{UC: usecase.NewAddMembersUseCase(store), router: router}
}

type addMembersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

func (ctl *AddMembersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		var req addMembersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		conv, err := ctl.UC.Execute(usecase.AddMembersInput{
			ConversationID: c.Param("conversationId"),
			ActorID:        u.ID,
			MemberIDs:      req.MemberIDs,
		})
		if err != nil {
			replyHTTPError(c, err)
			return
		}
		notifyMembers(ctl.router, conv.Members, conversationEvent{
			Type:           "conversation:updated",
			ConversationID: conv.ID,
			Conversation:   conv,
		})
		c.JSON(http.StatusOK, gin.H{"conversation": conv})
	}
}
