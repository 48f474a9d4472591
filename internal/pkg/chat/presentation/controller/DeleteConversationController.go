package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"
)

// DeleteConversationController deletes a group; owner only.
type DeleteConversationController struct {
	UC     *usecase.DeleteConversationUseCase
	router *realtime.Router
}

func NewDeleteConversationController(store *state.Store, router *realtime.Router) *DeleteConversationController {
	return &DeleteConversationController{UC: usecase.NewDeleteConversationUseCase(store), router: router}
}

func (ctl *DeleteConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		convID := c.Param("conversationId")
		members, err := ctl.UC.Execute(usecase.DeleteConversationInput{
			ConversationID: convID,
			ActorID:        u.ID,
		})
		if err != nil {
			replyHTTPError(c, err)
			return
		}
		notifyMembers(ctl.router, members, conversationEvent{
			Type:           "conversation:deleted",
			ConversationID: convID,
		})
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
