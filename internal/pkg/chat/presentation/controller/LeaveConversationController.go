package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"
)

// LeaveConversationController removes the caller from a group; the owner
// leaving dissolves the whole group.
type LeaveConversationController struct {
	UC     *usecase.LeaveConversationUseCase
	store  *state.Store
	router *realtime.Router
}

func NewLeaveConversationController(store *state.Store, router *realtime.Router) *LeaveConversationController {
	return &LeaveConversationController{UC: usecase.NewLeaveConversationUseCase(store), store: store, router: router}
}

func (ctl *LeaveConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		convID := c.Param("conversationId")

		// Member list before the mutation, so dissolution can still reach
		// everyone who was in the group.
		var before []string
		if conv, ok := ctl.store.ConversationByID(convID); ok {
			before = conv.Members
		}

		result, err := ctl.UC.Execute(usecase.LeaveConversationInput{
			ConversationID: convID,
			ActorID:        u.ID,
		})
		if err != nil {
			replyHTTPError(c, err)
			return
		}
		if result.Dissolved {
			notifyMembers(ctl.router, before, conversationEvent{
				Type:           "conversation:dissolved",
				ConversationID: convID,
			})
			c.JSON(http.StatusOK, gin.H{"dissolved": true})
			return
		}
		notifyMembers(ctl.router, before, conversationEvent{
			Type:           "conversation:updated",
			ConversationID: convID,
			Conversation:   result.Conversation,
		})
		c.JSON(http.StatusOK, gin.H{"conversation": result.Conversation})
	}
}
