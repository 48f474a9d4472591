package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"
)

// GetMessagesController returns the bounded recent history of a conversation.
type GetMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewGetMessagesController(store *state.Store) *GetMessagesController {
	return &GetMessagesController{UC: usecase.NewGetMessagesUseCase(store)}
}

func (ctl *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		msgs, err := ctl.UC.Execute(usecase.GetMessagesInput{
			ConversationID: c.Param("conversationId"),
			UserID:         u.ID,
		})
		if err != nil {
			replyHTTPError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	}
}
