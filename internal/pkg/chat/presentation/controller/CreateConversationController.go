package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"
)

// CreateConversationController creates a group or direct conversation.
type CreateConversationController struct {
	UC     *usecase.CreateConversationUseCase
	router *realtime.Router
}

func NewCreateConversationController(store *state.Store, router *realtime.Router) *CreateConversationController {
	return &CreateConversationController{UC: usecase.NewCreateConversationUseCase(store), router: router}
}

type createConversationRequest struct {
	Name      string   `json:"name"`
	IsGroup   bool     `json:"isGroup"`
	MemberIDs []string `json:"memberIds"`
}

func (ctl *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		result, err := ctl.UC.Execute(usecase.CreateConversationInput{
			Name:      req.Name,
			IsGroup:   req.IsGroup,
			CreatorID: u.ID,
			MemberIDs: req.MemberIDs,
		})
		if err != nil {
			replyHTTPError(c, err)
			return
		}
		if !result.Created {
			// Duplicate direct conversation: hand back the existing one.
			c.JSON(http.StatusOK, gin.H{"conversation": result.Conversation})
			return
		}
		notifyMembers(ctl.router, result.Conversation.Members, conversationEvent{
			Type:           "conversation:updated",
			ConversationID: result.Conversation.ID,
			Conversation:   result.Conversation,
		})
		c.JSON(http.StatusCreated, gin.H{"conversation": result.Conversation})
	}
}
