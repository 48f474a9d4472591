package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"
)

// ListConversationsController returns the caller's conversations (one controller per endpoint).
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(store *state.Store) *ListConversationsController {
	return &ListConversationsController{UC: usecase.NewListConversationsUseCase(store)}
}

func (ctl *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"conversations": ctl.UC.Execute(u.ID)})
	}
}
