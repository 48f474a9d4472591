package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/friend/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"

	apperrors "youchat/pkg/errors"
)

// ListFriendsController returns the caller's friends plus pending requests in
// both directions.
type ListFriendsController struct {
	UC *usecase.ListFriendsUseCase
}

func NewListFriendsController(store *state.Store) *ListFriendsController {
	return &ListFriendsController{UC: usecase.NewListFriendsUseCase(store)}
}

func (ctl *ListFriendsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		overview, err := ctl.UC.Execute(u.ID)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}
