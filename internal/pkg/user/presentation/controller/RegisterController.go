package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/application/usecase"

	apperrors "youchat/pkg/errors"
)

// RegisterController handles account creation only (one controller per endpoint).
type RegisterController struct {
	registerUC *usecase.RegisterUserUseCase
}

func NewRegisterController(store *state.Store) *RegisterController {
	return &RegisterController{registerUC: usecase.NewRegisterUserUseCase(store)}
}

func (ctl *RegisterController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usecase.RegisterUserInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		user, err := ctl.registerUC.Execute(req)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}
