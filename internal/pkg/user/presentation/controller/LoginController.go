package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/mfa"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/application/usecase"

	apperrors "youchat/pkg/errors"
)

// LoginController verifies the password factor and opens an MFA challenge.
type LoginController struct {
	loginUC *usecase.LoginUseCase
	store   *state.Store
}

func NewLoginController(store *state.Store, challenges *mfa.Store, echoCode bool) *LoginController {
	return &LoginController{
		loginUC: usecase.NewLoginUseCase(store, challenges, echoCode),
		store:   store,
	}
}

func (ctl *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usecase.LoginInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		result, err := ctl.loginUC.Execute(req)
		if err != nil {
			ctl.store.RecordLog("warn", "failed login attempt", map[string]any{"email": req.Email})
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
