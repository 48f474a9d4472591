package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/mfa"
	"youchat/internal/pkg/user/application/usecase"
	"youchat/internal/pkg/user/auth"

	apperrors "youchat/pkg/errors"
)

// VerifyMfaController exchanges a valid challenge code for a session credential.
type VerifyMfaController struct {
	verifyUC *usecase.VerifyMfaUseCase
}

func NewVerifyMfaController(challenges *mfa.Store, tokens *auth.TokenService) *VerifyMfaController {
	return &VerifyMfaController{verifyUC: usecase.NewVerifyMfaUseCase(challenges, tokens)}
}

func (ctl *VerifyMfaController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usecase.VerifyMfaInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		result, err := ctl.verifyUC.Execute(req)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
