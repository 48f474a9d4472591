package controller

import (
	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/file/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"

	apperrors "youchat/pkg/errors"
)

// DownloadFileController streams a stored upload to a conversation member.
type DownloadFileController struct {
	UC *usecase.GetFileUseCase
}

func NewDownloadFileController(store *state.Store) *DownloadFileController {
	return &DownloadFileController{UC: usecase.NewGetFileUseCase(store)}
}

func (ctl *DownloadFileController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		record, err := ctl.UC.Execute(c.Param("fileId"), u.ID)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		c.Header("Content-Type", record.MimeType)
		c.FileAttachment(record.Path, record.OriginalName)
	}
}
