package http

import (
	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/file/presentation/controller"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"
	"youchat/internal/pkg/user/presentation/middleware"
)

// RegisterRoutes mounts the upload and download endpoints.
func RegisterRoutes(g *gin.RouterGroup, store *state.Store, router *realtime.Router, authenticator *auth.Authenticator, uploadDir string) {
	uploadCtl := controller.NewUploadFileController(store, router, uploadDir)
	downloadCtl := controller.NewDownloadFileController(store)

	authed := g.Group("", middleware.RequireAuth(authenticator))
	authed.POST("/files/upload", uploadCtl.Handle())
	authed.GET("/files/:fileId", downloadCtl.Handle())
}
