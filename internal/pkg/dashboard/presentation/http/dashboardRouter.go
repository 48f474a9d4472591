package http

import (
	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/dashboard/presentation/controller"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"
	"youchat/internal/pkg/user/presentation/middleware"
)

// RegisterRoutes mounts the admin-only dashboard endpoints.
func RegisterRoutes(g *gin.RouterGroup, store *state.Store, router *realtime.Router, authenticator *auth.Authenticator) {
	ctl := controller.NewDashboardController(store, router)

	admin := g.Group("", middleware.RequireAuth(authenticator), middleware.RequireAdmin())
	admin.GET("/dashboard/summary", ctl.Summary())
	admin.GET("/dashboard/activity", ctl.Activity())
	admin.GET("/logs", ctl.Logs())
}
