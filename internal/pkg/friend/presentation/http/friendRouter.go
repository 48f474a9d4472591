package http

import (
	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/friend/presentation/controller"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"
	"youchat/internal/pkg/user/presentation/middleware"
)

// RegisterRoutes mounts the friend endpoints.
func RegisterRoutes(g *gin.RouterGroup, store *state.Store, router *realtime.Router, authenticator *auth.Authenticator) {
	listCtl := controller.NewListFriendsController(store)
	requestCtl := controller.NewRequestFriendController(store, router)
	respondCtl := controller.NewRespondFriendController(store, router)

	authed := g.Group("", middleware.RequireAuth(authenticator))
	authed.GET("/friends", listCtl.Handle())
	authed.POST("/friends/request", requestCtl.Handle())
	authed.POST("/friends/respond", respondCtl.Handle())
}
