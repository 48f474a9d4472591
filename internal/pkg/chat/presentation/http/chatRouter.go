package http

import (
	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/call"
	"youchat/internal/pkg/chat/presentation/controller"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"
	"youchat/internal/pkg/user/presentation/middleware"
)

// RegisterRoutes registers the conversation endpoints and the realtime socket.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, store *state.Store, router *realtime.Router, calls *call.Tracker, authenticator *auth.Authenticator) {
	listCtl := controller.NewListConversationsController(store)
	createCtl := controller.NewCreateConversationController(store, router)
	messagesCtl := controller.NewGetMessagesController(store)
	addMembersCtl := controller.NewAddMembersController(store, router)
	leaveCtl := controller.NewLeaveConversationController(store, router)
	deleteCtl := controller.NewDeleteConversationController(store, router)
	socketCtl := controller.NewChatSocketController(store, router, calls, authenticator)

	// The socket authenticates at upgrade time itself.
	g.GET("/chat/ws", socketCtl.Handle())

	authed := g.Group("", middleware.RequireAuth(authenticator))
	authed.GET("/conversations", listCtl.Handle())
	authed.POST("/conversations", createCtl.Handle())
	authed.GET("/conversations/:conversationId/messages", messagesCtl.Handle())
	authed.POST("/conversations/:conversationId/members", addMembersCtl.Handle())
	authed.POST("/conversations/:conversationId/leave", leaveCtl.Handle())
	authed.DELETE("/conversations/:conversationId", deleteCtl.Handle())
}
