package http

import (
	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/mfa"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"
	"youchat/internal/pkg/user/presentation/controller"
	"youchat/internal/pkg/user/presentation/middleware"
)

// RegisterRoutes mounts the auth and profile endpoints. It constructs
// per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, store *state.Store, challenges *mfa.Store, tokens *auth.TokenService, authenticator *auth.Authenticator, echoCode bool) {
	registerCtl := controller.NewRegisterController(store)
	loginCtl := controller.NewLoginController(store, challenges, echoCode)
	verifyCtl := controller.NewVerifyMfaController(challenges, tokens)
	meCtl := controller.NewMeController()
	usersCtl := controller.NewListUsersController(store)

	g.POST("/auth/register", registerCtl.Handle())
	g.POST("/auth/login", loginCtl.Handle())
	g.POST("/auth/mfa/verify", verifyCtl.Handle())

	authed := g.Group("", middleware.RequireAuth(authenticator))
	authed.GET("/me", meCtl.Handle())
	authed.GET("/users", usersCtl.Handle())
}
