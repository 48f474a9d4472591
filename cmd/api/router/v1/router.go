package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/call"
	chatHTTP "youchat/internal/pkg/chat/presentation/http"
	dashboardHTTP "youchat/internal/pkg/dashboard/presentation/http"
	fileHTTP "youchat/internal/pkg/file/presentation/http"
	friendHTTP "youchat/internal/pkg/friend/presentation/http"
	"youchat/internal/pkg/mfa"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"
	userHTTP "youchat/internal/pkg/user/presentation/http"
)

// Deps is everything the HTTP layer needs, wired once in main.
type Deps struct {
	Store         *state.Store
	Router        *realtime.Router
	Calls         *call.Tracker
	Challenges    *mfa.Store
	Tokens        *auth.TokenService
	Authenticator *auth.Authenticator
	UploadDir     string
	MfaDebugEcho  bool
}

// RegisterRoutes mounts all API routes under /api.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := r.Group("/api")
	userHTTP.RegisterRoutes(api, deps.Store, deps.Challenges, deps.Tokens, deps.Authenticator, deps.MfaDebugEcho)
	chatHTTP.RegisterRoutes(api, deps.Store, deps.Router, deps.Calls, deps.Authenticator)
	friendHTTP.RegisterRoutes(api, deps.Store, deps.Router, deps.Authenticator)
	fileHTTP.RegisterRoutes(api, deps.Store, deps.Router, deps.Authenticator, deps.UploadDir)
	dashboardHTTP.RegisterRoutes(api, deps.Store, deps.Router, deps.Authenticator)
}
