package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"
)

// MeController returns the authenticated user's own profile.
type MeController struct{}

func NewMeController() *MeController {
	return &MeController{}
}

func (ctl *MeController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u.Summary()})
	}
}

// ListUsersController returns the sanitized directory of all accounts.
type ListUsersController struct {
	store *state.Store
}

func NewListUsersController(store *state.Store) *ListUsersController {
	return &ListUsersController{store: store}
}

func (ctl *ListUsersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		users := []state.UserSummary{}
		ctl.store.View(func(d *state.Document) {
			for _, u := range d.Users {
				users = append(users, u.Summary())
			}
		})
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}
