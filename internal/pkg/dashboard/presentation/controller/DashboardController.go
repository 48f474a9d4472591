package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/dashboard/application/usecase"
	"youchat/internal/pkg/state"
)

// DashboardController serves the admin counters, activity feed, and audit log.
type DashboardController struct {
	UC *usecase.GetDashboardUseCase
}

func NewDashboardController(store *state.Store, router *realtime.Router) *DashboardController {
	return &DashboardController{UC: usecase.NewGetDashboardUseCase(store, router)}
}

func (ctl *DashboardController) Summary() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ctl.UC.Summary())
	}
}

func (ctl *DashboardController) Activity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ctl.UC.Activity())
	}
}

func (ctl *DashboardController) Logs() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"logs": ctl.UC.Logs()})
	}
}
