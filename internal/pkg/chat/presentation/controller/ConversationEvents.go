package controller

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/state"

	apperrors "youchat/pkg/errors"
)

// conversationEvent is the lifecycle notification pushed to affected members
// over their live connections.
type conversationEvent struct {
	Type           string              `json:"type"`
	ConversationID string              `json:"conversationId"`
	Conversation   *state.Conversation `json:"conversation,omitempty"`
}

func notifyMembers(router *realtime.Router, memberIDs []string, event conversationEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	for _, id := range memberIDs {
		router.NotifyUser(id, payload)
	}
}

func replyHTTPError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
}
