package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/chat/call"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/auth"

	apperrors "youchat/pkg/errors"
)

// ChatSocketController owns the realtime endpoint: authentication at upgrade
// time, room membership, message fan-out and call signaling.
type ChatSocketController struct {
	router        *realtime.Router
	store         *state.Store
	calls         *call.Tracker
	authenticator *auth.Authenticator
	sendMessageUC *usecase.SendMessageUseCase
	joinRoomUC    *usecase.JoinConversationUseCase
}

func NewChatSocketController(store *state.Store, router *realtime.Router, calls *call.Tracker, authenticator *auth.Authenticator) *ChatSocketController {
	return &ChatSocketController{
		router:        router,
		store:         store,
		calls:         calls,
		authenticator: authenticator,
		sendMessageUC: usecase.NewSendMessageUseCase(store),
		joinRoomUC:    usecase.NewJoinConversationUseCase(store),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inboundFrame is the tagged envelope for every client event. Unknown tags
// and ill-shaped payloads are rejected at this boundary.
type inboundFrame struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversationId,omitempty"`
	Content        string          `json:"content,omitempty"`
	FileID         *string         `json:"fileId,omitempty"`
	MediaType      string          `json:"mediaType,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	UserID         string `json:"userId,omitempty"`
}

type messageFrame struct {
	Type    string            `json:"type"`
	Message state.Message     `json:"message"`
	Sender  state.UserSummary `json:"sender"`
}

type signalFrame struct {
	Type           string          `json:"type"`
	From           string          `json:"from"`
	ConversationID string          `json:"conversationId"`
	Payload        json.RawMessage `json:"payload"`
}

type callFrame struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversationId"`
	From           string    `json:"from"`
	MediaType      string    `json:"mediaType,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

const readTimeout = 60 * time.Second

// Handle upgrades the request to a websocket after verifying the bearer
// credential and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerFrom(c.GetHeader("Authorization"))
		}
		user, err := ctl.authenticator.Authenticate(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required", "code": string(apperrors.CodeOf(err))})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing else to do.
			return
		}

		conn := realtime.NewConnection(user.ID, ws)
		firstSession := !ctl.router.IsOnline(user.ID)
		ctl.router.Attach(conn)
		defer ctl.disconnect(conn, user)

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(readTimeout))
		})

		ctl.reply(conn, ackFrame{Type: "system:online", UserID: user.ID})
		if firstSession {
			ctl.notifyFriends(user, "system:online")
			ctl.store.RecordLog("info", "user connected", map[string]any{"userId": user.ID})
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "conversation:join":
				ctl.handleJoin(conn, frame)
			case "conversation:leave":
				ctl.handleLeave(conn, frame)
			case "message:send":
				ctl.handleMessage(conn, user, frame)
			case "webrtc:signal":
				ctl.handleSignal(conn, user, frame)
			case "call:invite":
				ctl.handleInvite(conn, user, frame)
			case "call:accept":
				ctl.handleAccept(conn, user, frame)
			case "call:decline", "call:end":
				ctl.handleTerminate(conn, user, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) disconnect(conn *realtime.Connection, user *state.User) {
	ctl.router.Detach(conn)
	conn.Close(websocket.CloseNormalClosure, "session closed")

	// A drop mid-call counts as hanging up.
	if !ctl.router.IsOnline(user.ID) {
		for _, convID := range ctl.calls.DropParticipant(user.ID) {
			ctl.broadcastCall(convID, "call:end", user.ID, "")
		}
		ctl.notifyFriends(user, "system:offline")
		ctl.store.RecordLog("info", "user disconnected", map[string]any{"userId": user.ID})
	}
}

func (ctl *ChatSocketController) handleJoin(conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	err := ctl.joinRoomUC.Execute(usecase.JoinConversationInput{
		ConversationID: frame.ConversationID,
		UserID:         conn.UserID,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}
	ctl.router.Join(frame.ConversationID, conn)
	ctl.reply(conn, ackFrame{Type: "conversation:joined", ConversationID: frame.ConversationID})
	// A joiner arriving mid-call still gets the ring.
	if callerID, mediaType, active := ctl.calls.Active(frame.ConversationID); active && callerID != conn.UserID {
		ctl.reply(conn, callFrame{
			Type:           "call:ring",
			ConversationID: frame.ConversationID,
			From:           callerID,
			MediaType:      mediaType,
			Timestamp:      time.Now().UTC(),
		})
	}
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	ctl.router.Leave(frame.ConversationID, conn)
	ctl.reply(conn, ackFrame{Type: "conversation:left", ConversationID: frame.ConversationID})
}

func (ctl *ChatSocketController) handleMessage(conn *realtime.Connection, user *state.User, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	msgType := state.MessageTypeText
	if frame.FileID != nil {
		msgType = state.MessageTypeFile
	}
	msg, err := ctl.sendMessageUC.Execute(usecase.SendMessageInput{
		ConversationID: frame.ConversationID,
		SenderID:       user.ID,
		Type:           msgType,
		Content:        frame.Content,
		FileID:         frame.FileID,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	out := messageFrame{Type: "message:new", Message: *msg, Sender: user.Summary()}
	payload, err := json.Marshal(out)
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode message")
		return
	}
	ctl.router.Broadcast(frame.ConversationID, payload)
}

func (ctl *ChatSocketController) handleSignal(conn *realtime.Connection, user *state.User, frame inboundFrame) {
	if frame.ConversationID == "" || len(frame.Payload) == 0 {
		ctl.replyError(conn, "bad_request", "conversationId and payload are required")
		return
	}
	out := signalFrame{
		Type:           "webrtc:signal",
		From:           user.ID,
		ConversationID: frame.ConversationID,
		Payload:        frame.Payload,
	}
	payload, err := json.Marshal(out)
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode signal")
		return
	}
	// Early candidates arriving before accept are buffered and replayed then.
	if ctl.calls.QueueOrPass(frame.ConversationID, conn.ID, payload) {
		return
	}
	ctl.router.BroadcastExcept(frame.ConversationID, payload, conn.ID)
	// A signal flowing after accept means negotiation is underway.
	ctl.calls.Connected(frame.ConversationID)
}

func (ctl *ChatSocketController) handleInvite(conn *realtime.Connection, user *state.User, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	if !ctl.store.IsMember(frame.ConversationID, user.ID) {
		ctl.replyError(conn, "forbidden", "you are not a member of this conversation")
		return
	}
	mediaType := frame.MediaType
	if mediaType == "" {
		mediaType = "video"
	}
	if err := ctl.calls.Invite(frame.ConversationID, user.ID, mediaType); err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}
	ctl.broadcastCallExcept(frame.ConversationID, "call:ring", user.ID, mediaType, conn.ID)
}

func (ctl *ChatSocketController) handleAccept(conn *realtime.Connection, user *state.User, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	if !ctl.store.IsMember(frame.ConversationID, user.ID) {
		ctl.replyError(conn, "forbidden", "you are not a member of this conversation")
		return
	}
	queued, err := ctl.calls.Accept(frame.ConversationID, user.ID)
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}
	ctl.broadcastCallExcept(frame.ConversationID, "call:accept", user.ID, "", conn.ID)
	// Replayed signals still skip whoever sent them.
	for _, signal := range queued {
		ctl.router.BroadcastExcept(frame.ConversationID, signal.Payload, signal.SessionID)
	}
}

func (ctl *ChatSocketController) handleTerminate(conn *realtime.Connection, user *state.User, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	if !ctl.store.IsMember(frame.ConversationID, user.ID) {
		ctl.replyError(conn, "forbidden", "you are not a member of this conversation")
		return
	}
	if frame.Type == "call:decline" {
		ctl.calls.Decline(frame.ConversationID)
	} else {
		ctl.calls.End(frame.ConversationID)
	}
	ctl.broadcastCallExcept(frame.ConversationID, frame.Type, user.ID, "", conn.ID)
}

func (ctl *ChatSocketController) broadcastCall(conversationID, eventType, fromID, mediaType string) {
	ctl.broadcastCallExcept(conversationID, eventType, fromID, mediaType, "")
}

func (ctl *ChatSocketController) broadcastCallExcept(conversationID, eventType, fromID, mediaType, excludeSessionID string) {
	out := callFrame{
		Type:           eventType,
		ConversationID: conversationID,
		From:           fromID,
		MediaType:      mediaType,
		Timestamp:      time.Now().UTC(),
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return
	}
	if excludeSessionID == "" {
		ctl.router.Broadcast(conversationID, payload)
		return
	}
	ctl.router.BroadcastExcept(conversationID, payload, excludeSessionID)
}

func (ctl *ChatSocketController) notifyFriends(user *state.User, eventType string) {
	payload, err := json.Marshal(ackFrame{Type: eventType, UserID: user.ID})
	if err != nil {
		return
	}
	for _, friendID := range user.Friends {
		ctl.router.NotifyUser(friendID, payload)
	}
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, frame any) {
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	ctl.replyError(conn, string(apperrors.CodeOf(err)), err.Error())
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{Type: "error", Code: code, Error: message}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func bearerFrom(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
