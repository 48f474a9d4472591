package controller

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"youchat/internal/infrastructure/realtime"
	chatusecase "youchat/internal/pkg/chat/application/usecase"
	"youchat/internal/pkg/file/application/usecase"
	"youchat/internal/pkg/state"
	"youchat/internal/pkg/user/presentation/middleware"

	apperrors "youchat/pkg/errors"
)

// UploadFileController stores an upload, records it, and fans out the file
// message to the conversation (one controller per endpoint).
type UploadFileController struct {
	storeUC   *usecase.StoreFileUseCase
	sendMsgUC *chatusecase.SendMessageUseCase
	router    *realtime.Router
	uploadDir string
}

func NewUploadFileController(store *state.Store, router *realtime.Router, uploadDir string) *UploadFileController {
	return &UploadFileController{
		storeUC:   usecase.NewStoreFileUseCase(store),
		sendMsgUC: chatusecase.NewSendMessageUseCase(store),
		router:    router,
		uploadDir: uploadDir,
	}
}

type fileMessageFrame struct {
	Type    string            `json:"type"`
	Message state.Message     `json:"message"`
	Sender  state.UserSummary `json:"sender"`
	File    state.FileRecord  `json:"file"`
}

func (ctl *UploadFileController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		conversationID := c.PostForm("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if err := os.MkdirAll(ctl.uploadDir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory"})
			return
		}
		dst := filepath.Join(ctl.uploadDir, uuid.NewString()+filepath.Ext(header.Filename))

		record, err := ctl.storeUC.Execute(usecase.StoreFileInput{
			ConversationID: conversationID,
			UploaderID:     u.ID,
			Path:           dst,
			OriginalName:   header.Filename,
			MimeType:       mimeType,
			Size:           header.Size,
		})
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}
		if err := c.SaveUploadedFile(header, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
			return
		}

		msg, err := ctl.sendMsgUC.Execute(chatusecase.SendMessageInput{
			ConversationID: conversationID,
			SenderID:       u.ID,
			Type:           state.MessageTypeFile,
			Content:        record.OriginalName,
			FileID:         &record.ID,
		})
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error(), "code": string(apperrors.CodeOf(err))})
			return
		}

		frame := fileMessageFrame{Type: "message:new", Message: *msg, Sender: u.Summary(), File: *record}
		if payload, err := json.Marshal(frame); err == nil {
			ctl.router.Broadcast(conversationID, payload)
		}

		c.JSON(http.StatusCreated, gin.H{"file": record, "message": msg})
	}
}
